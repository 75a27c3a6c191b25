package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRestrictConnectAccountRequiresReason(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewAdminHandler(nil, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPatch, "/admin/connect/accounts/1/restrict", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.RestrictConnectAccount(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRestrictActionRecordsReason(t *testing.T) {
	got := restrictAction("chargebacks under review")
	if !strings.Contains(got, "chargebacks under review") {
		t.Errorf("action = %q", got)
	}
}
