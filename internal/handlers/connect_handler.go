package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/httpresp"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	ucPayments "github.com/CareBridgeServices/care-marketplace/internal/usecase/payments"
)

// ======================================================
// HANDLER
// ======================================================

type ConnectHandler struct {
	accounts *ucPayments.ConnectAccounts
}

func NewConnectHandler(accounts *ucPayments.ConnectAccounts) *ConnectHandler {
	return &ConnectHandler{accounts: accounts}
}

func (h *ConnectHandler) CreateAccount(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	acct, err := h.accounts.CreateAccount(c.Request.Context(), caregiverID)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not create payout account.")
		return
	}
	c.JSON(http.StatusCreated, acct)
}

func (h *ConnectHandler) OnboardingLink(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	url, err := h.accounts.OnboardingLink(c.Request.Context(), caregiverID)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not create onboarding link.")
		return
	}
	httpresp.OK(c, gin.H{"url": url})
}

func (h *ConnectHandler) DashboardLink(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	url, err := h.accounts.DashboardLink(c.Request.Context(), caregiverID)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not create dashboard link.")
		return
	}
	httpresp.OK(c, gin.H{"url": url})
}

func (h *ConnectHandler) Balance(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	bal, err := h.accounts.Balance(c.Request.Context(), caregiverID)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not fetch balance.")
		return
	}
	httpresp.OK(c, bal)
}

// RefreshStatus força uma releitura das flags no processador; o webhook
// account.updated cobre o caminho normal
func (h *ConnectHandler) RefreshStatus(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	acct, err := h.accounts.RefreshStatus(c.Request.Context(), caregiverID)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not refresh account status.")
		return
	}
	httpresp.OK(c, acct)
}
