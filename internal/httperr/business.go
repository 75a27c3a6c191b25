package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ===============================
// Código → HTTP status
// ===============================

var statusByCode = map[string]int{
	"invalid_request":       http.StatusBadRequest,
	"invalid_schedule":      http.StatusBadRequest,
	"invalid_skills":        http.StatusBadRequest,
	"invalid_status":        http.StatusBadRequest,
	"invalid_signature":     http.StatusBadRequest,
	"not_verified":          http.StatusForbidden,
	"forbidden_role":        http.StatusForbidden,
	"not_party":             http.StatusForbidden,
	"booking_not_found":     http.StatusNotFound,
	"job_post_not_found":    http.StatusNotFound,
	"payment_not_found":     http.StatusNotFound,
	"caregiver_not_found":   http.StatusNotFound,
	"account_not_found":     http.StatusNotFound,
	"invalid_state":         http.StatusConflict,
	"already_applied":       http.StatusConflict,
	"duplicate_payment":     http.StatusConflict,
	"account_exists":        http.StatusConflict,
	"did_not_apply":         http.StatusConflict,
	"account_not_active":    http.StatusConflict,
	"processor_unavailable": http.StatusBadGateway,
}

// WriteBusiness traduz um BusinessError para a resposta HTTP; erros
// desconhecidos viram 500 opaco (sem vazar detalhe interno)
func WriteBusiness(c *gin.Context, err error, fallbackMsg string) {
	var be BusinessError
	if errors.As(err, &be) {
		status, ok := statusByCode[be.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		msg := be.Message
		if msg == "" {
			msg = fallbackMsg
		}
		Write(c, status, be.Code, msg)
		return
	}

	Internal(c, "internal_error", fallbackMsg)
}
