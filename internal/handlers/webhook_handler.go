package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	ucPayments "github.com/CareBridgeServices/care-marketplace/internal/usecase/payments"
)

// corpo máximo aceito de um webhook
const webhookMaxBody = 64 * 1024

// ======================================================
// HANDLER
// ======================================================

// WebhookHandler recebe os eventos do processador. O corpo vai cru para
// a verificação de assinatura; qualquer parse antes disso a quebraria.
type WebhookHandler struct {
	webhook *ucPayments.Webhook
}

func NewWebhookHandler(webhook *ucPayments.Webhook) *WebhookHandler {
	return &WebhookHandler{webhook: webhook}
}

func (h *WebhookHandler) Payment(c *gin.Context) {
	h.handle(c, h.webhook.ApplyPayment)
}

func (h *WebhookHandler) Connect(c *gin.Context) {
	h.handle(c, h.webhook.ApplyConnect)
}

func (h *WebhookHandler) handle(
	c *gin.Context,
	apply func(ctx context.Context, payload []byte, signature string) error,
) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookMaxBody))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read webhook body.")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := apply(c.Request.Context(), payload, signature); err != nil {
		// assinatura inválida é 400; o resto 500 para o processador
		// reenviar depois
		if httperr.IsBusiness(err, "invalid_signature") {
			httperr.WriteBusiness(c, err, "Invalid webhook signature.")
			return
		}
		httperr.Internal(c, "webhook_failed", "Could not process event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
