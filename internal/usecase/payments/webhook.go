package payments

import (
	"context"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

// ======================================================
// WEBHOOK RECONCILER
// ======================================================

// Webhook reconcilia o estado local com os eventos do processador. Cada
// variante é idempotente: replays do mesmo evento (redis) ou do mesmo
// efeito (escrita condicional no banco) não notificam de novo.
type Webhook struct {
	repo          domain.Repository
	proc          domain.Processor
	idem          IdempotencyStore
	notify        NotifySink
	paymentSecret string
	connectSecret string
}

func NewWebhook(
	repo domain.Repository,
	proc domain.Processor,
	idem IdempotencyStore,
	notify NotifySink,
	paymentSecret string,
	connectSecret string,
) *Webhook {
	return &Webhook{
		repo:          repo,
		proc:          proc,
		idem:          idem,
		notify:        notify,
		paymentSecret: paymentSecret,
		connectSecret: connectSecret,
	}
}

// ApplyPayment trata o endpoint de eventos de pagamento
func (uc *Webhook) ApplyPayment(ctx context.Context, payload []byte, signature string) error {
	ev, err := uc.proc.ParseWebhook(payload, signature, uc.paymentSecret)
	if err != nil {
		return httperr.ErrBusiness("invalid_signature")
	}
	return uc.apply(ctx, ev)
}

// ApplyConnect trata o endpoint de eventos de conta (account.updated)
func (uc *Webhook) ApplyConnect(ctx context.Context, payload []byte, signature string) error {
	ev, err := uc.proc.ParseWebhook(payload, signature, uc.connectSecret)
	if err != nil {
		return httperr.ErrBusiness("invalid_signature")
	}
	return uc.apply(ctx, ev)
}

func (uc *Webhook) apply(ctx context.Context, ev domain.Event) error {
	// Guarda rápida de replay. Falha do redis não bloqueia: a escrita
	// condicional no banco ainda segura o efeito.
	guarded := false
	if uc.idem != nil && ev.ID != "" {
		seen, err := uc.idem.Seen(ctx, ev.ID)
		if err == nil && seen {
			return nil
		}
		guarded = err == nil
	}

	err := uc.dispatch(ctx, ev)
	if err != nil && guarded {
		// o efeito não aplicou; a marca sai para o retry reaplicar
		_ = uc.idem.Forget(ctx, ev.ID)
	}
	return err
}

func (uc *Webhook) dispatch(ctx context.Context, ev domain.Event) error {
	switch ev.Kind {
	case domain.EventIntentSucceeded:
		return uc.intentSucceeded(ctx, ev.IntentID)

	case domain.EventIntentFailed:
		_, err := uc.repo.MarkRejected(ctx, ev.IntentID)
		if httperr.IsBusiness(err, "payment_not_found") {
			return nil
		}
		return err

	case domain.EventTransferCreated:
		err := uc.repo.AttachTransfer(ctx, ev.Destination, ev.TransferID)
		if httperr.IsBusiness(err, "payment_not_found") {
			return nil
		}
		return err

	case domain.EventTransferFailed:
		err := uc.repo.MarkTransferFailed(ctx, ev.TransferID, ev.Destination)
		if httperr.IsBusiness(err, "payment_not_found") {
			return nil
		}
		return err

	case domain.EventAccountUpdated:
		return uc.accountUpdated(ctx, ev.AccountID, ev.Flags)
	}

	// tipos não tratados são aceitos e ignorados
	return nil
}

func (uc *Webhook) intentSucceeded(ctx context.Context, intentID string) error {
	p, applied, err := uc.repo.MarkCompleted(ctx, intentID)
	if err != nil {
		if httperr.IsBusiness(err, "payment_not_found") {
			return nil
		}
		return err
	}
	if !applied {
		return nil
	}

	// as duas pontas são avisadas: quem recebe e quem pagou
	uc.notify.Dispatch(notification.Message{
		Type:        notification.TypePaymentReceived,
		Message:     "Payment received for your completed work",
		CaregiverID: &p.CaregiverID,
		JobPostID:   &p.JobPostID,
		Recipient:   models.RecipientCaregiver,
	})
	uc.notify.Dispatch(notification.Message{
		Type:      notification.TypePaymentConfirmed,
		Message:   "Your payment was processed successfully",
		FamilyID:  &p.FamilyID,
		JobPostID: &p.JobPostID,
		Recipient: models.RecipientFamily,
	})
	return nil
}

func (uc *Webhook) accountUpdated(ctx context.Context, accountID string, flags domain.AccountFlags) error {
	cg, err := uc.repo.FindCaregiverByAccountID(ctx, accountID)
	if err != nil {
		// contas que não conhecemos são ignoradas
		return nil
	}

	acct := cg.ConnectAccount
	applyFlags(&acct, flags)

	return uc.repo.UpdateConnectAccount(ctx, cg.ID, acct)
}
