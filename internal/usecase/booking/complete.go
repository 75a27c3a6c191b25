package booking

import (
	"context"
	"time"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/booking"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

type CompleteBooking struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewCompleteBooking(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *CompleteBooking {
	return &CompleteBooking{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Authorize(domain.OpComplete, actor, b.FamilyID, b.CaregiverID); err != nil {
		return nil, err
	}

	prev := domain.Status(b.Status)
	if err := domain.Complete(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateStatusFrom(ctx, b, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     actor.ID,
		ActorTable:  actorTable(actor.Role),
		Action:      "Completed booking",
		TargetTable: "Booking",
		TargetID:    b.ID,
	})

	// a contraparte de quem concluiu recebe o aviso
	msg := notification.Message{
		Type:      notification.TypeBookingCompleted,
		Message:   "Booking completed for " + b.ElderName,
		BookingID: &b.ID,
	}
	if actor.Role == domain.RoleFamily {
		msg.CaregiverID = &b.CaregiverID
		msg.Recipient = models.RecipientCaregiver
	} else {
		msg.FamilyID = &b.FamilyID
		msg.Recipient = models.RecipientFamily
	}
	uc.notify.Dispatch(msg)

	return b, nil
}
