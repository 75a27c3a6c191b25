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

type AcceptBooking struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewAcceptBooking(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *AcceptBooking {
	return &AcceptBooking{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

func (uc *AcceptBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Authorize(domain.OpAccept, actor, b.FamilyID, b.CaregiverID); err != nil {
		return nil, err
	}

	prev := domain.Status(b.Status)
	if err := domain.Accept(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateStatusFrom(ctx, b, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     actor.ID,
		ActorTable:  "Care",
		Action:      "Accepted booking",
		TargetTable: "Booking",
		TargetID:    b.ID,
	})

	uc.notify.Dispatch(notification.Message{
		Type:      notification.TypeBookingAccepted,
		Message:   "Booking accepted for " + b.ElderName,
		FamilyID:  &b.FamilyID,
		BookingID: &b.ID,
		Recipient: models.RecipientFamily,
	})

	return b, nil
}
