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

type RejectBooking struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewRejectBooking(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *RejectBooking {
	return &RejectBooking{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

func (uc *RejectBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
	reason string,
) (*models.Booking, error) {

	b, err := uc.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Authorize(domain.OpReject, actor, b.FamilyID, b.CaregiverID); err != nil {
		return nil, err
	}

	prev := domain.Status(b.Status)
	if err := domain.Reject(b, reason, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateStatusFrom(ctx, b, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     actor.ID,
		ActorTable:  "Care",
		Action:      "Rejected booking",
		TargetTable: "Booking",
		TargetID:    b.ID,
	})

	uc.notify.Dispatch(notification.Message{
		Type:      notification.TypeBookingRejected,
		Message:   "Booking rejected for " + b.ElderName,
		FamilyID:  &b.FamilyID,
		BookingID: &b.ID,
		Recipient: models.RecipientFamily,
	})

	return b, nil
}
