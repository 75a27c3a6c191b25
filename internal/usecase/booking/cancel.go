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

type CancelBooking struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewCancelBooking(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *CancelBooking {
	return &CancelBooking{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Authorize(domain.OpCancel, actor, b.FamilyID, b.CaregiverID); err != nil {
		return nil, err
	}

	prev := domain.Status(b.Status)
	if err := domain.Cancel(b, actor.Role, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateStatusFrom(ctx, b, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     actor.ID,
		ActorTable:  "Family",
		Action:      "Canceled booking",
		TargetTable: "Booking",
		TargetID:    b.ID,
	})

	uc.notify.Dispatch(notification.Message{
		Type:        notification.TypeBookingCanceled,
		Message:     "Booking canceled for " + b.ElderName,
		CaregiverID: &b.CaregiverID,
		BookingID:   &b.ID,
		Recipient:   models.RecipientCaregiver,
	})

	return b, nil
}
