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

type StartBooking struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewStartBooking(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *StartBooking {
	return &StartBooking{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

func (uc *StartBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Authorize(domain.OpStart, actor, b.FamilyID, b.CaregiverID); err != nil {
		return nil, err
	}

	prev := domain.Status(b.Status)
	if err := domain.Start(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateStatusFrom(ctx, b, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     actor.ID,
		ActorTable:  actorTable(actor.Role),
		Action:      "Started booking",
		TargetTable: "Booking",
		TargetID:    b.ID,
	})

	// a contraparte de quem iniciou recebe o aviso
	msg := notification.Message{
		Type:      notification.TypeBookingStarted,
		Message:   "Booking started for " + b.ElderName,
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

func actorTable(role string) string {
	switch role {
	case domain.RoleFamily:
		return "Family"
	case domain.RoleCaregiver:
		return "Care"
	default:
		return "Admin"
	}
}
