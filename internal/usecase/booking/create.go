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

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	CaregiverID uint
	JobPostID   *uint

	ElderName string
	Location  string
	Skills    []string

	ScheduleDate  time.Time
	StartTime     string
	DurationHours float64

	HourlyRate float64
	Notes      string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewCreateBooking(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	in CreateBookingInput,
) (*models.Booking, error) {

	if err := domain.Authorize(domain.OpCreate, actor, 0, 0); err != nil {
		return nil, err
	}

	ok, err := uc.repo.CaregiverExists(ctx, in.CaregiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("caregiver_not_found")
	}

	if in.JobPostID != nil {
		ok, err := uc.repo.JobPostExists(ctx, *in.JobPostID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrBusiness("job_post_not_found")
		}
	}

	b, err := domain.New(domain.NewBookingInput{
		FamilyID:      actor.ID,
		CaregiverID:   in.CaregiverID,
		JobPostID:     in.JobPostID,
		ElderName:     in.ElderName,
		Location:      in.Location,
		Skills:        in.Skills,
		ScheduleDate:  in.ScheduleDate,
		StartTime:     in.StartTime,
		DurationHours: in.DurationHours,
		HourlyRate:    in.HourlyRate,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     actor.ID,
		ActorTable:  "Family",
		Action:      "Created booking",
		TargetTable: "Booking",
		TargetID:    b.ID,
	})

	msg := "New booking request for " + b.ElderName + " on " + b.ScheduleDate.Format("2006-01-02")
	if end, err := domain.EndTime(b.StartTime, b.DurationHours); err == nil {
		msg += ", " + b.StartTime + " to " + end
	}

	uc.notify.Dispatch(notification.Message{
		Type:        notification.TypeNewBookingRequest,
		Message:     msg,
		CaregiverID: &b.CaregiverID,
		BookingID:   &b.ID,
		Recipient:   models.RecipientCaregiver,
	})

	return b, nil
}
