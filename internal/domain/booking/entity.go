package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

// ===============================
// Criação + campos derivados
// ===============================

type NewBookingInput struct {
	FamilyID    uint
	CaregiverID uint
	JobPostID   *uint

	ElderName string
	Location  string
	Skills    []string

	ScheduleDate  time.Time
	StartTime     string // HH:MM 24h
	DurationHours float64

	HourlyRate float64
	Notes      string
}

// New monta um Booking PENDING com totalAmount derivado e snapshots de
// taxa/skills congelados. totalAmount nunca é recalculado depois daqui,
// mesmo que hourlyRate mude em outro lugar.
func New(in NewBookingInput) (*models.Booking, error) {
	if in.ElderName == "" || in.Location == "" {
		return nil, httperr.ErrBusiness("invalid_request")
	}
	if len(in.Skills) == 0 {
		return nil, httperr.ErrBusinessMsg("invalid_skills", "At least one skill is required")
	}
	if in.DurationHours < 0.5 || in.DurationHours > 24 {
		return nil, httperr.ErrBusinessMsg("invalid_schedule", "Duration must be between 0.5 and 24 hours")
	}
	if in.HourlyRate < 0 {
		return nil, httperr.ErrBusiness("invalid_request")
	}
	if _, err := time.Parse("15:04", in.StartTime); err != nil {
		return nil, httperr.ErrBusinessMsg("invalid_schedule", "Start time must be HH:MM")
	}

	total := math.Round(in.HourlyRate*in.DurationHours*100) / 100

	return &models.Booking{
		FamilyID:      in.FamilyID,
		CaregiverID:   in.CaregiverID,
		JobPostID:     in.JobPostID,
		ElderName:     in.ElderName,
		Location:      in.Location,
		Skills:        models.StringList(in.Skills),
		ScheduleDate:  in.ScheduleDate,
		StartTime:     in.StartTime,
		DurationHours: in.DurationHours,
		HourlyRate:    in.HourlyRate,
		TotalAmount:   total,
		Status:        string(InitialStatus()),
		PaymentStatus: string(PaymentUnpaid),
		Notes:         in.Notes,
		RateSnapshot:  in.HourlyRate,
		SkillSnapshot: models.StringList(in.Skills),
	}, nil
}

// EndTime deriva o horário de término a partir de startTime + duração
func EndTime(startTime string, durationHours float64) (string, error) {
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return "", err
	}

	total := t.Hour()*60 + t.Minute() + int(math.Round(durationHours*60))
	return fmt.Sprintf("%02d:%02d", (total/60)%24, total%60), nil
}

// ===============================
// Transições
// ===============================

func Accept(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusAccepted); err != nil {
		return err
	}

	b.Status = string(StatusAccepted)
	b.AcceptedAt = &now
	b.CaregiverAcknowledged = true
	return nil
}

func Reject(b *models.Booking, reason string, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusRejected); err != nil {
		return err
	}

	if reason == "" {
		reason = "No reason provided"
	}

	b.Status = string(StatusRejected)
	b.RejectionReason = reason
	return nil
}

func Start(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusInProgress); err != nil {
		return err
	}

	b.Status = string(StatusInProgress)
	b.StartedAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCompleted); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func Cancel(b *models.Booking, byRole string, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCanceled); err != nil {
		return err
	}

	b.Status = string(StatusCanceled)
	b.CanceledAt = &now
	b.CanceledByRole = byRole
	return nil
}
