package jobpost

import (
	"context"
	"strings"
	"time"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/jobpost"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

// ======================================================
// INPUT
// ======================================================

type CreateJobPostInput struct {
	ElderName     string
	Date          time.Time
	StartTime     string
	DurationHours float64
	Salary        float64
	Location      string
	SkillRequired []string
}

// ======================================================
// USE CASE
// ======================================================

type CreateJobPost struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewCreateJobPost(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *CreateJobPost {
	return &CreateJobPost{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateJobPost) Execute(
	ctx context.Context,
	familyID uint,
	in CreateJobPostInput,
) (*models.JobPost, error) {

	if strings.TrimSpace(in.ElderName) == "" || strings.TrimSpace(in.Location) == "" {
		return nil, httperr.ErrBusinessMsg("invalid_request", "elder name and location are required")
	}
	if len(in.SkillRequired) == 0 {
		return nil, httperr.ErrBusiness("invalid_skills")
	}
	if in.DurationHours < 0.5 || in.DurationHours > 24 {
		return nil, httperr.ErrBusinessMsg("invalid_schedule", "duration must be between 0.5 and 24 hours")
	}
	if _, err := time.Parse("15:04", in.StartTime); err != nil {
		return nil, httperr.ErrBusinessMsg("invalid_schedule", "start time must be HH:MM")
	}
	if in.Salary < 0 {
		return nil, httperr.ErrBusinessMsg("invalid_request", "salary must not be negative")
	}

	jp := &models.JobPost{
		FamilyID:      familyID,
		ElderName:     in.ElderName,
		Date:          in.Date,
		StartTime:     in.StartTime,
		DurationHours: in.DurationHours,
		Salary:        in.Salary,
		Location:      in.Location,
		Status:        models.JobPostStatusActive,
		SkillRequired: models.StringList(in.SkillRequired),
	}

	if err := uc.repo.Create(ctx, jp); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     familyID,
		ActorTable:  "Family",
		Action:      "Created job post",
		TargetTable: "JobPost",
		TargetID:    jp.ID,
	})

	// Fan-out best-effort: avisa os cuidadores elegíveis cujas skills
	// intersectam as exigidas. Falha aqui não derruba a criação.
	eligible, err := uc.repo.ListEligibleCaregivers(ctx, in.SkillRequired)
	if err == nil {
		for i := range eligible {
			cg := eligible[i]
			uc.notify.Dispatch(notification.Message{
				Type:        notification.TypeNewJobPost,
				Message:     "New job post for " + jp.ElderName + " in " + jp.Location,
				CaregiverID: &cg.ID,
				JobPostID:   &jp.ID,
				Recipient:   models.RecipientCaregiver,
			})
		}
	}

	return jp, nil
}
