package jobpost

import (
	"context"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/jobpost"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

type ApplyToJobPost struct {
	repo   domain.Repository
	audit  AuditSink
	notify NotifySink
}

func NewApplyToJobPost(
	repo domain.Repository,
	audit AuditSink,
	notify NotifySink,
) *ApplyToJobPost {
	return &ApplyToJobPost{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

func (uc *ApplyToJobPost) Execute(
	ctx context.Context,
	caregiverID uint,
	jobPostID uint,
) (*models.Application, error) {

	cg, err := uc.repo.GetCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, httperr.ErrBusiness("caregiver_not_found")
	}
	if cg.VerifiedStatus != models.VerifiedStatusVerified {
		return nil, httperr.ErrBusiness("not_verified")
	}

	jp, err := uc.repo.GetByID(ctx, jobPostID)
	if err != nil {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}
	if jp.Status != models.JobPostStatusActive {
		return nil, httperr.ErrBusinessMsg("invalid_state", "job post is no longer active")
	}

	dup, err := uc.repo.HasApplication(ctx, jobPostID, caregiverID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, httperr.ErrBusiness("already_applied")
	}

	app := &models.Application{
		JobPostID:   jobPostID,
		CaregiverID: caregiverID,
	}
	if err := uc.repo.AppendApplication(ctx, app); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:     caregiverID,
		ActorTable:  "Care",
		Action:      "Applied to job post",
		TargetTable: "JobPost",
		TargetID:    jp.ID,
	})

	uc.notify.Dispatch(notification.Message{
		Type:        notification.TypeJobApplication,
		Message:     cg.Name + " applied to your job post for " + jp.ElderName,
		FamilyID:    &jp.FamilyID,
		JobPostID:   &jp.ID,
		CaregiverID: &caregiverID,
		Recipient:   models.RecipientFamily,
	})

	return app, nil
}
