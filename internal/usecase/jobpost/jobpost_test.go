package jobpost

import (
	"context"
	"testing"
	"time"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/jobpost"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

// ======================================================
// FAKES
// ======================================================

type fakeRepo struct {
	posts      map[uint]*models.JobPost
	nextID     uint
	apps       []models.Application
	caregivers map[uint]*models.Caregiver
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:      map[uint]*models.JobPost{},
		nextID:     1,
		caregivers: map[uint]*models.Caregiver{},
	}
}

func (r *fakeRepo) Create(_ context.Context, jp *models.JobPost) error {
	jp.ID = r.nextID
	r.nextID++
	copied := *jp
	r.posts[jp.ID] = &copied
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uint) (*models.JobPost, error) {
	jp, ok := r.posts[id]
	if !ok {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}
	copied := *jp
	return &copied, nil
}

func (r *fakeRepo) GetForFamily(_ context.Context, id, familyID uint) (*models.JobPost, error) {
	jp, ok := r.posts[id]
	if !ok || jp.FamilyID != familyID {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}
	copied := *jp
	return &copied, nil
}

func (r *fakeRepo) HasApplication(_ context.Context, jobPostID, caregiverID uint) (bool, error) {
	for _, a := range r.apps {
		if a.JobPostID == jobPostID && a.CaregiverID == caregiverID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) AppendApplication(_ context.Context, app *models.Application) error {
	app.ID = uint(len(r.apps) + 1)
	r.apps = append(r.apps, *app)
	return nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id, familyID uint, status string) (*models.JobPost, error) {
	jp, ok := r.posts[id]
	if !ok || jp.FamilyID != familyID {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}
	jp.Status = status
	copied := *jp
	return &copied, nil
}

func (r *fakeRepo) Delete(_ context.Context, id, familyID uint) (*models.JobPost, error) {
	jp, ok := r.posts[id]
	if !ok || jp.FamilyID != familyID {
		return nil, httperr.ErrBusiness("job_post_not_found")
	}
	delete(r.posts, id)
	return jp, nil
}

func (r *fakeRepo) GetCaregiver(_ context.Context, id uint) (*models.Caregiver, error) {
	cg, ok := r.caregivers[id]
	if !ok {
		return nil, httperr.ErrBusiness("caregiver_not_found")
	}
	copied := *cg
	return &copied, nil
}

func (r *fakeRepo) ListEligibleCaregivers(_ context.Context, required []string) ([]models.Caregiver, error) {
	var out []models.Caregiver
	for _, cg := range r.caregivers {
		if cg.VerifiedStatus != models.VerifiedStatusVerified ||
			cg.BackgroundCheckStatus != models.BackgroundCheckCompleted {
			continue
		}
		if domain.SkillsIntersect(cg.Skills, required) {
			out = append(out, *cg)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

type fakeAudit struct {
	events []audit.Event
}

func (f *fakeAudit) Dispatch(ev audit.Event) { f.events = append(f.events, ev) }

type fakeNotify struct {
	messages []notification.Message
}

func (f *fakeNotify) Dispatch(m notification.Message) { f.messages = append(f.messages, m) }

// ======================================================
// HELPERS
// ======================================================

func addCaregiver(r *fakeRepo, id uint, verified bool, skills ...string) {
	status := models.VerifiedStatusUnverified
	if verified {
		status = models.VerifiedStatusVerified
	}
	r.caregivers[id] = &models.Caregiver{
		ID:                    id,
		Name:                  "Caregiver",
		VerifiedStatus:        status,
		BackgroundCheckStatus: models.BackgroundCheckCompleted,
		Skills:                models.StringList(skills),
	}
}

func postInput() CreateJobPostInput {
	return CreateJobPostInput{
		ElderName:     "Dona Maria",
		Date:          time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:00",
		DurationHours: 4,
		Salary:        25,
		Location:      "São Paulo",
		SkillRequired: []string{"medical_care", "mobility_assistance"},
	}
}

// ======================================================
// TESTS
// ======================================================

func TestCreateJobPostNotifiesEligibleCaregivers(t *testing.T) {
	repo := newFakeRepo()
	addCaregiver(repo, 1, true, "medical_care")
	addCaregiver(repo, 2, true, "cooking")
	addCaregiver(repo, 3, false, "medical_care")

	not := &fakeNotify{}
	uc := NewCreateJobPost(repo, &fakeAudit{}, not)

	jp, err := uc.Execute(context.Background(), 7, postInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if jp.Status != models.JobPostStatusActive {
		t.Errorf("status = %s", jp.Status)
	}

	// só o cuidador 1 intersecta e está verificado
	if len(not.messages) != 1 {
		t.Fatalf("notifications = %d, want 1", len(not.messages))
	}
	if *not.messages[0].CaregiverID != 1 {
		t.Errorf("notified caregiver %d", *not.messages[0].CaregiverID)
	}
	if not.messages[0].Type != notification.TypeNewJobPost {
		t.Errorf("type = %s", not.messages[0].Type)
	}
}

func TestCreateJobPostValidation(t *testing.T) {
	uc := NewCreateJobPost(newFakeRepo(), &fakeAudit{}, &fakeNotify{})

	tests := []struct {
		name   string
		mutate func(*CreateJobPostInput)
		code   string
	}{
		{"empty elder", func(in *CreateJobPostInput) { in.ElderName = " " }, "invalid_request"},
		{"no skills", func(in *CreateJobPostInput) { in.SkillRequired = nil }, "invalid_skills"},
		{"too short", func(in *CreateJobPostInput) { in.DurationHours = 0.25 }, "invalid_schedule"},
		{"too long", func(in *CreateJobPostInput) { in.DurationHours = 30 }, "invalid_schedule"},
		{"bad start time", func(in *CreateJobPostInput) { in.StartTime = "9am" }, "invalid_schedule"},
		{"negative salary", func(in *CreateJobPostInput) { in.Salary = -1 }, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := postInput()
			tt.mutate(&in)
			_, err := uc.Execute(context.Background(), 7, in)
			if !httperr.IsBusiness(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestApplyHappyPath(t *testing.T) {
	repo := newFakeRepo()
	addCaregiver(repo, 1, true, "medical_care")

	create := NewCreateJobPost(repo, &fakeAudit{}, &fakeNotify{})
	jp, err := create.Execute(context.Background(), 7, postInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	not := &fakeNotify{}
	apply := NewApplyToJobPost(repo, &fakeAudit{}, not)
	app, err := apply.Execute(context.Background(), 1, jp.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.JobPostID != jp.ID || app.CaregiverID != 1 {
		t.Errorf("application = %+v", app)
	}
	if len(not.messages) != 1 || not.messages[0].Recipient != models.RecipientFamily {
		t.Errorf("family notification missing: %+v", not.messages)
	}
}

func TestApplyUnverifiedForbidden(t *testing.T) {
	repo := newFakeRepo()
	addCaregiver(repo, 1, false, "medical_care")

	create := NewCreateJobPost(repo, &fakeAudit{}, &fakeNotify{})
	jp, _ := create.Execute(context.Background(), 7, postInput())

	apply := NewApplyToJobPost(repo, &fakeAudit{}, &fakeNotify{})
	_, err := apply.Execute(context.Background(), 1, jp.ID)
	if !httperr.IsBusiness(err, "not_verified") {
		t.Errorf("expected not_verified, got %v", err)
	}
}

func TestApplyTwiceConflicts(t *testing.T) {
	repo := newFakeRepo()
	addCaregiver(repo, 1, true, "medical_care")

	create := NewCreateJobPost(repo, &fakeAudit{}, &fakeNotify{})
	jp, _ := create.Execute(context.Background(), 7, postInput())

	apply := NewApplyToJobPost(repo, &fakeAudit{}, &fakeNotify{})
	if _, err := apply.Execute(context.Background(), 1, jp.ID); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	_, err := apply.Execute(context.Background(), 1, jp.ID)
	if !httperr.IsBusiness(err, "already_applied") {
		t.Errorf("expected already_applied, got %v", err)
	}
}

func TestApplyToExpiredPost(t *testing.T) {
	repo := newFakeRepo()
	addCaregiver(repo, 1, true, "medical_care")

	create := NewCreateJobPost(repo, &fakeAudit{}, &fakeNotify{})
	jp, _ := create.Execute(context.Background(), 7, postInput())
	if _, err := repo.UpdateStatus(context.Background(), jp.ID, 7, models.JobPostStatusExpire); err != nil {
		t.Fatalf("expire: %v", err)
	}

	apply := NewApplyToJobPost(repo, &fakeAudit{}, &fakeNotify{})
	_, err := apply.Execute(context.Background(), 1, jp.ID)
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("expected invalid_state, got %v", err)
	}
}

func TestMatchRanksAndLimits(t *testing.T) {
	repo := newFakeRepo()
	// sete elegíveis com coberturas diferentes
	addCaregiver(repo, 1, true, "medical_care", "mobility_assistance")
	addCaregiver(repo, 2, true, "medical_care")
	addCaregiver(repo, 3, true, "mobility_assistance")
	addCaregiver(repo, 4, true, "medical_care", "mobility_assistance")
	addCaregiver(repo, 5, true, "medical_care")
	addCaregiver(repo, 6, true, "mobility_assistance")
	addCaregiver(repo, 7, true, "medical_care")

	create := NewCreateJobPost(repo, &fakeAudit{}, &fakeNotify{})
	jp, _ := create.Execute(context.Background(), 9, postInput())

	match := NewMatchCaregivers(repo)
	ranked, err := match.Execute(context.Background(), 9, jp.ID)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if len(ranked) != 5 {
		t.Fatalf("ranked = %d, want 5", len(ranked))
	}
	if ranked[0].MatchScore != 100 || ranked[1].MatchScore != 100 {
		t.Errorf("top scores = %d, %d", ranked[0].MatchScore, ranked[1].MatchScore)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].MatchScore > ranked[i-1].MatchScore {
			t.Errorf("not sorted at %d", i)
		}
	}
}

func TestMatchOnlyOwner(t *testing.T) {
	repo := newFakeRepo()
	create := NewCreateJobPost(repo, &fakeAudit{}, &fakeNotify{})
	jp, _ := create.Execute(context.Background(), 9, postInput())

	match := NewMatchCaregivers(repo)
	_, err := match.Execute(context.Background(), 8, jp.ID)
	if !httperr.IsBusiness(err, "job_post_not_found") {
		t.Errorf("expected job_post_not_found, got %v", err)
	}
}
