package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/jobpost"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/httpresp"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	ucJobPost "github.com/CareBridgeServices/care-marketplace/internal/usecase/jobpost"
	"gorm.io/gorm"
)

// ======================================================
// HANDLER
// ======================================================

type JobPostHandler struct {
	createUC *ucJobPost.CreateJobPost
	applyUC  *ucJobPost.ApplyToJobPost
	matchUC  *ucJobPost.MatchCaregivers

	repo domain.Repository
	db   *gorm.DB
}

func NewJobPostHandler(
	createUC *ucJobPost.CreateJobPost,
	applyUC *ucJobPost.ApplyToJobPost,
	matchUC *ucJobPost.MatchCaregivers,
	repo domain.Repository,
	db *gorm.DB,
) *JobPostHandler {
	return &JobPostHandler{
		createUC: createUC,
		applyUC:  applyUC,
		matchUC:  matchUC,
		repo:     repo,
		db:       db,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateJobPostRequest struct {
	ElderName     string   `json:"elder_name" binding:"required"`
	Date          string   `json:"date" binding:"required"`
	StartTime     string   `json:"start_time" binding:"required"`
	DurationHours float64  `json:"duration_hours" binding:"required"`
	Salary        float64  `json:"salary" binding:"required"`
	Location      string   `json:"location" binding:"required"`
	SkillRequired []string `json:"skill_required" binding:"required,min=1"`
}

type UpdateJobPostStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *JobPostHandler) Create(c *gin.Context) {
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateJobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid job post payload.")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_schedule", "Date must be YYYY-MM-DD.")
		return
	}

	jp, err := h.createUC.Execute(c.Request.Context(), familyID, ucJobPost.CreateJobPostInput{
		ElderName:     req.ElderName,
		Date:          date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		Salary:        req.Salary,
		Location:      req.Location,
		SkillRequired: req.SkillRequired,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not create job post.")
		return
	}

	c.JSON(http.StatusCreated, jp)
}

// ======================================================
// READS
// ======================================================

// ListActive é o feed dos cuidadores: só posts ACTIVE, mais novos
// primeiro. Para cuidadores o feed ainda é filtrado: ao menos uma skill
// em comum e nenhuma candidatura anterior
func (h *JobPostHandler) ListActive(c *gin.Context) {
	var posts []models.JobPost
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Family").
		Where("status = ?", models.JobPostStatusActive).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		httperr.Internal(c, "job_post_list_failed", "Could not list job posts.")
		return
	}

	if c.GetString(middleware.ContextUserRole) == middleware.RoleCaregiver {
		posts = h.feedForCaregiver(c, posts)
	}
	httpresp.List(c, posts)
}

func (h *JobPostHandler) feedForCaregiver(c *gin.Context, posts []models.JobPost) []models.JobPost {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	var cg models.Caregiver
	if err := h.db.WithContext(c.Request.Context()).
		First(&cg, caregiverID).Error; err != nil {
		return posts
	}

	var appliedIDs []uint
	h.db.WithContext(c.Request.Context()).
		Model(&models.Application{}).
		Where("caregiver_id = ?", caregiverID).
		Pluck("job_post_id", &appliedIDs)

	applied := make(map[uint]struct{}, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = struct{}{}
	}

	out := posts[:0]
	for _, jp := range posts {
		if _, ok := applied[jp.ID]; ok {
			continue
		}
		if !domain.SkillsIntersect(cg.Skills, jp.SkillRequired) {
			continue
		}
		out = append(out, jp)
	}
	return out
}

func (h *JobPostHandler) ListMine(c *gin.Context) {
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var posts []models.JobPost
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Applications").
		Preload("Applications.Caregiver").
		Where("family_id = ?", familyID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		httperr.Internal(c, "job_post_list_failed", "Could not list job posts.")
		return
	}
	httpresp.List(c, posts)
}

func (h *JobPostHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	jp, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Job post not found.")
		return
	}
	httpresp.OK(c, jp)
}

// ======================================================
// APPLY / MATCH
// ======================================================

func (h *JobPostHandler) Apply(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	app, err := h.applyUC.Execute(c.Request.Context(), caregiverID, id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not apply to job post.")
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *JobPostHandler) Match(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	ranked, err := h.matchUC.Execute(c.Request.Context(), familyID, id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not match caregivers.")
		return
	}
	httpresp.List(c, ranked)
}

// ======================================================
// STATUS / DELETE
// ======================================================

func (h *JobPostHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateJobPostStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid status payload.")
		return
	}
	if req.Status != models.JobPostStatusActive && req.Status != models.JobPostStatusExpire {
		httperr.BadRequest(c, "invalid_status", "Status must be ACTIVE or EXPIRE.")
		return
	}

	jp, err := h.repo.UpdateStatus(c.Request.Context(), id, familyID, req.Status)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not update job post.")
		return
	}
	httpresp.OK(c, jp)
}

func (h *JobPostHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	jp, err := h.repo.Delete(c.Request.Context(), id, familyID)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not delete job post.")
		return
	}
	httpresp.OK(c, gin.H{"deleted": jp.ID})
}
