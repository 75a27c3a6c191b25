package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/booking"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/httpresp"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	ucBooking "github.com/CareBridgeServices/care-marketplace/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC   *ucBooking.CreateBooking
	acceptUC   *ucBooking.AcceptBooking
	rejectUC   *ucBooking.RejectBooking
	startUC    *ucBooking.StartBooking
	completeUC *ucBooking.CompleteBooking
	cancelUC   *ucBooking.CancelBooking

	repo domain.Repository
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	acceptUC *ucBooking.AcceptBooking,
	rejectUC *ucBooking.RejectBooking,
	startUC *ucBooking.StartBooking,
	completeUC *ucBooking.CompleteBooking,
	cancelUC *ucBooking.CancelBooking,
	repo domain.Repository,
) *BookingHandler {
	return &BookingHandler{
		createUC:   createUC,
		acceptUC:   acceptUC,
		rejectUC:   rejectUC,
		startUC:    startUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
		repo:       repo,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	CaregiverID uint  `json:"caregiver_id" binding:"required"`
	JobPostID   *uint `json:"job_post_id"`

	ElderName string   `json:"elder_name" binding:"required"`
	Location  string   `json:"location" binding:"required"`
	Skills    []string `json:"skills" binding:"required,min=1"`

	ScheduleDate  string  `json:"schedule_date" binding:"required"`
	StartTime     string  `json:"start_time" binding:"required"`
	DurationHours float64 `json:"duration_hours" binding:"required"`

	HourlyRate float64 `json:"hourly_rate"`
	Notes      string  `json:"notes"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// ======================================================
// HELPERS
// ======================================================

func actorFromContext(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.MustGet(middleware.ContextUserID).(uint),
		Role: c.GetString(middleware.ContextUserRole),
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_request", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	actor := actorFromContext(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking payload.")
		return
	}

	date, err := time.Parse("2006-01-02", req.ScheduleDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_schedule", "Schedule date must be YYYY-MM-DD.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), actor, ucBooking.CreateBookingInput{
		CaregiverID:   req.CaregiverID,
		JobPostID:     req.JobPostID,
		ElderName:     req.ElderName,
		Location:      req.Location,
		Skills:        req.Skills,
		ScheduleDate:  date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		HourlyRate:    req.HourlyRate,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not create booking.")
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Accept(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	b, err := h.acceptUC.Execute(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not accept booking.")
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RejectBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.rejectUC.Execute(c.Request.Context(), actorFromContext(c), id, req.Reason)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not reject booking.")
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Start(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	b, err := h.startUC.Execute(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not start booking.")
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	b, err := h.completeUC.Execute(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not complete booking.")
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	b, err := h.cancelUC.Execute(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not cancel booking.")
		return
	}
	httpresp.OK(c, b)
}

// ======================================================
// READS
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actor := actorFromContext(c)

	b, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.WriteBusiness(c, err, "Booking not found.")
		return
	}

	if err := domain.Authorize(domain.OpView, actor, b.FamilyID, b.CaregiverID); err != nil {
		httperr.WriteBusiness(c, err, "You are not part of this booking.")
		return
	}
	httpresp.OK(c, b)
}

// List despacha pelo papel autenticado: família vê os seus, cuidador os
// dele
func (h *BookingHandler) List(c *gin.Context) {
	actor := actorFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := domain.ListFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	var (
		bookings interface{}
		total    int64
		err      error
	)
	switch actor.Role {
	case domain.RoleFamily:
		bookings, total, err = h.repo.ListForFamily(c.Request.Context(), actor.ID, filter)
	case domain.RoleCaregiver:
		bookings, total, err = h.repo.ListForCaregiver(c.Request.Context(), actor.ID, filter)
	default:
		httperr.Forbidden(c, "forbidden_role", "Admins list bookings through the admin API.")
		return
	}
	if err != nil {
		httperr.Internal(c, "booking_list_failed", "Could not list bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  bookings,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

func (h *BookingHandler) UpdateNotes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid notes payload.")
		return
	}

	b, err := h.repo.UpdateNotes(c.Request.Context(), id, familyID, req.Notes)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not update notes.")
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Stats(c *gin.Context) {
	actor := actorFromContext(c)

	stats, err := h.repo.StatsByStatus(c.Request.Context(), actor.Role, actor.ID)
	if err != nil {
		httperr.Internal(c, "booking_stats_failed", "Could not compute stats.")
		return
	}
	httpresp.OK(c, gin.H{"stats": stats})
}
