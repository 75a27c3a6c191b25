package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/httpresp"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	ucPayments "github.com/CareBridgeServices/care-marketplace/internal/usecase/payments"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	createIntentUC *ucPayments.CreateIntent
	repo           domain.Repository
}

func NewPaymentHandler(
	createIntentUC *ucPayments.CreateIntent,
	repo domain.Repository,
) *PaymentHandler {
	return &PaymentHandler{
		createIntentUC: createIntentUC,
		repo:           repo,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateIntentRequest struct {
	JobPostID   uint `json:"job_post_id" binding:"required"`
	CaregiverID uint `json:"caregiver_id" binding:"required"`
}

// ======================================================
// CREATE INTENT
// ======================================================

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payment payload.")
		return
	}

	res, err := h.createIntentUC.Execute(c.Request.Context(), familyID, ucPayments.CreateIntentInput{
		JobPostID:   req.JobPostID,
		CaregiverID: req.CaregiverID,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not create payment.")
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ======================================================
// READS
// ======================================================

func (h *PaymentHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := domain.ListFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	var (
		payments interface{}
		total    int64
		err      error
	)
	switch role {
	case middleware.RoleFamily:
		payments, total, err = h.repo.ListForFamily(c.Request.Context(), userID, filter)
	case middleware.RoleCaregiver:
		payments, total, err = h.repo.ListForCaregiver(c.Request.Context(), userID, filter)
	default:
		httperr.Forbidden(c, "forbidden_role", "Admins read payments through the stats API.")
		return
	}
	if err != nil {
		httperr.Internal(c, "payment_list_failed", "Could not list payments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  payments,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	p, err := h.repo.GetForUser(c.Request.Context(), id, role, userID)
	if err != nil {
		httperr.WriteBusiness(c, err, "Payment not found.")
		return
	}
	httpresp.OK(c, p)
}

// Stats é restrito a admin nas rotas
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "payment_stats_failed", "Could not compute stats.")
		return
	}
	httpresp.OK(c, stats)
}
