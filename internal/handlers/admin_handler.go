package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CareBridgeServices/care-marketplace/internal/audit"
	paydomain "github.com/CareBridgeServices/care-marketplace/internal/domain/payments"
	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/httpresp"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/notification"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	notify *notification.Dispatcher
}

func NewAdminHandler(
	db *gorm.DB,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notification.Dispatcher,
) *AdminHandler {
	return &AdminHandler{
		db:     db,
		audit:  auditDispatcher,
		notify: notifyDispatcher,
	}
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListFamilies(c *gin.Context) {
	var families []models.Family
	if err := h.db.Order("created_at DESC").Find(&families).Error; err != nil {
		httperr.Internal(c, "user_list_failed", "Could not list families.")
		return
	}
	httpresp.List(c, families)
}

func (h *AdminHandler) ListCaregivers(c *gin.Context) {
	q := h.db.Order("created_at DESC")
	if status := c.Query("verified_status"); status != "" {
		q = q.Where("verified_status = ?", status)
	}

	var caregivers []models.Caregiver
	if err := q.Preload("Documents").Find(&caregivers).Error; err != nil {
		httperr.Internal(c, "user_list_failed", "Could not list caregivers.")
		return
	}
	httpresp.List(c, caregivers)
}

// ListPendingCaregivers é a fila de verificação: não verificados com
// documentos enviados
func (h *AdminHandler) ListPendingCaregivers(c *gin.Context) {
	var caregivers []models.Caregiver
	if err := h.db.
		Preload("Documents").
		Where("verified_status = ?", models.VerifiedStatusUnverified).
		Order("created_at ASC").
		Find(&caregivers).Error; err != nil {
		httperr.Internal(c, "user_list_failed", "Could not list caregivers.")
		return
	}
	httpresp.List(c, caregivers)
}

// ======================================================
// JOB POSTS
// ======================================================

func (h *AdminHandler) ListJobPosts(c *gin.Context) {
	q := h.db.
		Preload("Family").
		Preload("Applications").
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var posts []models.JobPost
	if err := q.Find(&posts).Error; err != nil {
		httperr.Internal(c, "job_post_list_failed", "Could not list job posts.")
		return
	}
	httpresp.List(c, posts)
}

// ======================================================
// VERIFICATION
// ======================================================

func (h *AdminHandler) ApproveCaregiver(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	res := h.db.Model(&models.Caregiver{}).
		Where("id = ? AND verified_status = ?", id, models.VerifiedStatusUnverified).
		Updates(map[string]interface{}{
			"verified_status":         models.VerifiedStatusVerified,
			"background_check_status": models.BackgroundCheckCompleted,
		})
	if res.Error != nil {
		httperr.Internal(c, "verification_failed", "Could not approve caregiver.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Conflict(c, "invalid_state", "Caregiver is not pending verification.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:     adminID,
		ActorTable:  "Admin",
		Action:      "Approved caregiver",
		TargetTable: "Care",
		TargetID:    id,
	})

	h.notify.Dispatch(notification.Message{
		Type:        notification.TypeProfileApproved,
		Message:     "Your profile has been verified. You can now apply to job posts.",
		CaregiverID: &id,
		Recipient:   models.RecipientCaregiver,
	})

	httpresp.OK(c, gin.H{"approved": id})
}

func (h *AdminHandler) RejectCaregiver(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	res := h.db.Model(&models.Caregiver{}).
		Where("id = ?", id).
		Update("background_check_status", models.BackgroundCheckRejected)
	if res.Error != nil {
		httperr.Internal(c, "verification_failed", "Could not reject caregiver.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "caregiver_not_found", "Caregiver not found.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:     adminID,
		ActorTable:  "Admin",
		Action:      "Rejected caregiver",
		TargetTable: "Care",
		TargetID:    id,
	})

	httpresp.OK(c, gin.H{"rejected": id})
}

// ======================================================
// CONNECT (moderação de contas de repasse)
// ======================================================

func (h *AdminHandler) ConnectOverview(c *gin.Context) {
	var byStatus []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	h.db.Model(&models.Caregiver{}).
		Select("connect_account_status AS status, COUNT(*) AS count").
		Group("connect_account_status").
		Scan(&byStatus)

	var volume struct {
		Completed int64
		Gross     float64
		Fees      float64
	}
	h.db.Model(&models.Payment{}).
		Where("payment_status = ?", string(paydomain.PaymentCompleted)).
		Select("COUNT(*) AS completed, COALESCE(SUM(amount), 0) AS gross, COALESCE(SUM(platform_fee), 0) AS fees").
		Scan(&volume)

	httpresp.OK(c, gin.H{
		"accounts_by_status": byStatus,
		"completed_payments": volume.Completed,
		"gross_volume":       volume.Gross,
		"platform_fees":      volume.Fees,
	})
}

func (h *AdminHandler) ListConnectAccounts(c *gin.Context) {
	q := h.db.
		Where("connect_account_id <> ''").
		Order("connect_last_updated DESC NULLS LAST")
	if status := c.Query("status"); status != "" {
		q = q.Where("connect_account_status = ?", status)
	}

	var caregivers []models.Caregiver
	if err := q.Find(&caregivers).Error; err != nil {
		httperr.Internal(c, "connect_list_failed", "Could not list connect accounts.")
		return
	}
	httpresp.List(c, caregivers)
}

func (h *AdminHandler) ListConnectTransactions(c *gin.Context) {
	var payments []models.Payment
	if err := h.db.
		Preload("Caregiver").
		Preload("JobPost").
		Where("connect_account_id <> ''").
		Order("created_at DESC").
		Limit(200).
		Find(&payments).Error; err != nil {
		httperr.Internal(c, "connect_list_failed", "Could not list transactions.")
		return
	}
	httpresp.List(c, payments)
}

type RestrictConnectAccountRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Override manual: o provedor continua sendo a fonte das flags, mas o
// admin pode forçar o status local enquanto modera uma conta
func (h *AdminHandler) ApproveConnectAccount(c *gin.Context) {
	h.overrideConnectStatus(c, paydomain.AccountActive, "Approved connect account")
}

// Restrição exige motivo; ele fica registrado na trilha de auditoria
func (h *AdminHandler) RestrictConnectAccount(c *gin.Context) {
	var req RestrictConnectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A restriction reason is required.")
		return
	}
	h.overrideConnectStatus(c, paydomain.AccountRestricted, restrictAction(req.Reason))
}

func restrictAction(reason string) string {
	return "Restricted connect account: " + reason
}

func (h *AdminHandler) overrideConnectStatus(
	c *gin.Context,
	status paydomain.AccountStatus,
	action string,
) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	res := h.db.Model(&models.Caregiver{}).
		Where("id = ? AND connect_account_id <> ''", id).
		Update("connect_account_status", string(status))
	if res.Error != nil {
		httperr.Internal(c, "connect_update_failed", "Could not update connect account.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "account_not_found", "Caregiver has no connect account.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:     adminID,
		ActorTable:  "Admin",
		Action:      action,
		TargetTable: "Care",
		TargetID:    id,
	})

	httpresp.OK(c, gin.H{"id": id, "connect_account_status": status})
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AdminHandler) Dashboard(c *gin.Context) {
	var (
		families   int64
		caregivers int64
		verified   int64
		jobPosts   int64
		active     int64
		bookings   int64
	)

	h.db.Model(&models.Family{}).Count(&families)
	h.db.Model(&models.Caregiver{}).Count(&caregivers)
	h.db.Model(&models.Caregiver{}).
		Where("verified_status = ?", models.VerifiedStatusVerified).
		Count(&verified)
	h.db.Model(&models.JobPost{}).Count(&jobPosts)
	h.db.Model(&models.JobPost{}).
		Where("status = ?", models.JobPostStatusActive).
		Count(&active)
	h.db.Model(&models.Booking{}).Count(&bookings)

	var byStatus []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	h.db.Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus)

	httpresp.OK(c, gin.H{
		"families":            families,
		"caregivers":          caregivers,
		"verified_caregivers": verified,
		"job_posts":           jobPosts,
		"active_job_posts":    active,
		"bookings":            bookings,
		"bookings_by_status":  byStatus,
	})
}
