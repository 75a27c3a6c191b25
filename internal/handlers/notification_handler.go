package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/httpresp"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// filtro pelo dono: família pelo family_id, cuidador pelo caregiver_id
func (h *NotificationHandler) scope(c *gin.Context) *gorm.DB {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Notification{})
	if role == middleware.RoleCaregiver {
		return q.Where("caregiver_id = ? AND recipient_type = ?", userID, models.RecipientCaregiver)
	}
	return q.Where("family_id = ? AND recipient_type = ?", userID, models.RecipientFamily)
}

func (h *NotificationHandler) List(c *gin.Context) {
	var rows []models.Notification
	if err := h.scope(c).
		Order("created_at DESC").
		Limit(100).
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "notification_list_failed", "Could not list notifications.")
		return
	}

	var unread int64
	h.scope(c).Where("is_read = false").Count(&unread)

	c.JSON(200, gin.H{
		"data":   rows,
		"total":  len(rows),
		"unread": unread,
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	res := h.scope(c).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		httperr.Internal(c, "notification_update_failed", "Could not update notification.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}
	httpresp.OK(c, gin.H{"read": id})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.scope(c).Where("is_read = false").Update("is_read", true).Error; err != nil {
		httperr.Internal(c, "notification_update_failed", "Could not update notifications.")
		return
	}
	httpresp.OK(c, gin.H{"read": "all"})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	res := h.scope(c).Where("id = ?", id).Delete(&models.Notification{})
	if res.Error != nil {
		httperr.Internal(c, "notification_delete_failed", "Could not delete notification.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}
	httpresp.OK(c, gin.H{"deleted": id})
}
