package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CareBridgeServices/care-marketplace/internal/httperr"
	"github.com/CareBridgeServices/care-marketplace/internal/httpresp"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/storage"
)

// upload de avatar limitado a 5 MiB antes da normalização
const avatarMaxUpload = 5 << 20

// ======================================================
// HANDLER
// ======================================================

type ProfileHandler struct {
	db    *gorm.DB
	store *storage.Store
}

func NewProfileHandler(db *gorm.DB, store *storage.Store) *ProfileHandler {
	return &ProfileHandler{db: db, store: store}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateFamilyRequest struct {
	Name             string `json:"name"`
	PhoneNo          string `json:"phone_no"`
	AlternatePhoneNo string `json:"alternate_phone_no"`
	Address          string `json:"address"`
}

type UpdateCaregiverRequest struct {
	Name    string   `json:"name"`
	PhoneNo string   `json:"phone_no"`
	Address string   `json:"address"`
	Skills  []string `json:"skills"`
}

// ======================================================
// ME
// ======================================================

// GetMe despacha pelo papel do token
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	switch role {
	case middleware.RoleFamily:
		var fam models.Family
		if err := h.db.Preload("Elders").First(&fam, userID).Error; err != nil {
			httperr.Internal(c, "user_not_found", "Could not load profile.")
			return
		}
		httpresp.OK(c, fam)

	case middleware.RoleCaregiver:
		var cg models.Caregiver
		if err := h.db.
			Preload("Availability").
			Preload("Documents").
			First(&cg, userID).Error; err != nil {
			httperr.Internal(c, "user_not_found", "Could not load profile.")
			return
		}
		httpresp.OK(c, cg)

	default:
		var adm models.Admin
		if err := h.db.First(&adm, userID).Error; err != nil {
			httperr.Internal(c, "user_not_found", "Could not load profile.")
			return
		}
		httpresp.OK(c, adm)
	}
}

func (h *ProfileHandler) UpdateFamily(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile payload.")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.PhoneNo != "" {
		updates["phone_no"] = req.PhoneNo
	}
	if req.AlternatePhoneNo != "" {
		updates["alternate_phone_no"] = req.AlternatePhoneNo
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.Family{}).
			Where("id = ?", userID).
			Updates(updates).Error; err != nil {
			httperr.Internal(c, "profile_update_failed", "Could not update profile.")
			return
		}
	}

	var fam models.Family
	if err := h.db.First(&fam, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Could not load profile.")
		return
	}
	httpresp.OK(c, fam)
}

func (h *ProfileHandler) UpdateCaregiver(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateCaregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile payload.")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.PhoneNo != "" {
		updates["phone_no"] = req.PhoneNo
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if len(req.Skills) > 0 {
		updates["skills"] = models.StringList(req.Skills)
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.Caregiver{}).
			Where("id = ?", userID).
			Updates(updates).Error; err != nil {
			httperr.Internal(c, "profile_update_failed", "Could not update profile.")
			return
		}
	}

	var cg models.Caregiver
	if err := h.db.First(&cg, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Could not load profile.")
		return
	}
	httpresp.OK(c, cg)
}

// ======================================================
// AVATAR
// ======================================================

// UploadAvatar normaliza a imagem (webp, máx 512px) e sobe para o S3
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Image file is required.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, avatarMaxUpload))
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not read image.")
		return
	}

	normalized, err := storage.NormalizeAvatar(data)
	if err != nil {
		httperr.WriteBusiness(c, err, "Could not process image.")
		return
	}

	key := storage.NewKey("avatars", ".webp")
	url, err := h.store.Put(c.Request.Context(), key, storage.AvatarContentType, normalized)
	if err != nil {
		httperr.Upstream(c, "storage_unavailable", "Could not store image.")
		return
	}

	var model interface{}
	switch role {
	case middleware.RoleCaregiver:
		model = &models.Caregiver{}
	case middleware.RoleAdmin:
		model = &models.Admin{}
	default:
		model = &models.Family{}
	}
	if err := h.db.Model(model).
		Where("id = ?", userID).
		Update("image_url", url).Error; err != nil {
		httperr.Internal(c, "profile_update_failed", "Could not save image.")
		return
	}

	httpresp.OK(c, gin.H{"image_url": url})
}

// ======================================================
// ELDERS (família)
// ======================================================

type ElderRequest struct {
	Name    string `json:"name" binding:"required"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	PhoneNo string `json:"phone_no"`
}

func (h *ProfileHandler) AddElder(c *gin.Context) {
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var req ElderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid elder payload.")
		return
	}

	elder := models.Elder{
		FamilyID: familyID,
		Name:     req.Name,
		Age:      req.Age,
		Address:  req.Address,
		PhoneNo:  req.PhoneNo,
	}
	if err := h.db.Create(&elder).Error; err != nil {
		httperr.Internal(c, "elder_create_failed", "Could not add elder.")
		return
	}
	c.JSON(http.StatusCreated, elder)
}

func (h *ProfileHandler) ListElders(c *gin.Context) {
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var elders []models.Elder
	if err := h.db.Where("family_id = ?", familyID).Find(&elders).Error; err != nil {
		httperr.Internal(c, "elder_list_failed", "Could not list elders.")
		return
	}
	httpresp.List(c, elders)
}

func (h *ProfileHandler) UpdateElder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	var req ElderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid elder payload.")
		return
	}

	res := h.db.Model(&models.Elder{}).
		Where("id = ? AND family_id = ?", id, familyID).
		Updates(map[string]interface{}{
			"name":     req.Name,
			"age":      req.Age,
			"address":  req.Address,
			"phone_no": req.PhoneNo,
		})
	if res.Error != nil {
		httperr.Internal(c, "elder_update_failed", "Could not update elder.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "elder_not_found", "Elder not found.")
		return
	}

	var elder models.Elder
	h.db.First(&elder, id)
	httpresp.OK(c, elder)
}

func (h *ProfileHandler) DeleteElder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	familyID := c.MustGet(middleware.ContextUserID).(uint)

	res := h.db.Where("id = ? AND family_id = ?", id, familyID).Delete(&models.Elder{})
	if res.Error != nil {
		httperr.Internal(c, "elder_delete_failed", "Could not delete elder.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "elder_not_found", "Elder not found.")
		return
	}
	httpresp.OK(c, gin.H{"deleted": id})
}

// ======================================================
// AVAILABILITY (cuidador)
// ======================================================

type AvailabilityRequest struct {
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	Duration  float64 `json:"duration" binding:"required"`
}

func (h *ProfileHandler) AddAvailability(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid availability payload.")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_schedule", "Date must be YYYY-MM-DD.")
		return
	}

	slot := models.AvailabilitySlot{
		CaregiverID: caregiverID,
		Date:        date,
		StartTime:   req.StartTime,
		Duration:    req.Duration,
	}
	if err := h.db.Create(&slot).Error; err != nil {
		httperr.Internal(c, "availability_create_failed", "Could not add availability.")
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func (h *ProfileHandler) ListAvailability(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	var slots []models.AvailabilitySlot
	if err := h.db.
		Where("caregiver_id = ?", caregiverID).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		httperr.Internal(c, "availability_list_failed", "Could not list availability.")
		return
	}
	httpresp.List(c, slots)
}

func (h *ProfileHandler) DeleteAvailability(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	res := h.db.Where("id = ? AND caregiver_id = ?", id, caregiverID).
		Delete(&models.AvailabilitySlot{})
	if res.Error != nil {
		httperr.Internal(c, "availability_delete_failed", "Could not delete slot.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "availability_not_found", "Slot not found.")
		return
	}
	httpresp.OK(c, gin.H{"deleted": id})
}

// ======================================================
// DOCUMENTS (cuidador)
// ======================================================

func (h *ProfileHandler) UploadDocument(c *gin.Context) {
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	name := c.PostForm("name")
	if strings.TrimSpace(name) == "" {
		httperr.BadRequest(c, "invalid_request", "Document name is required.")
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Document file is required.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, 10<<20))
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not read document.")
		return
	}

	ext := filepath.Ext(header.Filename)
	key := storage.NewKey("documents", ext)
	url, err := h.store.Put(c.Request.Context(), key, header.Header.Get("Content-Type"), data)
	if err != nil {
		httperr.Upstream(c, "storage_unavailable", "Could not store document.")
		return
	}

	doc := models.CareDocument{
		CaregiverID: caregiverID,
		Name:        name,
		DocumentURL: url,
		StorageKey:  key,
	}
	if err := h.db.Create(&doc).Error; err != nil {
		httperr.Internal(c, "document_create_failed", "Could not save document.")
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *ProfileHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	caregiverID := c.MustGet(middleware.ContextUserID).(uint)

	var doc models.CareDocument
	if err := h.db.
		Where("id = ? AND caregiver_id = ?", id, caregiverID).
		First(&doc).Error; err != nil {
		httperr.NotFound(c, "document_not_found", "Document not found.")
		return
	}

	if doc.StorageKey != "" {
		// remoção no bucket é best-effort; a linha some de qualquer jeito
		_ = h.store.Delete(c.Request.Context(), doc.StorageKey)
	}

	if err := h.db.Delete(&doc).Error; err != nil {
		httperr.Internal(c, "document_delete_failed", "Could not delete document.")
		return
	}
	httpresp.OK(c, gin.H{"deleted": id})
}
