package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CareBridgeServices/care-marketplace/internal/config"
	"github.com/CareBridgeServices/care-marketplace/internal/middleware"
	"github.com/CareBridgeServices/care-marketplace/internal/models"
	"github.com/CareBridgeServices/care-marketplace/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type FamilySignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	PhoneNo  string `json:"phone_no" binding:"required"`
	Address  string `json:"address" binding:"required"`
}

type CaregiverSignupRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Username string   `json:"username" binding:"required,min=3"`
	Password string   `json:"password" binding:"required,min=6"`
	PhoneNo  string   `json:"phone_no" binding:"required"`
	Address  string   `json:"address" binding:"required"`
	Skills   []string `json:"skills" binding:"required,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ======================================================
// SIGNUP
// ======================================================

func (h *AuthHandler) FamilySignup(c *gin.Context) {
	var req FamilySignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	var count int64
	h.db.Model(&models.Family{}).
		Where("email = ? OR username = ?", email, req.Username).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "user_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	fam := models.Family{
		Name:         req.Name,
		Email:        email,
		Username:     req.Username,
		PasswordHash: string(hashed),
		PhoneNo:      req.PhoneNo,
		Address:      req.Address,
	}
	if err := h.db.Create(&fam).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	h.respondWithTokens(c, http.StatusCreated, fam.ID, middleware.RoleFamily, fam.Name, gin.H{
		"id":       fam.ID,
		"name":     fam.Name,
		"email":    fam.Email,
		"username": fam.Username,
	})
}

func (h *AuthHandler) CaregiverSignup(c *gin.Context) {
	var req CaregiverSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	var count int64
	h.db.Model(&models.Caregiver{}).
		Where("email = ? OR username = ?", email, req.Username).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "user_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	cg := models.Caregiver{
		Name:         req.Name,
		Email:        email,
		Username:     req.Username,
		PasswordHash: string(hashed),
		PhoneNo:      req.PhoneNo,
		Address:      req.Address,
		Skills:       models.StringList(req.Skills),
	}
	if err := h.db.Create(&cg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	h.respondWithTokens(c, http.StatusCreated, cg.ID, middleware.RoleCaregiver, cg.Name, gin.H{
		"id":              cg.ID,
		"name":            cg.Name,
		"email":           cg.Email,
		"username":        cg.Username,
		"verified_status": cg.VerifiedStatus,
	})
}

// ======================================================
// LOGIN
// ======================================================

func (h *AuthHandler) FamilyLogin(c *gin.Context) {
	req, ok := bindLogin(c)
	if !ok {
		return
	}

	var fam models.Family
	if err := h.db.Where("email = ?", req.Email).First(&fam).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}
	if !checkPassword(fam.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	h.respondWithTokens(c, http.StatusOK, fam.ID, middleware.RoleFamily, fam.Name, gin.H{
		"id":       fam.ID,
		"name":     fam.Name,
		"email":    fam.Email,
		"username": fam.Username,
	})
}

func (h *AuthHandler) CaregiverLogin(c *gin.Context) {
	req, ok := bindLogin(c)
	if !ok {
		return
	}

	var cg models.Caregiver
	if err := h.db.Where("email = ?", req.Email).First(&cg).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}
	if !checkPassword(cg.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	h.respondWithTokens(c, http.StatusOK, cg.ID, middleware.RoleCaregiver, cg.Name, gin.H{
		"id":              cg.ID,
		"name":            cg.Name,
		"email":           cg.Email,
		"username":        cg.Username,
		"verified_status": cg.VerifiedStatus,
	})
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	req, ok := bindLogin(c)
	if !ok {
		return
	}

	var adm models.Admin
	if err := h.db.Where("email = ?", req.Email).First(&adm).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}
	if !checkPassword(adm.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	h.respondWithTokens(c, http.StatusOK, adm.ID, middleware.RoleAdmin, adm.Name, gin.H{
		"id":    adm.ID,
		"name":  adm.Name,
		"email": adm.Email,
	})
}

// ======================================================
// REFRESH / LOGOUT
// ======================================================

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh := extractRefreshToken(c)
	if refresh == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_refresh_token"})
		return
	}

	token, err := jwt.Parse(refresh, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(h.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token"})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token"})
		return
	}
	sub, ok1 := claims["sub"].(float64)
	role, ok2 := claims["role"].(string)
	name, _ := claims["name"].(string)
	if !ok1 || !ok2 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token"})
		return
	}

	// o refresh só vale enquanto for o registrado no usuário
	stored, err := h.storedRefreshToken(uint(sub), role)
	if err != nil || stored != refresh {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh_token_revoked"})
		return
	}

	access, err := h.signToken(uint(sub), role, name, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	setAuthCookie(c, "accesstoken", access, 24*time.Hour)
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	_ = h.clearRefreshToken(userID, role)

	setAuthCookie(c, "accesstoken", "", -time.Hour)
	setAuthCookie(c, "refreshtoken", "", -time.Hour)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ======================================================
// JWT / HELPERS
// ======================================================

func (h *AuthHandler) respondWithTokens(
	c *gin.Context,
	status int,
	userID uint,
	role string,
	name string,
	user gin.H,
) {
	access, err := h.signToken(userID, role, name, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}
	refresh, err := h.signToken(userID, role, name, 7*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	if err := h.saveRefreshToken(userID, role, refresh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_persist_token"})
		return
	}

	setAuthCookie(c, "accesstoken", access, 24*time.Hour)
	setAuthCookie(c, "refreshtoken", refresh, 7*24*time.Hour)

	c.JSON(status, gin.H{
		"user":          user,
		"role":          role,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) signToken(userID uint, role, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

func (h *AuthHandler) saveRefreshToken(userID uint, role, refresh string) error {
	return h.db.Model(h.modelForRole(role)).
		Where("id = ?", userID).
		Update("refresh_token", refresh).Error
}

func (h *AuthHandler) storedRefreshToken(userID uint, role string) (string, error) {
	var stored string
	err := h.db.Model(h.modelForRole(role)).
		Select("refresh_token").
		Where("id = ?", userID).
		Scan(&stored).Error
	return stored, err
}

func (h *AuthHandler) clearRefreshToken(userID uint, role string) error {
	return h.db.Model(h.modelForRole(role)).
		Where("id = ?", userID).
		Update("refresh_token", "").Error
}

func (h *AuthHandler) modelForRole(role string) interface{} {
	switch role {
	case middleware.RoleCaregiver:
		return &models.Caregiver{}
	case middleware.RoleAdmin:
		return &models.Admin{}
	default:
		return &models.Family{}
	}
}

func bindLogin(c *gin.Context) (LoginRequest, bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
		return req, false
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return req, true
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func setAuthCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", false, true)
}

func extractRefreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie("refreshtoken"); err == nil && cookie != "" {
		return cookie
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}
