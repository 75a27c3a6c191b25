package models

import "time"

const (
	VerifiedStatusVerified   = "VERIFIED"
	VerifiedStatusUnverified = "UN-VERIFIED"

	BackgroundCheckPending   = "PENDING"
	BackgroundCheckCompleted = "COMPLETED"
	BackgroundCheckRejected  = "REJECTED"
)

type Caregiver struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Username     string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	PhoneNo  string `gorm:"size:20;not null" json:"phone_no"`
	ImageURL string `gorm:"size:255" json:"image_url"`
	Address  string `gorm:"size:255;not null" json:"address"`

	VerifiedStatus        string `gorm:"size:20;default:'UN-VERIFIED'" json:"verified_status"`
	BackgroundCheckStatus string `gorm:"size:20;default:'PENDING'" json:"background_check_status"`

	Skills StringList `gorm:"type:text" json:"skills"`

	RefreshToken string `gorm:"size:512" json:"-"`

	// Conta de repasse (Connect) — mutada apenas pelo coordinator
	ConnectAccount ConnectAccount `gorm:"embedded;embeddedPrefix:connect_" json:"connect_account"`

	Availability []AvailabilitySlot `gorm:"constraint:OnDelete:CASCADE;" json:"availability"`
	Documents    []CareDocument     `gorm:"constraint:OnDelete:CASCADE;" json:"documents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConnectAccount struct {
	AccountID          string     `gorm:"size:64;index" json:"account_id"`
	AccountStatus      string     `gorm:"size:20;default:'NOT_CREATED'" json:"account_status"`
	OnboardingComplete bool       `json:"onboarding_complete"`
	DetailsSubmitted   bool       `json:"details_submitted"`
	ChargesEnabled     bool       `json:"charges_enabled"`
	PayoutsEnabled     bool       `json:"payouts_enabled"`
	LastUpdated        *time.Time `json:"last_updated"`
}

type AvailabilitySlot struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	CaregiverID uint `gorm:"index" json:"caregiver_id"`

	Date      time.Time `json:"date"`
	StartTime string    `gorm:"size:5" json:"start_time"`
	Duration  float64   `json:"duration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CareDocument struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	CaregiverID uint `gorm:"index" json:"caregiver_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	DocumentURL string `gorm:"size:255;not null" json:"document_url"`
	StorageKey  string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
