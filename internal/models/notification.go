package models

import "time"

const (
	RecipientFamily    = "FAMILY"
	RecipientCaregiver = "CARE"
)

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Type    string `gorm:"size:50;not null" json:"type"`
	Message string `gorm:"size:500;not null" json:"message"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`

	FamilyID    *uint `gorm:"index:idx_notifications_family_read" json:"family_id"`
	CaregiverID *uint `gorm:"index:idx_notifications_caregiver_read" json:"caregiver_id"`
	JobPostID   *uint `json:"job_post_id"`
	BookingID   *uint `json:"booking_id"`

	RecipientType string `gorm:"size:10;not null" json:"recipient_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
