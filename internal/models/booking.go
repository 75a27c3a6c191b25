package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FamilyID uint   `gorm:"index:idx_bookings_family_status" json:"family_id"`
	Family   Family `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"family"`

	CaregiverID uint      `gorm:"index:idx_bookings_caregiver_status" json:"caregiver_id"`
	Caregiver   Caregiver `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"caregiver"`

	// Agendamento direto é permitido; job post é opcional
	JobPostID *uint `gorm:"index" json:"job_post_id"`

	ElderName string     `gorm:"size:100;not null" json:"elder_name"`
	Location  string     `gorm:"size:255;not null" json:"location"`
	Skills    StringList `gorm:"type:text" json:"skills"`

	ScheduleDate  time.Time `json:"schedule_date"`
	StartTime     string    `gorm:"size:5" json:"start_time"`
	DurationHours float64   `json:"duration_hours"`

	HourlyRate  float64 `json:"hourly_rate"`
	TotalAmount float64 `json:"total_amount"`

	Status        string `gorm:"size:20;default:'PENDING';index:idx_bookings_family_status;index:idx_bookings_caregiver_status" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'UNPAID'" json:"payment_status"`

	Notes string `gorm:"size:500" json:"notes"`

	CaregiverAcknowledged bool `gorm:"default:false" json:"caregiver_acknowledged"`
	FamilyAcknowledged    bool `gorm:"default:false" json:"family_acknowledged"`

	// Snapshots congelados na criação (precisão histórica)
	RateSnapshot  float64    `json:"rate_snapshot"`
	SkillSnapshot StringList `gorm:"type:text" json:"skill_snapshot"`

	AcceptedAt  *time.Time `json:"accepted_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	CanceledByRole  string `gorm:"size:10" json:"canceled_by_role"`
	RejectionReason string `gorm:"size:300" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
