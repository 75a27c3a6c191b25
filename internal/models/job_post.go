package models

import "time"

const (
	JobPostStatusActive = "ACTIVE"
	JobPostStatusExpire = "EXPIRE"
)

type JobPost struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FamilyID uint   `gorm:"index" json:"family_id"`
	Family   Family `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"family"`

	ElderName     string    `gorm:"size:100;not null" json:"elder_name"`
	Date          time.Time `json:"date"`
	StartTime     string    `gorm:"size:5" json:"start_time"`
	DurationHours float64   `json:"duration_hours"`
	Salary        float64   `json:"salary"`
	Location      string    `gorm:"size:255;not null" json:"location"`

	Status string `gorm:"size:10;default:'ACTIVE';index" json:"status"`

	SkillRequired StringList `gorm:"type:text" json:"skill_required"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE;" json:"applications"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Candidatura de cuidador a um job post (filho do JobPost, no máximo uma
// por cuidador — garantido na escrita)
type Application struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	JobPostID uint `gorm:"index" json:"job_post_id"`

	CaregiverID uint      `gorm:"index" json:"caregiver_id"`
	Caregiver   Caregiver `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"caregiver"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
