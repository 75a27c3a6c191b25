package models

import "time"

type Family struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Username     string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	PhoneNo          string `gorm:"size:20;not null" json:"phone_no"`
	AlternatePhoneNo string `gorm:"size:20" json:"alternate_phone_no"`
	ImageURL         string `gorm:"size:255" json:"image_url"`
	Address          string `gorm:"size:255;not null" json:"address"`

	RefreshToken string `gorm:"size:512" json:"-"`

	Elders []Elder `gorm:"constraint:OnDelete:CASCADE;" json:"elders"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Idoso sob cuidado de uma família (filho da Family, endereçado por id)
type Elder struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	FamilyID uint `gorm:"index" json:"family_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Age      int    `json:"age"`
	Address  string `gorm:"size:255" json:"address"`
	ImageURL string `gorm:"size:255" json:"image_url"`
	PhoneNo  string `gorm:"size:20" json:"phone_no"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
