package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Amount float64 `json:"amount"`

	// Identificador do payment intent no processador externo
	IntentID string `gorm:"size:64;uniqueIndex;not null" json:"intent_id"`

	PaymentStatus string `gorm:"size:20;default:'PENDING'" json:"payment_status"`

	FamilyID uint   `gorm:"index:idx_payments_triple" json:"family_id"`
	Family   Family `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"family"`

	CaregiverID uint      `gorm:"index:idx_payments_triple" json:"caregiver_id"`
	Caregiver   Caregiver `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"caregiver"`

	JobPostID uint    `gorm:"index:idx_payments_triple" json:"job_post_id"`
	JobPost   JobPost `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"job_post"`

	ConnectAccountID string `gorm:"size:64;index" json:"connect_account_id"`
	TransferID       string `gorm:"size:64" json:"transfer_id"`
	TransferStatus   string `gorm:"size:20;default:'PENDING'" json:"transfer_status"`

	PlatformFee float64 `json:"platform_fee"`
	NetAmount   float64 `json:"net_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
