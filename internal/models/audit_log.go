package models

import "time"

// Registro imutável — nunca atualizado ou deletado
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ActorID    uint   `gorm:"index" json:"actor_id"`
	ActorTable string `gorm:"size:20;not null" json:"actor_table"`
	Action     string `gorm:"size:100;not null" json:"action"`

	TargetTable string `gorm:"size:20;not null" json:"target_table"`
	TargetID    uint   `json:"target_id"`

	CreatedAt time.Time `json:"created_at"`
}
