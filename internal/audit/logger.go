package audit

import (
	"gorm.io/gorm"

	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	actorID uint,
	actorTable string,
	action string,
	targetTable string,
	targetID uint,
) error {

	log := models.AuditLog{
		ActorID:     actorID,
		ActorTable:  actorTable,
		Action:      action,
		TargetTable: targetTable,
		TargetID:    targetID,
	}

	return l.db.Create(&log).Error
}
