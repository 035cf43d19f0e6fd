package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog - append-only журнал админских действий.
// Записи никогда не обновляются и не удаляются.
type AuditLog struct {
	ID         int            `gorm:"primaryKey;autoIncrement"`
	Actor      string         `gorm:"size:128;not null"`
	EntityType string         `gorm:"size:64;not null"`
	EntityID   string         `gorm:"size:64;not null"`
	Action     string         `gorm:"size:64;not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"default:now();index"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
