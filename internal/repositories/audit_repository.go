package repositories

import (
	"gorm.io/gorm"

	"kidsfest_backend/internal/models"
)

// AuditRepository пишет в append-only журнал. Записи не обновляются
// и не удаляются.
type AuditRepository struct{}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(db *gorm.DB, entry *models.AuditLog) error {
	return db.Create(entry).Error
}
