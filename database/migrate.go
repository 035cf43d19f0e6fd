package database

import (
	"gorm.io/gorm"

	"kidsfest_backend/internal/models"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	// Генерация uuid на стороне БД
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.Application{},
		&models.Child{},
		&models.File{},
		&models.AuditLog{},
	)
}
