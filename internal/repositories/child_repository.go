package repositories

import (
	"gorm.io/gorm"

	"kidsfest_backend/internal/models"
)

type ChildRepository struct{}

func NewChildRepository() *ChildRepository {
	return &ChildRepository{}
}

func (r *ChildRepository) GetByID(db *gorm.DB, id string) (*models.Child, error) {
	var child models.Child
	if err := db.Where("id = ?", id).First(&child).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *ChildRepository) Save(db *gorm.DB, child *models.Child) error {
	return db.Save(child).Error
}

// StatusesByApplication возвращает статусы всех детей заявки
func (r *ChildRepository) StatusesByApplication(db *gorm.DB, applicationID string) ([]models.ChildStatus, error) {
	var statuses []models.ChildStatus
	err := db.Model(&models.Child{}).
		Where("application_id = ?", applicationID).
		Pluck("status", &statuses).Error
	return statuses, err
}
