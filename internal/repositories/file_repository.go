package repositories

import (
	"gorm.io/gorm"

	"kidsfest_backend/internal/models"
)

// FileRepository - чистая персистентность метаданных файлов,
// файловой системы не касается.
type FileRepository struct{}

func NewFileRepository() *FileRepository {
	return &FileRepository{}
}

func (r *FileRepository) Create(db *gorm.DB, f *models.File) error {
	return db.Create(f).Error
}

func (r *FileRepository) GetByID(db *gorm.DB, id string) (*models.File, error) {
	var f models.File
	if err := db.Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}
