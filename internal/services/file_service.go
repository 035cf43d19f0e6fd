package services

import (
	"context"
	"io"

	"gorm.io/gorm"

	"kidsfest_backend/internal/models"
	"kidsfest_backend/internal/repositories"
	"kidsfest_backend/internal/storage"
	"kidsfest_backend/pkg/apperrors"
)

// ============================================
// FILE SERVICE (выдача сохраненных документов)
// ============================================

type FileService struct {
	fileRepo *repositories.FileRepository
	blobs    storage.BlobStore
}

func NewFileService(fileRepo *repositories.FileRepository, blobs storage.BlobStore) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		blobs:    blobs,
	}
}

// Fetch находит метаданные файла и открывает его содержимое.
// NotFound, если нет записи в реестре либо файла на диске.
func (s *FileService) Fetch(ctx context.Context, db *gorm.DB, fileID string) (*models.File, io.ReadCloser, error) {
	meta, err := s.fileRepo.GetByID(db, fileID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrFileNotFound
		}
		return nil, nil, apperrors.ErrDatabase(err)
	}

	reader, err := s.blobs.Open(ctx, meta.StoragePath)
	if err != nil {
		return nil, nil, err
	}

	return meta, reader, nil
}
