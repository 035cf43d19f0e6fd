package storage

import (
	"context"
	"io"
)

// BlobStore определяет интерфейс файлового хранилища документов.
// Реализация обязана гарантировать, что по каноническому пути никогда
// не виден частично записанный файл.
type BlobStore interface {
	// Store записывает поток в хранилище под сгенерированным fileID.
	// Расширение берется из originalName (в нижнем регистре).
	// Возвращает относительный путь и количество записанных байт.
	// Превышение maxBytes -> apperrors.ErrFileTooLarge, файл не создается.
	Store(ctx context.Context, fileID, originalName string, reader io.Reader, maxBytes int64) (string, int64, error)

	// Open открывает сохраненный файл по относительному пути
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)

	// Exists проверяет наличие файла
	Exists(ctx context.Context, relPath string) (bool, error)

	// Size возвращает размер файла в байтах
	Size(ctx context.Context, relPath string) (int64, error)

	// Remove удаляет файл (отсутствие файла не считается ошибкой)
	Remove(ctx context.Context, relPath string) error
}

// Config содержит настройки хранилища
type Config struct {
	Root          string // корневая директория
	BirthCertsDir string // поддиректория для документов детей
}
