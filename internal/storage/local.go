package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"kidsfest_backend/pkg/apperrors"
)

// размер блока чтения, ограничивает потребление памяти при любом размере файла
const chunkSize = 1 << 20 // 1 MiB

// LocalStorage реализует BlobStore поверх локальной файловой системы
type LocalStorage struct {
	root          string
	birthCertsDir string
}

// NewLocalStorage создает локальное хранилище и его директории
func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.Root == "" {
		cfg.Root = "./storage"
	}
	if cfg.BirthCertsDir == "" {
		cfg.BirthCertsDir = "birth_certs"
	}

	if err := os.MkdirAll(filepath.Join(cfg.Root, cfg.BirthCertsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		root:          cfg.Root,
		birthCertsDir: cfg.BirthCertsDir,
	}, nil
}

// Ext возвращает расширение исходного имени файла в нижнем регистре
// (пустая строка, если расширения нет).
func Ext(originalName string) string {
	ext := filepath.Ext(originalName)
	if ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

// Store пишет поток во временный файл и атомарно переименовывает его
// в канонический путь только после полного успешного чтения потока.
// При превышении лимита или ошибке записи временный файл удаляется,
// канонический путь не создается.
func (s *LocalStorage) Store(ctx context.Context, fileID, originalName string, reader io.Reader, maxBytes int64) (string, int64, error) {
	rel := filepath.Join(s.birthCertsDir, fileID+Ext(originalName))
	absPath := filepath.Join(s.root, rel)
	tmpPath := absPath + ".tmp"

	out, err := os.Create(tmpPath)
	if err != nil {
		return "", 0, apperrors.ErrStorage(err, "Failed to create temporary file")
	}

	var written int64
	buf := make([]byte, chunkSize)

	cleanup := func() {
		out.Close()
		os.Remove(tmpPath)
	}

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > maxBytes {
				cleanup()
				return "", 0, apperrors.ErrFileTooLarge
			}
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				cleanup()
				return "", 0, apperrors.ErrStorage(writeErr, "Failed to write file")
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			cleanup()
			return "", 0, apperrors.ErrStorage(readErr, "Failed to read upload stream")
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return "", 0, apperrors.ErrStorage(err, "Failed to flush file")
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return "", 0, apperrors.ErrStorage(err, "Failed to finalize file")
	}

	return rel, written, nil
}

// Open открывает файл по относительному пути
func (s *LocalStorage) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, apperrors.ErrStorage(err, "Failed to open file")
	}
	return f, nil
}

// Exists проверяет наличие файла
func (s *LocalStorage) Exists(ctx context.Context, relPath string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Size возвращает размер файла
func (s *LocalStorage) Size(ctx context.Context, relPath string) (int64, error) {
	info, err := os.Stat(filepath.Join(s.root, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, apperrors.ErrFileNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}

// Remove удаляет файл
func (s *LocalStorage) Remove(ctx context.Context, relPath string) error {
	if err := os.Remove(filepath.Join(s.root, relPath)); err != nil && !os.IsNotExist(err) {
		return apperrors.ErrStorage(err, "Failed to delete file")
	}
	return nil
}
