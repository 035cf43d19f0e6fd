package models

import "time"

// File - метаданные сохраненного файла. Запись неизменяема после создания.
type File struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	StoragePath  string    `gorm:"size:512;not null" json:"storage_path"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	Mime         string    `gorm:"size:128;not null" json:"mime"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
}
