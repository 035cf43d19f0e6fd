package models

import "time"

type Child struct {
	BaseModel
	ApplicationID string `gorm:"type:uuid;not null;index"`

	FullName string `gorm:"size:255;not null"`
	Age      int    `gorm:"not null"`

	// Основной документ (свидетельство о рождении) и опциональный второй
	BirthCertFileID *string `gorm:"type:uuid"`
	SecondDocFileID *string `gorm:"type:uuid"`

	Status       ChildStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RejectReason *string     `gorm:"size:500"`
	CheckedBy    *string     `gorm:"size:128"`
	CheckedAt    *time.Time

	// Relations
	BirthCertFile *File `gorm:"foreignKey:BirthCertFileID"`
	SecondDocFile *File `gorm:"foreignKey:SecondDocFileID"`
}
