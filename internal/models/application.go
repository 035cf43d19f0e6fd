package models

import (
	"gorm.io/datatypes"
)

type Application struct {
	BaseModel
	FullName      string `gorm:"size:255;not null"`
	WhatsappPhone string `gorm:"size:64;not null"`
	// Цифровая копия телефона для точного поиска
	PhoneDigits string `gorm:"size:64;index"`
	Email       string `gorm:"size:255;not null;index"`

	IsInvestor bool `gorm:"not null;default:false"`
	// Список идентификаторов ЖК, обязателен для инвесторов
	Objects        datatypes.JSON `gorm:"type:jsonb;not null"`
	ContractNumber *string        `gorm:"size:128"`

	ChildrenTotal  int `gorm:"not null"`
	ChildrenComing int `gorm:"not null"`

	Consent bool `gorm:"not null;default:false"`

	Status       ApplicationStatus `gorm:"type:varchar(20);not null;default:'NEW'"`
	RejectReason *string           `gorm:"size:500"`

	// Relations
	Children []Child `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
}
