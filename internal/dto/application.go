package dto

import (
	"mime/multipart"
	"time"
)

type ChildCreate struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Age      int    `json:"age" validate:"min=0,max=18"`
}

// ApplicationCreate - структура поля payload публичной формы подачи заявки
type ApplicationCreate struct {
	FullName      string  `json:"full_name" validate:"required,min=2,max=255"`
	WhatsappPhone string  `json:"whatsapp_phone" validate:"required,min=5,max=64"`
	Email         string  `json:"email" validate:"required,min=5,max=255,email"`

	IsInvestor     bool     `json:"is_investor"`
	Objects        []string `json:"objects"`
	ContractNumber *string  `json:"contract_number" validate:"omitempty,max=128"`

	ChildrenTotal  int `json:"children_total" validate:"min=0,max=20"`
	ChildrenComing int `json:"children_coming" validate:"min=0,max=20"`

	Consent  bool          `json:"consent"`
	Children []ChildCreate `json:"children" validate:"dive"`
}

// ChildUpload - нормализованная пара документов одного ребенка.
// Secondary может отсутствовать.
type ChildUpload struct {
	Primary   *multipart.FileHeader
	Secondary *multipart.FileHeader
}

type ApplicationCreateResponse struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

type CheckRegistrationResponse struct {
	Registered bool    `json:"registered"`
	Status     *string `json:"status,omitempty"`
}

type ApplicationListItem struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	WhatsappPhone  string    `json:"whatsapp_phone"`
	Email          string    `json:"email"`
	IsInvestor     bool      `json:"is_investor"`
	Objects        []string  `json:"objects"`
	ContractNumber *string   `json:"contract_number"`
	ChildrenTotal  int       `json:"children_total"`
	ChildrenComing int       `json:"children_coming"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type ApplicationListResponse struct {
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
	Items   []ApplicationListItem `json:"items"`
}

type ChildView struct {
	ID            string  `json:"id"`
	FullName      string  `json:"full_name"`
	Age           int     `json:"age"`
	Status        string  `json:"status"`
	RejectReason  *string `json:"reject_reason,omitempty"`
	PathImage     *string `json:"path_image,omitempty"`
	PathSecondDoc *string `json:"path_second_doc,omitempty"`
}

type ApplicationDetail struct {
	ID             string      `json:"id"`
	FullName       string      `json:"full_name"`
	WhatsappPhone  string      `json:"whatsapp_phone"`
	Email          string      `json:"email"`
	IsInvestor     bool        `json:"is_investor"`
	Objects        []string    `json:"objects"`
	ContractNumber *string     `json:"contract_number"`
	ChildrenTotal  int         `json:"children_total"`
	ChildrenComing int         `json:"children_coming"`
	Consent        bool        `json:"consent"`
	Status         string      `json:"status"`
	RejectReason   *string     `json:"reject_reason"`
	CreatedAt      time.Time   `json:"created_at"`
	Children       []ChildView `json:"children"`
}
