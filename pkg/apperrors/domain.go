package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок заявок,
детей, файлов и аудита.
*/

// =========================================================================
// Фабричные ФУНКЦИИ
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrStorage - фабрика для ошибок записи/чтения файлового хранилища (500)
func ErrStorage(err error, message string) *AppError {
	return Wrap(err, CodeStorageError, "storage", message, http.StatusInternalServerError)
}

// ErrDatabase - фабрика для ошибок персистентности (500)
func ErrDatabase(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "database", "Database operation failed", http.StatusInternalServerError)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// --- Uploads & Files ---

// ErrFileTooLarge - файл превышает максимальный размер.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"storage",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge, // 413
)

// ErrInvalidFileType - MIME-тип файла не разрешен.
var ErrInvalidFileType = New(
	CodeUnsupportedMedia,
	"validation",
	"Unsupported file type. Allowed: pdf, jpg, png",
	http.StatusUnsupportedMediaType, // 415
)

// ErrFileNotFound - записи о файле нет, либо файл отсутствует на диске.
var ErrFileNotFound = New(
	CodeNotFound,
	"file",
	"File not found",
	http.StatusNotFound, // 404
)

// --- Applications ---

// ErrApplicationNotFound - заявка не найдена.
var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound, // 404
)

// ErrChildNotFound - ребенок не найден.
var ErrChildNotFound = New(
	CodeNotFound,
	"application",
	"Child not found",
	http.StatusNotFound, // 404
)

// ErrInvalidPagination - невалидные параметры страницы.
var ErrInvalidPagination = New(
	CodeInvalidPagination,
	"request",
	"Invalid pagination",
	http.StatusBadRequest, // 400
)

// --- Auth ---

// ErrInvalidCredentials - неверная пара логин/пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusBadRequest, // 400, а не 401: форма логина показывает это как ошибку поля
)

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized, // 401
)

// ErrMissingToken - токен не передан.
var ErrMissingToken = New(
	CodeUnauthorized,
	"auth",
	"Authorization header missing or invalid",
	http.StatusUnauthorized, // 401
)
