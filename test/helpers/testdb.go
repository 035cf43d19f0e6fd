package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kidsfest_backend/internal/models"
	"kidsfest_backend/internal/utils"
)

// CreateApplication создает заявку в транзакции. Пустые поля заполняются
// осмысленными значениями по умолчанию
func CreateApplication(t *testing.T, tx *gorm.DB, app *models.Application) *models.Application {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.FullName == "" {
		app.FullName = "Тестовый Родитель"
	}
	if app.Email == "" {
		app.Email = fmt.Sprintf("parent_%d@test.com", time.Now().UnixNano())
	}
	app.Email = utils.NormEmail(app.Email)
	if app.WhatsappPhone == "" {
		app.WhatsappPhone = "+7 (700) 123-45-67"
	}
	app.PhoneDigits = utils.NormPhone(app.WhatsappPhone)
	if app.Objects == nil {
		app.Objects = datatypes.JSON(`[]`)
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusNew
	}
	app.Consent = true

	result := tx.Create(app)
	assert.NoError(t, result.Error, "Создание тестовой заявки не должно вызывать ошибку")
	return app
}

// CreateChild создает ребенка для заявки с заданным статусом проверки
func CreateChild(t *testing.T, tx *gorm.DB, applicationID string, status models.ChildStatus) *models.Child {
	child := &models.Child{
		ApplicationID: applicationID,
		FullName:      "Тестовый Ребенок",
		Age:           7,
		Status:        status,
	}
	child.ID = uuid.NewString()

	result := tx.Create(child)
	assert.NoError(t, result.Error, "Создание тестового ребенка не должно вызывать ошибку")
	return child
}

// ObjectsJSON сериализует список ЖК в jsonb-значение
func ObjectsJSON(t *testing.T, objects []string) datatypes.JSON {
	raw, err := json.Marshal(objects)
	assert.NoError(t, err)
	return datatypes.JSON(raw)
}

// LoginAdmin логинит админа через API и возвращает Bearer-токен
func LoginAdmin(t *testing.T, ts *TestServer) string {
	loginBody := map[string]interface{}{
		"username": ts.Cfg.Admin.Username,
		"password": AdminPassword,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/admin/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин админа должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	err := json.Unmarshal([]byte(bodyStr), &loginResponse)
	assert.NoError(t, err, "Не удалось распарсить JSON")
	assert.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	return loginResponse.Token
}

// AuditCount возвращает число записей журнала по сущности и действию
func AuditCount(t *testing.T, tx *gorm.DB, entityID, action string) int64 {
	var count int64
	err := tx.Model(&models.AuditLog{}).
		Where("entity_id = ? AND action = ?", entityID, action).
		Count(&count).Error
	assert.NoError(t, err)
	return count
}
