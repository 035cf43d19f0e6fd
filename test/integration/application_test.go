package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsfest_backend/internal/models"
	"kidsfest_backend/test/helpers"
)

var pdfContent = []byte("%PDF-1.4 fake birth certificate")

// submitPayload собирает валидный payload формы с заданным числом детей
func submitPayload(childCount int) map[string]interface{} {
	children := make([]map[string]interface{}, 0, childCount)
	for i := 0; i < childCount; i++ {
		children = append(children, map[string]interface{}{
			"full_name": fmt.Sprintf("Ребенок %d", i+1),
			"age":       5 + i,
		})
	}
	return map[string]interface{}{
		"full_name":       "Асель Нурланова",
		"whatsapp_phone":  "+7 (701) 234-56-78",
		"email":           fmt.Sprintf("asel_%d@test.com", time.Now().UnixNano()),
		"is_investor":     false,
		"objects":         []string{},
		"children_total":  childCount,
		"children_coming": childCount,
		"consent":         true,
		"children":        children,
	}
}

func marshalPayload(t *testing.T, payload map[string]interface{}) map[string]string {
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return map[string]string{"payload": string(raw)}
}

// TestSubmitApplication_DualLists - новый формат формы:
// birth_certs[] плюс second_docs[], по два документа на ребенка
func TestSubmitApplication_DualLists(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload := submitPayload(2)
	files := []helpers.UploadFile{
		{Field: "birth_certs", Name: "cert1.pdf", ContentType: "application/pdf", Content: pdfContent},
		{Field: "birth_certs", Name: "cert2.jpg", ContentType: "image/jpeg", Content: []byte("jpeg-bytes")},
		{Field: "second_docs", Name: "doc1.pdf", ContentType: "application/pdf", Content: pdfContent},
		{Field: "second_docs", Name: "doc2.png", ContentType: "image/png", Content: []byte("png-bytes")},
	}

	res, body := ts.SendMultipart(t, "/public/applications", "", marshalPayload(t, payload), files)
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+body)

	var created struct {
		ApplicationID string `json:"application_id"`
		Status        string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "NEW", created.Status)

	var app models.Application
	require.NoError(t, tx.Preload("Children").First(&app, "id = ?", created.ApplicationID).Error)
	assert.Equal(t, models.ApplicationStatusNew, app.Status)
	assert.Equal(t, "77012345678", app.PhoneDigits)
	require.Len(t, app.Children, 2)

	for _, child := range app.Children {
		assert.Equal(t, models.ChildStatusPending, child.Status)
		require.NotNil(t, child.BirthCertFileID)
		require.NotNil(t, child.SecondDocFileID)

		var file models.File
		require.NoError(t, tx.First(&file, "id = ?", *child.BirthCertFileID).Error)
		assert.NotEmpty(t, file.StoragePath)
		assert.Greater(t, file.Size, int64(0))
	}
}

// TestSubmitApplication_LegacyFiles - старый формат: один список files[],
// по одному документу на ребенка
func TestSubmitApplication_LegacyFiles(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload := submitPayload(2)
	files := []helpers.UploadFile{
		{Field: "files", Name: "cert1.pdf", ContentType: "application/pdf", Content: pdfContent},
		{Field: "files", Name: "cert2.png", ContentType: "image/png", Content: []byte("png-bytes")},
	}

	res, body := ts.SendMultipart(t, "/public/applications", "", marshalPayload(t, payload), files)
	require.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+body)

	var created struct {
		ApplicationID string `json:"application_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	var children []models.Child
	require.NoError(t, tx.Where("application_id = ?", created.ApplicationID).Find(&children).Error)
	require.Len(t, children, 2)
	for _, child := range children {
		assert.NotNil(t, child.BirthCertFileID)
		assert.Nil(t, child.SecondDocFileID, "в старом формате второго документа нет")
	}
}

// TestSubmit_FileCountMismatch - число файлов не совпадает с числом детей
func TestSubmit_FileCountMismatch(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload := submitPayload(2)
	files := []helpers.UploadFile{
		{Field: "files", Name: "cert1.pdf", ContentType: "application/pdf", Content: pdfContent},
	}

	res, body := ts.SendMultipart(t, "/public/applications", "", marshalPayload(t, payload), files)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "files count must match children count")

	// Заявка не должна была создаться
	var count int64
	email := payload["email"].(string)
	tx.Model(&models.Application{}).Where("email = ?", email).Count(&count)
	assert.Equal(t, int64(0), count)
}

// TestSubmit_WithoutConsent - без согласия заявка отклоняется
func TestSubmit_WithoutConsent(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload := submitPayload(1)
	payload["consent"] = false
	files := []helpers.UploadFile{
		{Field: "files", Name: "cert.pdf", ContentType: "application/pdf", Content: pdfContent},
	}

	res, body := ts.SendMultipart(t, "/public/applications", "", marshalPayload(t, payload), files)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "consent must be true")
}

// TestSubmit_InvestorWithoutObjects - инвестор обязан указать хотя бы один ЖК
func TestSubmit_InvestorWithoutObjects(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload := submitPayload(1)
	payload["is_investor"] = true
	payload["objects"] = []string{}
	files := []helpers.UploadFile{
		{Field: "files", Name: "cert.pdf", ContentType: "application/pdf", Content: pdfContent},
	}

	res, body := ts.SendMultipart(t, "/public/applications", "", marshalPayload(t, payload), files)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "objects must be non-empty for investor")
}

// TestSubmit_UnsupportedFileType - заявленный MIME вне белого списка
func TestSubmit_UnsupportedFileType(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload := submitPayload(1)
	files := []helpers.UploadFile{
		{Field: "files", Name: "virus.exe", ContentType: "application/octet-stream", Content: []byte("MZ")},
	}

	res, _ := ts.SendMultipart(t, "/public/applications", "", marshalPayload(t, payload), files)
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
}

// TestSubmit_ComingMoreThanTotal - children_coming не может превышать children_total
func TestSubmit_ComingMoreThanTotal(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	payload := submitPayload(1)
	payload["children_total"] = 1
	payload["children_coming"] = 3
	files := []helpers.UploadFile{
		{Field: "files", Name: "cert.pdf", ContentType: "application/pdf", Content: pdfContent},
	}

	res, body := ts.SendMultipart(t, "/public/applications", "", marshalPayload(t, payload), files)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "children_coming must be <= children_total")
}

// TestCheckRegistration - статус выбирается по приоритету среди всех заявок email
func TestCheckRegistration(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	email := fmt.Sprintf("check_%d@test.com", time.Now().UnixNano())
	helpers.CreateApplication(t, tx, &models.Application{
		Email:  email,
		Status: models.ApplicationStatusRejected,
	})
	helpers.CreateApplication(t, tx, &models.Application{
		Email:  email,
		Status: models.ApplicationStatusApproved,
	})

	res, body := ts.SendRequest(t, http.MethodGet, "/public/check-registration?email="+email, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var check struct {
		Registered bool    `json:"registered"`
		Status     *string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &check))
	assert.True(t, check.Registered)
	require.NotNil(t, check.Status)
	assert.Equal(t, "APPROVED", *check.Status, "APPROVED приоритетнее REJECTED")

	// Неизвестный email
	res, body = ts.SendRequest(t, http.MethodGet, "/public/check-registration?email=nobody@test.com", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &check))
	assert.False(t, check.Registered)
	assert.Nil(t, check.Status)
}
