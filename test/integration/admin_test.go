package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsfest_backend/internal/models"
	"kidsfest_backend/test/helpers"
)

// TestAdminLogin_WrongPassword - неверный пароль не выдает токен
func TestAdminLogin_WrongPassword(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	loginBody := map[string]interface{}{
		"username": ts.Cfg.Admin.Username,
		"password": "wrong-password",
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/admin/auth/login", "", loginBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
}

// TestAdminApplications_Unauthorized - без токена список недоступен
func TestAdminApplications_Unauthorized(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	res, _ := ts.SendRequest(t, http.MethodGet, "/admin/applications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/admin/applications", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

type listResponse struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Items   []struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Status string `json:"status"`
	} `json:"items"`
}

func fetchList(t *testing.T, ts *helpers.TestServer, token, query string) listResponse {
	res, body := ts.SendRequest(t, http.MethodGet, "/admin/applications"+query, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	var list listResponse
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	return list
}

// TestAdminApplications_Ordering - одобренные в начале, отклоненные в конце
func TestAdminApplications_Ordering(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)
	token := helpers.LoginAdmin(t, ts)

	rejected := helpers.CreateApplication(t, tx, &models.Application{Status: models.ApplicationStatusRejected})
	approved := helpers.CreateApplication(t, tx, &models.Application{Status: models.ApplicationStatusApproved})
	fresh := helpers.CreateApplication(t, tx, &models.Application{Status: models.ApplicationStatusNew})

	list := fetchList(t, ts, token, "")
	require.Len(t, list.Items, 3)
	assert.Equal(t, approved.ID, list.Items[0].ID)
	assert.Equal(t, fresh.ID, list.Items[1].ID)
	assert.Equal(t, rejected.ID, list.Items[2].ID)
}

// TestAdminApplications_Filters - фильтры по статусу, инвестору, ЖК, телефону и email
func TestAdminApplications_Filters(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)
	token := helpers.LoginAdmin(t, ts)

	investor := helpers.CreateApplication(t, tx, &models.Application{
		Email:         "investor@test.com",
		WhatsappPhone: "+7 (705) 111-22-33",
		IsInvestor:    true,
		Objects:       helpers.ObjectsJSON(t, []string{"ЖК Аврора", "ЖК Легенда"}),
	})
	helpers.CreateApplication(t, tx, &models.Application{
		Email:         "regular@test.com",
		WhatsappPhone: "+7 (777) 999-88-77",
		Status:        models.ApplicationStatusApproved,
	})

	list := fetchList(t, ts, token, "?is_investor=true")
	require.Len(t, list.Items, 1)
	assert.Equal(t, investor.ID, list.Items[0].ID)

	list = fetchList(t, ts, token, "?status=APPROVED")
	require.Len(t, list.Items, 1)
	assert.Equal(t, "regular@test.com", list.Items[0].Email)

	list = fetchList(t, ts, token, "?object="+url.QueryEscape("ЖК Аврора"))
	require.Len(t, list.Items, 1)
	assert.Equal(t, investor.ID, list.Items[0].ID)

	// Поиск по нормализованным цифрам телефона
	list = fetchList(t, ts, token, "?phone_search=70511122")
	require.Len(t, list.Items, 1)
	assert.Equal(t, investor.ID, list.Items[0].ID)

	// Email нормализуется перед сравнением
	list = fetchList(t, ts, token, "?email=REGULAR@test.com")
	require.Len(t, list.Items, 1)
	assert.Equal(t, "regular@test.com", list.Items[0].Email)
}

// TestAdminApplications_Pagination - постраничный вывод и защита от огромного per_page
func TestAdminApplications_Pagination(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)
	token := helpers.LoginAdmin(t, ts)

	for i := 0; i < 5; i++ {
		helpers.CreateApplication(t, tx, &models.Application{})
	}

	list := fetchList(t, ts, token, "?page=2&per_page=2")
	assert.Equal(t, int64(5), list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Len(t, list.Items, 2)

	res, _ := ts.SendRequest(t, http.MethodGet, "/admin/applications?per_page=5000", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/admin/applications?page=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// TestApplicationModeration - одобрение и отклонение заявки целиком
func TestApplicationModeration(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)
	token := helpers.LoginAdmin(t, ts)

	app := helpers.CreateApplication(t, tx, &models.Application{})

	res, body := ts.SendRequest(t, http.MethodPost, "/admin/applications/"+app.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	var stored models.Application
	require.NoError(t, tx.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusApproved, stored.Status)
	assert.Equal(t, int64(1), helpers.AuditCount(t, tx, app.ID, "approve"))

	// Отклонение требует причину
	res, _ = ts.SendRequest(t, http.MethodPost, "/admin/applications/"+app.ID+"/reject", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	rejectBody := map[string]interface{}{"reason": "Документы не читаются"}
	res, body = ts.SendRequest(t, http.MethodPost, "/admin/applications/"+app.ID+"/reject", token, rejectBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	require.NoError(t, tx.First(&stored, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusRejected, stored.Status)
	require.NotNil(t, stored.RejectReason)
	assert.Equal(t, "Документы не читаются", *stored.RejectReason)

	// Несуществующая заявка
	res, _ = ts.SendRequest(t, http.MethodPost, "/admin/applications/"+uuid.NewString()+"/approve", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

// TestChildModeration_Aggregation - решения по детям пересчитывают статус заявки
func TestChildModeration_Aggregation(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)
	token := helpers.LoginAdmin(t, ts)

	app := helpers.CreateApplication(t, tx, &models.Application{})
	first := helpers.CreateChild(t, tx, app.ID, models.ChildStatusPending)
	second := helpers.CreateChild(t, tx, app.ID, models.ChildStatusPending)

	reload := func() models.Application {
		var stored models.Application
		require.NoError(t, tx.First(&stored, "id = ?", app.ID).Error)
		return stored
	}

	// Одно решение при оставшемся pending -> PARTIAL
	res, body := ts.SendRequest(t, http.MethodPost, "/admin/children/"+first.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)
	assert.Equal(t, models.ApplicationStatusPartial, reload().Status)

	var storedChild models.Child
	require.NoError(t, tx.First(&storedChild, "id = ?", first.ID).Error)
	assert.Equal(t, models.ChildStatusApproved, storedChild.Status)
	assert.NotNil(t, storedChild.CheckedBy)
	assert.NotNil(t, storedChild.CheckedAt)

	// Все одобрены -> APPROVED
	res, _ = ts.SendRequest(t, http.MethodPost, "/admin/children/"+second.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, models.ApplicationStatusApproved, reload().Status)

	// Все отклонены -> REJECTED
	rejectBody := map[string]interface{}{"reason": "Свидетельство просрочено"}
	res, _ = ts.SendRequest(t, http.MethodPost, "/admin/children/"+first.ID+"/reject", token, rejectBody)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodPost, "/admin/children/"+second.ID+"/reject", token, rejectBody)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, models.ApplicationStatusRejected, reload().Status)

	// Несуществующий ребенок
	res, _ = ts.SendRequest(t, http.MethodPost, "/admin/children/"+uuid.NewString()+"/approve", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

// TestBulkActions - массовые действия best-effort: валидные применяются,
// отсутствующие попадают в errors
func TestBulkActions(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)
	token := helpers.LoginAdmin(t, ts)

	first := helpers.CreateApplication(t, tx, &models.Application{})
	second := helpers.CreateApplication(t, tx, &models.Application{})
	missingID := uuid.NewString()

	bulkBody := map[string]interface{}{
		"ids":    []string{first.ID, second.ID, missingID},
		"action": "approve",
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/admin/applications/bulk", token, bulkBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	var bulk struct {
		Updated int `json:"updated"`
		Errors  []struct {
			ID    string `json:"id"`
			Error string `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &bulk))
	assert.Equal(t, 2, bulk.Updated)
	require.Len(t, bulk.Errors, 1)
	assert.Equal(t, missingID, bulk.Errors[0].ID)

	var stored models.Application
	require.NoError(t, tx.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, models.ApplicationStatusApproved, stored.Status)

	// Неизвестное действие отклоняется валидацией
	bulkBody["action"] = "explode"
	res, _ = ts.SendRequest(t, http.MethodPost, "/admin/applications/bulk", token, bulkBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// delete удаляет заявку вместе с детьми
	helpers.CreateChild(t, tx, second.ID, models.ChildStatusPending)
	bulkBody = map[string]interface{}{
		"ids":    []string{second.ID},
		"action": "delete",
	}
	res, body = ts.SendRequest(t, http.MethodPost, "/admin/applications/bulk", token, bulkBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	var count int64
	tx.Model(&models.Application{}).Where("id = ?", second.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	tx.Model(&models.Child{}).Where("application_id = ?", second.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

// TestAdminApplicationDetail - карточка заявки с детьми и ссылками на файлы
func TestAdminApplicationDetail(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)
	token := helpers.LoginAdmin(t, ts)

	app := helpers.CreateApplication(t, tx, &models.Application{
		Email: fmt.Sprintf("detail_%d@test.com", time.Now().UnixNano()),
	})
	child := helpers.CreateChild(t, tx, app.ID, models.ChildStatusPending)

	res, body := ts.SendRequest(t, http.MethodGet, "/admin/applications/"+app.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+body)

	var detail struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Children []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &detail))
	assert.Equal(t, app.ID, detail.ID)
	require.Len(t, detail.Children, 1)
	assert.Equal(t, child.ID, detail.Children[0].ID)
	assert.Equal(t, "PENDING", detail.Children[0].Status)

	res, _ = ts.SendRequest(t, http.MethodGet, "/admin/applications/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
