package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kidsfest_backend/database"
	"kidsfest_backend/internal/app"
	"kidsfest_backend/internal/config"
	"kidsfest_backend/pkg/contextkeys"
)

// AdminPassword - сырой пароль админа для тестового окружения.
// Его bcrypt-хеш кладется в ADMIN_PASSWORD_HASH перед загрузкой конфига.
const AdminPassword = "admin-secret"

// TestServer оборачивает httptest.Server и тестовую БД.
// Активная транзакция (если есть) подставляется в request context каждого
// запроса - DBMiddleware увидит ее и отдаст хендлерам вместо пула.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Cfg    *config.Config

	mu sync.Mutex
	tx *gorm.DB
}

// NewTestServer подключается к тестовой БД, прогоняет миграции и
// поднимает httptest-сервер с полным роутером приложения.
func NewTestServer(t *testing.T) *TestServer {
	cfg := config.Load()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД (%s): %v", dsn, err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	router := app.SetupRouter(cfg, db)

	ts := &TestServer{DB: db, Cfg: cfg}

	// Прослойка над роутером: если тест открыл транзакцию,
	// запрос пойдет через нее
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		tx := ts.tx
		ts.mu.Unlock()
		if tx != nil {
			ctx := contextkeys.WithDB(r.Context(), tx)
			r = r.WithContext(ctx)
		}
		router.ServeHTTP(w, r)
	}))

	log.Printf("✅ Тестовый сервер запущен, тестовая БД (%s) настроена.", dsn)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// BeginTransaction открывает транзакцию, через которую пойдут и сидинг
// теста, и все HTTP-запросы до отката
func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("Не удалось открыть транзакцию: %v", tx.Error)
	}
	ts.mu.Lock()
	ts.tx = tx
	ts.mu.Unlock()
	return tx
}

// RollbackTransaction откатывает транзакцию теста и возвращает пул
func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	ts.mu.Lock()
	ts.tx = nil
	ts.mu.Unlock()
	if err := tx.Rollback().Error; err != nil && err != gorm.ErrInvalidTransaction {
		t.Logf("Откат транзакции: %v", err)
	}
}

// SendRequest отправляет JSON-запрос с опциональным Bearer-токеном
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}

// UploadFile - один файл multipart-формы
type UploadFile struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// SendMultipart отправляет multipart/form-data запрос: текстовые поля
// плюс файлы с явным Content-Type каждой части
func (ts *TestServer) SendMultipart(t *testing.T, path, token string, fields map[string]string, files []UploadFile) (*http.Response, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("Ошибка записи поля %s: %v", name, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			`form-data; name="`+f.Field+`"; filename="`+f.Name+`"`)
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("Ошибка создания части %s: %v", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("Ошибка записи файла %s: %v", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Ошибка закрытия multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
