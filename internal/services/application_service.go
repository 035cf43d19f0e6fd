package services

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kidsfest_backend/internal/dto"
	"kidsfest_backend/internal/logger"
	"kidsfest_backend/internal/models"
	"kidsfest_backend/internal/repositories"
	"kidsfest_backend/internal/storage"
	"kidsfest_backend/internal/types"
	"kidsfest_backend/internal/utils"
	"kidsfest_backend/pkg/apperrors"
)

// ============================================
// APPLICATION SERVICE (публичная подача заявок)
// ============================================

type ApplicationService struct {
	appRepo  *repositories.ApplicationRepository
	fileRepo *repositories.FileRepository
	blobs    storage.BlobStore

	maxUploadBytes int64
	allowedMime    map[string]bool
}

func NewApplicationService(
	appRepo *repositories.ApplicationRepository,
	fileRepo *repositories.FileRepository,
	blobs storage.BlobStore,
	maxUploadBytes int64,
	allowedTypes []string,
) *ApplicationService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}

	return &ApplicationService{
		appRepo:        appRepo,
		fileRepo:       fileRepo,
		blobs:          blobs,
		maxUploadBytes: maxUploadBytes,
		allowedMime:    allowed,
	}
}

// NormalizeUploads сверяет списки загрузок с количеством детей и приводит
// оба формата формы к единому виду "основной + опциональный второй документ
// на ребенка". legacy - старый формат files[], primary/secondary - новый.
func NormalizeUploads(childCount int, legacy, primary, secondary []*multipart.FileHeader) ([]dto.ChildUpload, error) {
	// Старый формат: один файл на ребенка
	if len(primary) == 0 {
		if len(legacy) != childCount {
			return nil, apperrors.NewBadRequestError("files count must match children count")
		}
		uploads := make([]dto.ChildUpload, childCount)
		for i, fh := range legacy {
			uploads[i] = dto.ChildUpload{Primary: fh}
		}
		return uploads, nil
	}

	// Новый формат: birth_certs[] (+ опционально second_docs[])
	if len(primary) != childCount {
		return nil, apperrors.NewBadRequestError("birth_certs count must match children count")
	}
	if len(secondary) > 0 && len(secondary) != childCount {
		return nil, apperrors.NewBadRequestError("second_docs count must match children count")
	}

	uploads := make([]dto.ChildUpload, childCount)
	for i, fh := range primary {
		uploads[i] = dto.ChildUpload{Primary: fh}
		if len(secondary) > 0 {
			uploads[i].Secondary = secondary[i]
		}
	}
	return uploads, nil
}

// validateUploads проверяет заявленный MIME каждого присутствующего файла
func (s *ApplicationService) validateUploads(uploads []dto.ChildUpload) error {
	check := func(fh *multipart.FileHeader) error {
		if fh == nil {
			return nil
		}
		if !s.allowedMime[fh.Header.Get("Content-Type")] {
			return apperrors.ErrInvalidFileType
		}
		return nil
	}

	for _, u := range uploads {
		if err := check(u.Primary); err != nil {
			return err
		}
		if err := check(u.Secondary); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePayload применяет бизнес-правила к распарсенной заявке.
// Вызывается до любых побочных эффектов.
func (s *ApplicationService) ValidatePayload(payload *dto.ApplicationCreate) error {
	if payload.ChildrenComing > payload.ChildrenTotal {
		return apperrors.NewBadRequestError("children_coming must be <= children_total")
	}
	if !payload.Consent {
		return apperrors.NewBadRequestError("consent must be true")
	}
	if payload.IsInvestor && len(payload.Objects) == 0 {
		return apperrors.NewBadRequestError("objects must be non-empty for investor")
	}
	return nil
}

// Submit обрабатывает подачу заявки: валидация, создание заявки с детьми,
// сохранение документов и привязка файлов к детям - все в одной транзакции.
// Любая ошибка валидации прерывает обработку до первого побочного эффекта.
func (s *ApplicationService) Submit(
	ctx context.Context,
	db *gorm.DB,
	payload *dto.ApplicationCreate,
	legacy, primary, secondary []*multipart.FileHeader,
) (*dto.ApplicationCreateResponse, error) {
	if err := s.ValidatePayload(payload); err != nil {
		return nil, err
	}

	uploads, err := NormalizeUploads(len(payload.Children), legacy, primary, secondary)
	if err != nil {
		return nil, err
	}

	if err := s.validateUploads(uploads); err != nil {
		return nil, err
	}

	objects := payload.Objects
	if objects == nil {
		objects = []string{}
	}
	objectsJSON, err := json.Marshal(objects)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	app := &models.Application{
		FullName:       payload.FullName,
		WhatsappPhone:  payload.WhatsappPhone,
		PhoneDigits:    utils.NormPhone(payload.WhatsappPhone),
		Email:          utils.NormEmail(payload.Email),
		IsInvestor:     payload.IsInvestor,
		Objects:        datatypes.JSON(objectsJSON),
		ContractNumber: payload.ContractNumber,
		ChildrenTotal:  payload.ChildrenTotal,
		ChildrenComing: payload.ChildrenComing,
		Consent:        payload.Consent,
		Status:         models.ApplicationStatusNew,
	}
	for _, c := range payload.Children {
		app.Children = append(app.Children, models.Child{
			FullName: c.FullName,
			Age:      c.Age,
			Status:   models.ChildStatusPending,
		})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.appRepo.Create(tx, app); err != nil {
			return apperrors.ErrDatabase(err)
		}

		// id детей сгенерированы, привязываем документы
		for i := range app.Children {
			child := &app.Children[i]
			u := uploads[i]

			fileID, err := s.storeUpload(ctx, tx, u.Primary)
			if err != nil {
				return err
			}
			child.BirthCertFileID = &fileID

			if u.Secondary != nil {
				secondID, err := s.storeUpload(ctx, tx, u.Secondary)
				if err != nil {
					return err
				}
				child.SecondDocFileID = &secondID
			}

			if err := tx.Save(child).Error; err != nil {
				return apperrors.ErrDatabase(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "application submitted",
		"application_id", app.ID,
		"children", len(app.Children),
	)

	return &dto.ApplicationCreateResponse{
		ApplicationID: app.ID,
		Status:        string(app.Status),
	}, nil
}

// storeUpload пишет файл в хранилище и регистрирует его метаданные
func (s *ApplicationService) storeUpload(ctx context.Context, tx *gorm.DB, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperrors.ErrStorage(err, "Failed to open upload")
	}
	defer src.Close()

	fileID := uuid.NewString()

	relPath, size, err := s.blobs.Store(ctx, fileID, fh.Filename, src, s.maxUploadBytes)
	if err != nil {
		return "", err
	}

	originalName := fh.Filename
	if originalName == "" {
		originalName = "file"
	}
	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	f := &models.File{
		ID:           fileID,
		StoragePath:  relPath,
		OriginalName: originalName,
		Mime:         mime,
		Size:         size,
	}
	if err := s.fileRepo.Create(tx, f); err != nil {
		return "", apperrors.ErrDatabase(err)
	}

	return fileID, nil
}

// CheckRegistration сообщает, есть ли заявка на данный email, и если есть -
// ее статус с наивысшим приоритетом (тот же порядок, что в сортировке списка).
func (s *ApplicationService) CheckRegistration(db *gorm.DB, email string) (*dto.CheckRegistrationResponse, error) {
	statuses, err := s.appRepo.StatusesByEmail(db, utils.NormEmail(email))
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	if len(statuses) == 0 {
		return &dto.CheckRegistrationResponse{Registered: false}, nil
	}

	best := statuses[0]
	for _, st := range statuses[1:] {
		if models.StatusPriority(st) < models.StatusPriority(best) {
			best = st
		}
	}

	result := string(best)
	return &dto.CheckRegistrationResponse{Registered: true, Status: &result}, nil
}

// Detail возвращает заявку с детьми и ссылками на их документы
func (s *ApplicationService) Detail(db *gorm.DB, id string) (*dto.ApplicationDetail, error) {
	app, err := s.appRepo.GetByID(db, id)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.ErrDatabase(err)
	}

	var objects []string
	if err := json.Unmarshal(app.Objects, &objects); err != nil {
		objects = []string{}
	}

	detail := &dto.ApplicationDetail{
		ID:             app.ID,
		FullName:       app.FullName,
		WhatsappPhone:  app.WhatsappPhone,
		Email:          app.Email,
		IsInvestor:     app.IsInvestor,
		Objects:        objects,
		ContractNumber: app.ContractNumber,
		ChildrenTotal:  app.ChildrenTotal,
		ChildrenComing: app.ChildrenComing,
		Consent:        app.Consent,
		Status:         string(app.Status),
		RejectReason:   app.RejectReason,
		CreatedAt:      app.CreatedAt,
	}

	filePath := func(fileID *string) *string {
		if fileID == nil {
			return nil
		}
		p := fmt.Sprintf("/admin/files/%s", *fileID)
		return &p
	}

	for _, c := range app.Children {
		detail.Children = append(detail.Children, dto.ChildView{
			ID:            c.ID,
			FullName:      c.FullName,
			Age:           c.Age,
			Status:        string(c.Status),
			RejectReason:  c.RejectReason,
			PathImage:     filePath(c.BirthCertFileID),
			PathSecondDoc: filePath(c.SecondDocFileID),
		})
	}

	return detail, nil
}

// List возвращает страницу заявок для админки
func (s *ApplicationService) List(db *gorm.DB, filters types.ApplicationFilters, page, perPage int) (*dto.ApplicationListResponse, error) {
	total, apps, err := s.appRepo.List(db, filters, page, perPage)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	items := make([]dto.ApplicationListItem, 0, len(apps))
	for _, app := range apps {
		var objects []string
		if err := json.Unmarshal(app.Objects, &objects); err != nil {
			objects = []string{}
		}
		items = append(items, dto.ApplicationListItem{
			ID:             app.ID,
			FullName:       app.FullName,
			WhatsappPhone:  app.WhatsappPhone,
			Email:          app.Email,
			IsInvestor:     app.IsInvestor,
			Objects:        objects,
			ContractNumber: app.ContractNumber,
			ChildrenTotal:  app.ChildrenTotal,
			ChildrenComing: app.ChildrenComing,
			Status:         string(app.Status),
			CreatedAt:      app.CreatedAt,
		})
	}

	return &dto.ApplicationListResponse{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Items:   items,
	}, nil
}
