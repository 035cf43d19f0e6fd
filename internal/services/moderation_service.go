package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kidsfest_backend/internal/dto"
	"kidsfest_backend/internal/email"
	"kidsfest_backend/internal/logger"
	"kidsfest_backend/internal/models"
	"kidsfest_backend/internal/repositories"
	"kidsfest_backend/pkg/apperrors"
)

// ============================================
// MODERATION SERVICE (статусы и аудит)
// ============================================

type ModerationService struct {
	appRepo   *repositories.ApplicationRepository
	childRepo *repositories.ChildRepository
	auditRepo *repositories.AuditRepository
	emails    email.Provider
}

func NewModerationService(
	appRepo *repositories.ApplicationRepository,
	childRepo *repositories.ChildRepository,
	auditRepo *repositories.AuditRepository,
	emails email.Provider,
) *ModerationService {
	return &ModerationService{
		appRepo:   appRepo,
		childRepo: childRepo,
		auditRepo: auditRepo,
		emails:    emails,
	}
}

// AggregateStatus выводит статус заявки из статусов ее детей.
// Есть непроверенные и уже есть решения -> PARTIAL, иначе NEW.
// Упрощение: хотя бы одно решение при наличии PENDING -> PARTIAL.
func AggregateStatus(statuses []models.ChildStatus) models.ApplicationStatus {
	if len(statuses) == 0 {
		return models.ApplicationStatusNew
	}

	allApproved := true
	allRejected := true
	hasPending := false
	hasDecision := false

	for _, s := range statuses {
		switch s {
		case models.ChildStatusApproved:
			allRejected = false
			hasDecision = true
		case models.ChildStatusRejected:
			allApproved = false
			hasDecision = true
		default:
			allApproved = false
			allRejected = false
			hasPending = true
		}
	}

	switch {
	case allApproved:
		return models.ApplicationStatusApproved
	case allRejected:
		return models.ApplicationStatusRejected
	case hasPending && hasDecision:
		return models.ApplicationStatusPartial
	case hasPending:
		return models.ApplicationStatusNew
	default:
		return models.ApplicationStatusPartial
	}
}

// audit пишет одну запись журнала. payload сериализуется в JSONB.
func (s *ModerationService) audit(tx *gorm.DB, actor, entityType, entityID, action string, payload map[string]interface{}) error {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return apperrors.InternalError(err)
	}
	entry := &models.AuditLog{
		Actor:      actor,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Payload:    datatypes.JSON(b),
	}
	if err := s.auditRepo.Append(tx, entry); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

// recompute пересчитывает агрегатный статус заявки по статусам детей
func (s *ModerationService) recompute(tx *gorm.DB, applicationID string) error {
	statuses, err := s.childRepo.StatusesByApplication(tx, applicationID)
	if err != nil {
		return apperrors.ErrDatabase(err)
	}

	err = tx.Model(&models.Application{}).
		Where("id = ?", applicationID).
		Update("status", AggregateStatus(statuses)).Error
	if err != nil {
		return apperrors.ErrDatabase(err)
	}
	return nil
}

// ============================================
// Модерация на уровне ребенка
// ============================================

// ApproveChild одобряет документ ребенка и пересчитывает статус заявки
func (s *ModerationService) ApproveChild(ctx context.Context, db *gorm.DB, childID, actor string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		child, err := s.childRepo.GetByID(tx, childID)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrChildNotFound
			}
			return apperrors.ErrDatabase(err)
		}

		now := time.Now()
		child.Status = models.ChildStatusApproved
		child.RejectReason = nil
		child.CheckedBy = &actor
		child.CheckedAt = &now

		if err := s.childRepo.Save(tx, child); err != nil {
			return apperrors.ErrDatabase(err)
		}

		if err := s.audit(tx, actor, "child", child.ID, "approve", map[string]interface{}{
			"application_id": child.ApplicationID,
		}); err != nil {
			return err
		}

		return s.recompute(tx, child.ApplicationID)
	})
}

// RejectChild отклоняет документ ребенка и пересчитывает статус заявки
func (s *ModerationService) RejectChild(ctx context.Context, db *gorm.DB, childID, actor, reason string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		child, err := s.childRepo.GetByID(tx, childID)
		if err != nil {
			if apperrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrChildNotFound
			}
			return apperrors.ErrDatabase(err)
		}

		now := time.Now()
		child.Status = models.ChildStatusRejected
		child.RejectReason = &reason
		child.CheckedBy = &actor
		child.CheckedAt = &now

		if err := s.childRepo.Save(tx, child); err != nil {
			return apperrors.ErrDatabase(err)
		}

		if err := s.audit(tx, actor, "child", child.ID, "reject", map[string]interface{}{
			"application_id": child.ApplicationID,
			"reason":         reason,
		}); err != nil {
			return err
		}

		return s.recompute(tx, child.ApplicationID)
	})
}

// ============================================
// Действия на уровне заявки
// ============================================

// Approve одобряет заявку целиком, минуя статусы детей
func (s *ModerationService) Approve(ctx context.Context, db *gorm.DB, appID, actor string) error {
	var app *models.Application

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = s.getApplication(tx, appID)
		if err != nil {
			return err
		}

		app.Status = models.ApplicationStatusApproved
		app.RejectReason = nil
		if err := s.appRepo.Save(tx, app); err != nil {
			return apperrors.ErrDatabase(err)
		}

		return s.audit(tx, actor, "application", app.ID, "approve", nil)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, app, "")
	return nil
}

// Reject отклоняет заявку с обязательной причиной
func (s *ModerationService) Reject(ctx context.Context, db *gorm.DB, appID, actor, reason string) error {
	var app *models.Application

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = s.getApplication(tx, appID)
		if err != nil {
			return err
		}

		app.Status = models.ApplicationStatusRejected
		app.RejectReason = &reason
		if err := s.appRepo.Save(tx, app); err != nil {
			return apperrors.ErrDatabase(err)
		}

		return s.audit(tx, actor, "application", app.ID, "reject", map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return err
	}

	s.notify(ctx, app, reason)
	return nil
}

// Bulk применяет действие к каждой заявке из списка. Ошибки по отдельным
// записям собираются и не прерывают пакет; успешные изменения коммитятся
// вместе в конце. Записи обрабатываются последовательно.
func (s *ModerationService) Bulk(ctx context.Context, db *gorm.DB, ids []string, action models.BulkAction, actor string) (*dto.BulkResponse, error) {
	resp := &dto.BulkResponse{Errors: []dto.BulkError{}}

	err := db.Transaction(func(tx *gorm.DB) error {
		apps, err := s.appRepo.GetByIDs(tx, ids)
		if err != nil {
			return apperrors.ErrDatabase(err)
		}

		found := make(map[string]*models.Application, len(apps))
		for i := range apps {
			found[apps[i].ID] = &apps[i]
		}

		for _, id := range ids {
			app, ok := found[id]
			if !ok {
				resp.Errors = append(resp.Errors, dto.BulkError{ID: id, Error: "application not found"})
				continue
			}

			if err := s.applyBulkAction(tx, app, action, actor); err != nil {
				resp.Errors = append(resp.Errors, dto.BulkError{ID: id, Error: err.Error()})
				continue
			}
			resp.Updated++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *ModerationService) applyBulkAction(tx *gorm.DB, app *models.Application, action models.BulkAction, actor string) error {
	switch action {
	case models.BulkActionApprove:
		app.Status = models.ApplicationStatusApproved
		app.RejectReason = nil
	case models.BulkActionReject:
		app.Status = models.ApplicationStatusRejected
		reason := "Отклонено админом"
		app.RejectReason = &reason
	case models.BulkActionReset:
		app.Status = models.ApplicationStatusNew
		app.RejectReason = nil
	case models.BulkActionDelete:
		if err := s.appRepo.Delete(tx, app.ID); err != nil {
			return apperrors.ErrDatabase(err)
		}
		return s.audit(tx, actor, "application", app.ID, string(models.BulkActionDelete), nil)
	default:
		return apperrors.NewBadRequestError("unknown bulk action")
	}

	if err := s.appRepo.Save(tx, app); err != nil {
		return apperrors.ErrDatabase(err)
	}
	return s.audit(tx, actor, "application", app.ID, string(action), nil)
}

func (s *ModerationService) getApplication(tx *gorm.DB, appID string) (*models.Application, error) {
	app, err := s.appRepo.GetByID(tx, appID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return app, nil
}

// notify отправляет заявителю письмо о смене статуса.
// Отправка best-effort: ошибка логируется и не влияет на результат операции.
func (s *ModerationService) notify(ctx context.Context, app *models.Application, reason string) {
	if s.emails == nil || app == nil {
		return
	}
	if err := s.emails.SendStatusNotification(app.Email, app.FullName, string(app.Status), reason); err != nil {
		logger.CtxWarn(ctx, "failed to send status notification",
			"application_id", app.ID,
			"error", err.Error(),
		)
	}
}
