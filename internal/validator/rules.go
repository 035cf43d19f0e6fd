package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"kidsfest_backend/internal/models"
)

// registerCustomRules регистрирует кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - ошибка времени запуска приложения
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-app-status': статус заявки валиден
	mustRegister("is-app-status", validateApplicationStatus)

	// 'is-bulk-action': массовое действие валидно
	mustRegister("is-bulk-action", validateBulkAction)
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}

	switch models.ApplicationStatus(value) {
	case models.ApplicationStatusNew,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusPartial:
		return true
	}
	return false
}

func validateBulkAction(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	switch models.BulkAction(value) {
	case models.BulkActionApprove,
		models.BulkActionReject,
		models.BulkActionReset,
		models.BulkActionDelete:
		return true
	}
	return false
}
