package repositories

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kidsfest_backend/internal/models"
	"kidsfest_backend/internal/types"
	"kidsfest_backend/internal/utils"
)

// Порядок выдачи в админке: одобренные, новые, отклоненные, остальные;
// внутри группы - по последнему обновлению, затем по дате создания.
const listOrder = `
	CASE status
		WHEN 'APPROVED' THEN 1
		WHEN 'NEW' THEN 2
		WHEN 'REJECTED' THEN 3
		ELSE 4
	END ASC,
	updated_at DESC NULLS LAST,
	created_at DESC NULLS LAST`

type ApplicationRepository struct{}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{}
}

// Create сохраняет заявку вместе с детьми (каскадная вставка GORM)
func (r *ApplicationRepository) Create(db *gorm.DB, app *models.Application) error {
	return db.Create(app).Error
}

// GetByID возвращает заявку с детьми
func (r *ApplicationRepository) GetByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	err := db.Preload("Children").Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByIDs возвращает заявки по списку идентификаторов (без детей)
func (r *ApplicationRepository) GetByIDs(db *gorm.DB, ids []string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Where("id IN ?", ids).Find(&apps).Error
	return apps, err
}

// Save обновляет заявку
func (r *ApplicationRepository) Save(db *gorm.DB, app *models.Application) error {
	return db.Save(app).Error
}

// Delete удаляет заявку и ее детей. Каскад на детей - явный инвариант
// репозитория, а не скрытая особенность движка БД. Файлы не трогаем.
func (r *ApplicationRepository) Delete(db *gorm.DB, id string) error {
	if err := db.Where("application_id = ?", id).Delete(&models.Child{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Application{}).Error
}

// List возвращает общее количество подходящих заявок и запрошенную страницу
func (r *ApplicationRepository) List(db *gorm.DB, filters types.ApplicationFilters, page, perPage int) (int64, []models.Application, error) {
	q := db.Model(&models.Application{})

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.IsInvestor != nil {
		q = q.Where("is_investor = ?", *filters.IsInvestor)
	}
	if filters.Object != nil {
		// Вхождение значения в JSONB-массив objects
		b, err := json.Marshal([]string{*filters.Object})
		if err != nil {
			return 0, nil, err
		}
		q = q.Where("objects @> ?", datatypes.JSON(b))
	}
	if filters.PhoneSearch != nil {
		// Ищем и по сырой строке, и по цифровой копии: запрос
		// "70511122" должен находить "+7 (705) 111-22-33"
		if digits := utils.NormPhone(*filters.PhoneSearch); digits != "" {
			q = q.Where("whatsapp_phone ILIKE ? OR phone_digits LIKE ?",
				"%"+*filters.PhoneSearch+"%", "%"+digits+"%")
		} else {
			q = q.Where("whatsapp_phone ILIKE ?", "%"+*filters.PhoneSearch+"%")
		}
	}
	if filters.Email != nil {
		q = q.Where("email = ?", *filters.Email)
	}
	if filters.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filters.CreatedTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Application
	err := q.Order(listOrder).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// StatusesByEmail возвращает статусы всех заявок на данный email
func (r *ApplicationRepository) StatusesByEmail(db *gorm.DB, email string) ([]models.ApplicationStatus, error) {
	var statuses []models.ApplicationStatus
	err := db.Model(&models.Application{}).
		Where("email = ?", email).
		Pluck("status", &statuses).Error
	return statuses, err
}
