package types

import "time"

// ApplicationFilters - фильтры списка заявок в админке.
// nil-поле означает "фильтр не задан".
type ApplicationFilters struct {
	Status      *string    // точное совпадение статуса
	IsInvestor  *bool      // точное совпадение флага инвестора
	Object      *string    // вхождение идентификатора ЖК в список objects
	PhoneSearch *string    // подстрока номера телефона, без учета регистра
	Email       *string    // точное совпадение нормализованного email
	CreatedFrom *time.Time // включительно
	CreatedTo   *time.Time // включительно
}
