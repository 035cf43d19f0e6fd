package contextkeys

import (
	"context"

	"gorm.io/gorm"
)

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому в context хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// ActorContextKey - ключ, по которому хранится subject админского токена
	ActorContextKey = contextKey("actor")
)

// WithDB кладет *gorm.DB в context. Тесты подставляют сюда транзакцию,
// и DBMiddleware отдает ее хендлерам вместо пула.
func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, DBContextKey, db)
}
