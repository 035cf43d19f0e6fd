package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"kidsfest_backend/internal/auth"
	"kidsfest_backend/internal/logger"
	"kidsfest_backend/pkg/apperrors"
	"kidsfest_backend/pkg/contextkeys"
)

// AdminAuthMiddleware - проверка bearer-токена админки.
// Subject токена сохраняется в контекст как actor для журнала аудита.
func AdminAuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.ErrMissingToken)
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		actor, err := tokens.Verify(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		// Сохраняем actor в оба контекста: gin и request
		c.Set(string(contextkeys.ActorContextKey), actor)
		ctx := logger.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActor извлекает subject токена из контекста
func GetActor(c *gin.Context) string {
	val, exists := c.Get(string(contextkeys.ActorContextKey))
	if !exists {
		return ""
	}
	actor, ok := val.(string)
	if !ok {
		return ""
	}
	return actor
}
