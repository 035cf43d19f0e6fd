package routes

import (
	"github.com/gin-gonic/gin"

	"kidsfest_backend/internal/handlers"
)

// RegisterRoutes регистрирует все HTTP маршруты
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
) {
	api := ginRouter.Group("")
	{
		appHandlers.ApplicationHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
	}
}
