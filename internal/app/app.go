package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kidsfest_backend/database"
	"kidsfest_backend/internal/auth"
	"kidsfest_backend/internal/config"
	"kidsfest_backend/internal/email"
	"kidsfest_backend/internal/handlers"
	"kidsfest_backend/internal/logger"
	"kidsfest_backend/internal/middleware"
	"kidsfest_backend/internal/repositories"
	"kidsfest_backend/internal/routes"
	"kidsfest_backend/internal/services"
	"kidsfest_backend/internal/storage"
	"kidsfest_backend/internal/validator"
)

func Run() {
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("AutoMigrate failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	blobs, err := storage.NewLocalStorage(storage.Config{
		Root:          cfg.Storage.Root,
		BirthCertsDir: cfg.Storage.BirthCertsDir,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "root", cfg.Storage.Root)

	appHandlers := initializeHandlers(cfg, blobs)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeHandlers(cfg *config.Config, blobs storage.BlobStore) *handlers.AppHandlers {
	// --- Репозитории ---
	appRepo := repositories.NewApplicationRepository()
	childRepo := repositories.NewChildRepository()
	fileRepo := repositories.NewFileRepository()
	auditRepo := repositories.NewAuditRepository()

	// --- Email ---
	var emailProvider email.Provider
	if cfg.Email.Enabled {
		emailProvider = email.NewSMTPProvider(email.Config{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("Email отключен в конфиге. Используется MOCK.")
		emailProvider = &MockEmailProvider{}
	}

	// --- Сервисы ---
	applicationService := services.NewApplicationService(
		appRepo, fileRepo, blobs,
		cfg.Upload.MaxSize, cfg.Upload.AllowedTypes,
	)
	moderationService := services.NewModerationService(appRepo, childRepo, auditRepo, emailProvider)
	fileService := services.NewFileService(fileRepo, blobs)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	// --- Хендлеры ---
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, applicationService),
		AdminHandler: handlers.NewAdminHandler(
			baseHandler,
			applicationService,
			moderationService,
			fileService,
			tokens,
			cfg.Admin.Username,
			cfg.Admin.PasswordHash,
			cfg.Admin.MaxPerPage,
		),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))
	router.Use(middleware.DBMiddleware(db))
	return router
}
