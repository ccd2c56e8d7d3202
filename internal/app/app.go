package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tlh_backend/database"
	"tlh_backend/internal/config"
	"tlh_backend/internal/email"
	"tlh_backend/internal/handlers"
	"tlh_backend/internal/logger"
	"tlh_backend/internal/middleware"
	"tlh_backend/internal/models"
	"tlh_backend/internal/repositories"
	"tlh_backend/internal/revalidate"
	"tlh_backend/internal/routes"
	"tlh_backend/internal/security"
	"tlh_backend/internal/services"
	"tlh_backend/internal/storage"
	"tlh_backend/internal/turnstile"
	"tlh_backend/internal/validator"
	"tlh_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.Security.TokenSecret == "" {
		logger.Fatal("REVIEW_TOKEN_SECRET / security.token_secret must be set")
	}

	logger.Info("Connecting to database...")
	// TranslateError maps Postgres unique violations onto gorm.ErrDuplicatedKey,
	// which the review duplicate check relies on.
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
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

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	cleanup := workers.NewCleanupWorker(gormDB, repositories.NewReviewRepository(),
		time.Duration(cfg.Security.TokenTTLHours)*time.Hour)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start cleanup worker", "error", err)
	}
	defer cleanup.Stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires every layer and returns the configured gin engine. It
// is reused by the integration test server.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, storageInstance)
	appHandlers := initializeHandlers(cfg, serviceContainer, storageInstance)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	var sender email.Sender
	if cfg.Email.SMTPHost != "" {
		smtpSender, err := email.NewSMTPSender(email.Config{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP sender", "error", err)
		}
		sender = smtpSender
	} else {
		logger.Warn("SMTP is not configured; outgoing email is logged only")
		sender = &LogEmailSender{}
	}

	chefRepo := repositories.NewChefRepository()
	reviewRepo := repositories.NewReviewRepository()
	appRepo := repositories.NewApplicationRepository()
	contactRepo := repositories.NewContactRepository()
	adminRepo := repositories.NewAdminRepository()

	signer := security.NewTokenSigner(cfg.Security.TokenSecret,
		time.Duration(cfg.Security.TokenTTLHours)*time.Hour)
	verifier := turnstile.NewClient(cfg.Turnstile.Secret, cfg.Turnstile.Endpoint)
	reval := revalidate.NewClient(cfg.Site.BaseURL)

	reviewService := services.NewReviewService(reviewRepo, chefRepo, signer, verifier, sender, reval,
		services.ReviewConfig{
			RateLimit:  cfg.Review.RateLimit,
			RateWindow: time.Duration(cfg.Review.RateWindowMinutes) * time.Minute,
			BaseURL:    cfg.Site.BaseURL,
		})

	return &services.ServiceContainer{
		AuthService:        services.NewAuthService(adminRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute),
		ChefService:        services.NewChefService(chefRepo, storageInstance, reval),
		ReviewService:      reviewService,
		ApplicationService: services.NewApplicationService(appRepo, chefRepo, storageInstance, sender, reval, cfg.Site.BaseURL),
		ContactService:     services.NewContactService(contactRepo, chefRepo),
	}
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer, storageInstance storage.Storage) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	authMW := middleware.AuthMiddleware(cfg.JWT.Secret)

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, container.AuthService, authMW),
		ChefHandler:        handlers.NewChefHandler(baseHandler, container.ChefService, authMW),
		ReviewHandler:      handlers.NewReviewHandler(baseHandler, container.ReviewService, authMW, cfg.Site.BaseURL),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, container.ApplicationService, authMW),
		ContactHandler:     handlers.NewContactHandler(baseHandler, container.ContactService, authMW),
		FileHandler:        handlers.NewFileHandler(baseHandler, storageInstance, authMW),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Site.BaseURL))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var existing models.AdminUser
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.AdminUser{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Role:         models.AdminRoleAdmin,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("✅ First admin user created", "email", adminEmail)
	return nil
}
