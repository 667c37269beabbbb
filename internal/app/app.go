package app

import (
	"fmt"
	"time"

	"windbooks_backend/database"
	"windbooks_backend/internal/auth"
	"windbooks_backend/internal/config"
	"windbooks_backend/internal/email"
	"windbooks_backend/internal/handlers"
	"windbooks_backend/internal/logger"
	"windbooks_backend/internal/middleware"
	"windbooks_backend/internal/repositories"
	"windbooks_backend/internal/routes"
	"windbooks_backend/internal/services"
	"windbooks_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
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

	go purgeExpiredRefreshTokens(gormDB, repositories.NewRefreshTokenRepository())

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full dependency graph and returns the router.
// Tests call it with an in-memory database and a nil-safe provider.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	provider := buildEmailProvider(cfg)
	serviceContainer := initializeServices(cfg, provider)

	v := validator.New()
	base := handlers.NewBaseHandler(v)

	appHandlers := &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(
			base,
			serviceContainer.AuthService,
			serviceContainer.VerificationService,
			serviceContainer.UserService,
		),
		UserHandler:   handlers.NewUserHandler(base, serviceContainer.UserService, serviceContainer.RBACService),
		ConfigHandler: handlers.NewConfigHandler(base, serviceContainer.RBACService),
	}

	issuer := newTokenIssuer(cfg)
	userRepo := repositories.NewUserRepository()
	authMw := middleware.AuthMiddleware(issuer)
	adminMw := middleware.SuperAdminMiddleware(userRepo)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, authMw, adminMw)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	return ginRouter
}

func initializeServices(cfg *config.Config, provider email.Provider) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	credentialRepo := repositories.NewCredentialRepository()
	verificationRepo := repositories.NewVerificationRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	rbacRepo := repositories.NewRBACRepository()
	auditRepo := repositories.NewAuditRepository()

	notifications := services.NewNotificationService(
		provider,
		cfg.Verification.LinkBaseURL,
		cfg.Verification.CodeTTLMin,
	)

	issuer := newTokenIssuer(cfg)
	codeTTL := time.Duration(cfg.Verification.CodeTTLMin) * time.Minute

	authService := services.NewAuthService(
		userRepo, credentialRepo, verificationRepo, refreshTokenRepo,
		rbacRepo, auditRepo, notifications, issuer, codeTTL,
	)
	verificationService := services.NewVerificationService(userRepo, verificationRepo, notifications, codeTTL)
	userService := services.NewUserService(userRepo, credentialRepo, verificationRepo, refreshTokenRepo, auditRepo, notifications)
	rbacService := services.NewRBACService(rbacRepo, userRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		VerificationService: verificationService,
		UserService:         userService,
		RBACService:         rbacService,
	}
}

// purgeExpiredRefreshTokens drops refresh-token rows past their expiry
// once an hour. Revocation never needs them again; this just keeps the
// table from growing without bound.
func purgeExpiredRefreshTokens(db *gorm.DB, repo repositories.RefreshTokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := repo.DeleteExpired(db); err != nil {
			logger.Warn("failed to purge expired refresh tokens", "error", err.Error())
		}
	}
}

func newTokenIssuer(cfg *config.Config) *auth.TokenIssuer {
	return auth.NewTokenIssuer(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLDay)*24*time.Hour,
	)
}

// buildEmailProvider wraps the SMTP provider in the bounded-retry
// sender. Without SMTP settings the sends are skipped entirely and the
// dispatcher's callers log the configured-off state.
func buildEmailProvider(cfg *config.Config) email.Provider {
	renderer := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			logger.Warn("failed to load email templates, using built-ins", "error", err.Error())
		}
	}

	smtp := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, renderer)

	return email.NewRetrySender(
		smtp,
		cfg.Email.RetryAttempts,
		time.Duration(cfg.Email.RetryDelayMs)*time.Millisecond,
	)
}
