package app

import (
	"fmt"

	"dlibrary_backend/internal/config"
	"dlibrary_backend/internal/database"
	"dlibrary_backend/internal/email"
	"dlibrary_backend/internal/handlers"
	"dlibrary_backend/internal/logger"
	"dlibrary_backend/internal/middleware"
	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/repositories"
	"dlibrary_backend/internal/routes"
	"dlibrary_backend/internal/services"
	"dlibrary_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run boots the application: config, logging, database, schema, admin seed
// and the HTTP server. It blocks until the server exits.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	logger.Info("starting digital library backend", "env", cfg.Server.Env)

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := SeedFirstAdmin(db, cfg); err != nil {
		return fmt.Errorf("admin seed failed: %w", err)
	}

	router := SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("listening", "addr", addr)
	return router.Run(addr)
}

// SetupRouter assembles the full HTTP stack. Tests call it directly with a
// transaction-wrapped db.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	mailer := newMailProvider(cfg)
	svc := services.NewServiceContainer(cfg, mailer)
	v := validator.New()
	h := handlers.NewAppHandlers(v, svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Frontend.URL))
	router.Use(middleware.DBMiddleware(db))

	routes.RegisterRoutes(router, cfg, h)
	return router
}

// newMailProvider returns the SMTP dispatcher when mail is configured and
// a log sink otherwise, so local setups work without a mail server.
func newMailProvider(cfg *config.Config) email.Provider {
	if !cfg.MailConfigured() {
		logger.Warn("SMTP not configured, emails will be logged instead of sent")
		return email.NewLogProvider()
	}

	provider, err := email.NewSMTPProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Error("invalid SMTP configuration, falling back to log provider", "error", err.Error())
		return email.NewLogProvider()
	}
	return provider
}

// SeedFirstAdmin creates the configured admin account if it does not exist
// yet. The seeded account is verified and active so it can log in at once.
func SeedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Info("admin seed skipped, no admin credentials configured")
		return nil
	}

	userRepo := repositories.NewUserRepository()
	adminEmail := services.NormalizeEmail(cfg.Admin.Email)

	if _, err := userRepo.FindByEmail(db, adminEmail); err == nil {
		return nil
	} else if err != repositories.ErrUserNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: string(hash),
		IsVerified:   true,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := userRepo.Create(db, admin); err != nil {
		return err
	}

	logger.Info("seeded admin account", "email", adminEmail)
	return nil
}
