package database

import (
	"fmt"
	"time"

	"dlibrary_backend/internal/logger"
	"dlibrary_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	maxImmediateRetries = 5
	longBackoff         = 30 * time.Second
)

// Connect opens the Postgres connection, retrying with a linear backoff for
// the first attempts and then every 30 seconds until the database is
// reachable. It blocks until connected; the HTTP server must not accept
// requests against a dead store.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is not set")
	}

	var db *gorm.DB
	var err error

	for attempt := 1; ; attempt++ {
		logger.Info("Connecting to database", "attempt", attempt)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			if sqlDB, pingErr := db.DB(); pingErr == nil {
				if pingErr = sqlDB.Ping(); pingErr == nil {
					logger.Info("Database connected")
					return db, nil
				}
				err = pingErr
			} else {
				err = pingErr
			}
		}

		if attempt < maxImmediateRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Database connection failed, retrying",
				"error", err.Error(),
				"backoff", backoff.String(),
			)
			time.Sleep(backoff)
			continue
		}

		logger.Warn("Database not reachable, will keep retrying",
			"error", err.Error(),
			"interval", longBackoff.String(),
		)
		time.Sleep(longBackoff)
	}
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	logger.Info("AutoMigrate completed")
	return nil
}
