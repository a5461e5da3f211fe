package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
)

// Models returns every domain model in migration order (referenced
// tables first)
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Team{},
		&domain.TeamMembership{},
		&domain.Project{},
		&domain.Board{},
		&domain.Task{},
		&domain.TaskDependency{},
		&domain.Notification{},
	}
}

// AutoMigrate runs GORM auto-migration for all domain models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// AutoMigrateWithRetry runs AutoMigrate up to maxRetries times with
// linear backoff, for deployments where the service starts before the
// database accepts connections.
func AutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = AutoMigrate(db)
		if err == nil {
			logger.Info("Database migration completed",
				zap.Int("attempt", attempt),
			)
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}

	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}
