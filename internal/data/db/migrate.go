package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/pathwise-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureIndexes adds indexes gorm tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_learning_path_user_created
		ON learning_path (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_learning_path_user_created: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_subscription_user_created
		ON subscription (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_subscription_user_created: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
