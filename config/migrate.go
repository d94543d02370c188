package config

import (
	"fmt"

	"github.com/bellapacxx/squares-backend/models"
	"github.com/bellapacxx/squares-backend/utils/logger"
	"gorm.io/gorm"
)

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.SuperAdmin{},
		&models.Game{},
		&models.Square{},
		&models.GlobalScores{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("✅ Database migration completed")
	return nil
}
