package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/courseforge-backend/internal/domain/authoring"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(authoring.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
