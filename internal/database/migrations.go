package database

import (
	"gorm.io/gorm"

	"github.com/zenbild/backend/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Project{},
		&models.Participant{},
		&models.Message{},
		&models.Annotation{},
		&models.DailyLog{},
		&models.Milestone{},
		&models.Payment{},
	)
}
