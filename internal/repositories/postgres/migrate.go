package postgres

import (
	"github.com/yoockh/yoojob/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every relational table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Job{},
		&models.Application{},
		&models.Notification{},
		&models.Favorite{},
	)
}
