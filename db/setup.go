package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkwell-dev/inkwell/internal/models"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(database *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Note{},
	}

	migrator := database.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := database.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
