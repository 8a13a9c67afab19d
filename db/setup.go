package db

import (
	"github.com/hireloop-dev/hireloop/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config translates driver errors into gorm's portable sentinels, so
// handlers can match gorm.ErrDuplicatedKey instead of *pgconn.PgError.
func Config() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), Config())

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Company{},
		&models.CompanyManager{},
		&models.HiringStage{},
		&models.Job{},
		&models.JobStage{},
		&models.Application{},
		&models.StageHistory{},
		&models.ApplicationNote{},
		&models.Event{},
		&models.Notification{},
		&models.CompanyReview{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
