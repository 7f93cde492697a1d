package database

import (
	"worktime/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate runs the schema migration against any gorm connection. Tests call
// it with an in-memory sqlite handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Department{},
		&models.Employee{},
		&models.WorkDay{},
		&models.ShiftPlan{},
		&models.PayoutRequest{},
	)
}

// SetDB replaces the global handle, used by tests.
func SetDB(db *gorm.DB) {
	DB = db
}

func GetDB() *gorm.DB {
	return DB
}
