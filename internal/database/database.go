package database

import (
	"pawpals/config"
	"pawpals/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration, plus the spatial pieces gorm cannot
// express: the PostGIS extension must exist before the geography column is
// created, and the GIST index over it is what makes proximity queries an
// index scan instead of a full table walk.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserPosition{},
	); err != nil {
		return err
	}
	return db.Exec("CREATE INDEX IF NOT EXISTS location_gist_idx ON users_locations USING GIST (location)").Error
}
