package migrations

import (
	"fmt"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/analytics"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/blog"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/geoip"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/lead"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/user"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/connection"
	"go.uber.org/zap"
)

// MigrationRecord tracks the migration history
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for migration records
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *connection.Database, logger *zap.Logger) error {
	logger.Info("Starting automatic database migration...")

	// Enable UUID extension for PostgreSQL
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		logger.Error("Failed to create UUID extension", zap.Error(err))
		return fmt.Errorf("failed to create UUID extension: %v", err)
	}

	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema_migrations: %v", err)
	}

	models := []interface{}{
		&user.User{},
		&analytics.AnalyticsEvent{},
		&geoip.GeoIPCache{},
		&blog.BlogPost{},
		&lead.Lead{},
		&lead.LeadResponse{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			logger.Error("Migration failed", zap.Error(err), zap.Any("model", fmt.Sprintf("%T", model)))
			return fmt.Errorf("failed to migrate %T: %v", model, err)
		}
	}

	record := MigrationRecord{
		Name:      "auto_migrate",
		Version:   1,
		AppliedAt: time.Now().UTC(),
	}
	if err := db.Where("name = ?", record.Name).FirstOrCreate(&record).Error; err != nil {
		logger.Warn("Failed to record migration", zap.Error(err))
	}

	logger.Info("Database migration completed successfully")
	return nil
}
