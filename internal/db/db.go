package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/club-admin/internal/audit"
	"github.com/BruksfildServices01/club-admin/internal/config"
	"github.com/BruksfildServices01/club-admin/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

// Migrate creates the schema for every observed model plus the audit ledger.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(append(models.Observed(), &models.AuditLog{})...)
}

// Observe attaches the audit change observer to every observed model.
func Observe(db *gorm.DB, pipeline *audit.Pipeline) error {
	return pipeline.Observe(db, models.Observed()...)
}
