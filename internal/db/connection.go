package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
)

// Connect opens a PostgreSQL connection with gorm, logging through logrus.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	level := gormlogger.Warn
	if logger.GetLogger().IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(logger.GetLogger(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully", map[string]interface{}{"host": cfg.Host})
	return gdb, nil
}

// AutoMigrate creates or updates the tables for persisted models.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.Analysis{}); err != nil {
		return fmt.Errorf("analysis migration failed: %w", err)
	}
	logger.Info("Database migrations completed", map[string]interface{}{"tables": []string{"analyses"}})
	return nil
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
