package main

import (
	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/db"
	"github.com/autolog/logagent/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}
	logger.Initialize(logger.Options{Level: cfg.LogLevel, File: "stdout"})

	if !cfg.Database.Enabled() {
		logger.Fatal("DATABASE_URL or DB_HOST is required", nil)
	}

	gdb, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Running database migrations...", nil)
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Fatal("Migration failed", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Database migrations completed successfully", nil)
}
