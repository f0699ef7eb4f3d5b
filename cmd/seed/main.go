package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/db"
	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
	"github.com/autolog/logagent/internal/parser"
)

// Seeds one parsed analysis of the bundled sample log so the API has data
// to show in development.
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
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Fatal("Migration failed", map[string]interface{}{"error": err.Error()})
	}

	analysis := sampleAnalysis(time.Now())
	if err := db.NewGormStore(gdb).Create(context.Background(), analysis); err != nil {
		logger.Fatal("Failed to seed analysis", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Database seeding completed successfully", map[string]interface{}{
		"analysisID": analysis.PublicID,
		"incidents":  analysis.TotalCount,
	})
}

func sampleAnalysis(now time.Time) *models.Analysis {
	incidents := parser.Extract(parser.SampleLog)
	counts := models.CountIncidents(incidents)
	return &models.Analysis{
		PublicID:     uuid.NewString(),
		Filename:     "sample.log",
		Status:       models.JobStatusCompleted,
		Stage:        "parse_logs",
		Progress:     100,
		TotalCount:   counts.Total,
		ErrorCount:   counts.Errors,
		WarningCount: counts.Warnings,
		Incidents:    incidents,
		Report:       "# Log Analysis Report\n\nSeeded from the bundled sample log; no model output.",
		StartedAt:    &now,
		CompletedAt:  &now,
	}
}
