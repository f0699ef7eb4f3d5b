package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autolog/logagent/internal/app"
	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/controllers"
	"github.com/autolog/logagent/internal/db"
	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/routes"
	"github.com/autolog/logagent/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	logger.Initialize(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	store, storeKind := openStore(cfg)

	collab, err := app.Build(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", map[string]interface{}{"error": err.Error()})
	}

	jobService := services.NewJobService(store, collab.Runner(), services.JobServiceConfig{
		Workers:   cfg.WorkerCount,
		QueueSize: cfg.JobQueueSize,
	})

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(cfg.Env, cfg.CORSOrigin, routes.Dependencies{
		Analyses:  controllers.NewAnalysisController(store, jobService, services.NewLogProcessor(cfg.MaxUploadBytes())),
		LLM:       controllers.NewLLMController(collab.LLM),
		Health:    controllers.NewHealthController(store, storeKind, collab.LLM, cfg.KeyStatus()),
		JWTSecret: cfg.JWTSecret,
	})
	router.MaxMultipartMemory = 32 << 20

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting logagent server", map[string]interface{}{
		"port":     cfg.Port,
		"gin_mode": gin.Mode(),
		"store":    storeKind,
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.Warn("Received shutdown signal, stopping background workers...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}
	jobService.Stop()
	logger.Info("Server exited gracefully", nil)
}

// openStore connects to PostgreSQL when configured, otherwise keeps
// analyses in memory.
func openStore(cfg *config.Config) (db.Store, string) {
	if !cfg.Database.Enabled() {
		logger.Warn("No database configured, analyses are kept in memory", nil)
		return db.NewMemoryStore(), "memory"
	}

	gdb, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Fatal("Failed to migrate database", map[string]interface{}{"error": err.Error()})
	}
	return db.NewGormStore(gdb), "postgres"
}
