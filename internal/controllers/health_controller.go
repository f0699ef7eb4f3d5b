package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

// Pinger is anything whose availability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store     Pinger
	llm       LLMMonitor
	keyStatus map[string]bool
	storeKind string
}

// NewHealthController reports on store and llm. keyStatus says which
// external credentials are configured; values are never exposed.
func NewHealthController(store Pinger, storeKind string, llm LLMMonitor, keyStatus map[string]bool) *HealthController {
	return &HealthController{store: store, storeKind: storeKind, llm: llm, keyStatus: keyStatus}
}

// Health reports 503 when the store is unreachable. An unhealthy model
// provider degrades the status without failing the check.
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	storeStatus := gin.H{"status": "ok", "kind": hc.storeKind}
	overall := "ok"
	code := http.StatusOK
	if err := hc.store.Ping(ctx); err != nil {
		storeStatus["status"] = "error"
		storeStatus["error"] = err.Error()
		overall = "error"
		code = http.StatusServiceUnavailable
	}

	llmStatus := gin.H{"status": "ok", "provider": hc.llm.Provider(), "model": hc.llm.Model()}
	if err := hc.llm.CheckLLMHealth(ctx); err != nil {
		llmStatus["status"] = "error"
		llmStatus["error"] = err.Error()
		if overall == "ok" {
			overall = "degraded"
		}
	}

	c.JSON(code, gin.H{
		"status":    overall,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
		"services": gin.H{
			"database": storeStatus,
			"llm":      llmStatus,
		},
		"keys": hc.keyStatus,
	})
}
