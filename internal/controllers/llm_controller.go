package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autolog/logagent/internal/services"
)

// LLMMonitor exposes provider status and the tracked call history.
type LLMMonitor interface {
	Provider() string
	Model() string
	CheckLLMHealth(ctx context.Context) error
	GetAvailableModels(ctx context.Context) ([]string, error)
	GetAPICalls() []services.LLMAPICall
	ClearAPICalls()
}

type LLMController struct {
	llm LLMMonitor
}

func NewLLMController(llm LLMMonitor) *LLMController {
	return &LLMController{llm: llm}
}

// GetLLMStatus returns the status of the LLM service and available models
func (lc *LLMController) GetLLMStatus(c *gin.Context) {
	ctx := c.Request.Context()

	status := "healthy"
	var healthError string
	if err := lc.llm.CheckLLMHealth(ctx); err != nil {
		status = "unhealthy"
		healthError = err.Error()
	}

	models, err := lc.llm.GetAvailableModels(ctx)
	var modelsError string
	if err != nil {
		modelsError = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          status,
		"healthError":     healthError,
		"provider":        lc.llm.Provider(),
		"currentModel":    lc.llm.Model(),
		"availableModels": models,
		"modelsError":     modelsError,
	})
}

// GetLLMAPICalls returns all tracked LLM API calls
func (lc *LLMController) GetLLMAPICalls(c *gin.Context) {
	calls := lc.llm.GetAPICalls()
	c.JSON(http.StatusOK, gin.H{
		"calls": calls,
		"total": len(calls),
	})
}

// ClearLLMAPICalls clears the API call history
func (lc *LLMController) ClearLLMAPICalls(c *gin.Context) {
	lc.llm.ClearAPICalls()
	c.JSON(http.StatusOK, gin.H{"message": "API call history cleared"})
}
