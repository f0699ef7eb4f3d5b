package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/autolog/logagent/internal/db"
	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
	"github.com/autolog/logagent/internal/services"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Submitter queues analyses for background processing.
type Submitter interface {
	Submit(ctx context.Context, filename, logs, repoURL string) (*models.Analysis, error)
}

type AnalysisController struct {
	store        db.Store
	jobs         Submitter
	logProcessor *services.LogProcessor
}

func NewAnalysisController(store db.Store, jobs Submitter, logProcessor *services.LogProcessor) *AnalysisController {
	return &AnalysisController{
		store:        store,
		jobs:         jobs,
		logProcessor: logProcessor,
	}
}

type logRequest struct {
	Logs    string `json:"logs"`
	RepoURL string `json:"repoUrl"`
}

// readLogs accepts a multipart "logfile" upload or a JSON body.
func (ac *AnalysisController) readLogs(c *gin.Context) (filename string, req logRequest, status int, err error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		file, ferr := c.FormFile("logfile")
		if ferr != nil {
			return "", req, http.StatusBadRequest, errors.New("no file uploaded")
		}
		text, rerr := ac.logProcessor.ReadUpload(file)
		if rerr != nil {
			return "", req, uploadErrorStatus(rerr), rerr
		}
		req.Logs = text
		req.RepoURL = strings.TrimSpace(c.PostForm("repoUrl"))
		return file.Filename, req, http.StatusOK, nil
	}

	if berr := c.ShouldBindJSON(&req); berr != nil {
		return "", req, http.StatusBadRequest, errors.New("request body must be JSON with a \"logs\" field or a multipart logfile upload")
	}
	if strings.TrimSpace(req.Logs) == "" {
		return "", req, http.StatusBadRequest, errors.New("logs must not be empty")
	}
	if _, rerr := ac.logProcessor.ReadAll(strings.NewReader(req.Logs)); rerr != nil {
		return "", req, uploadErrorStatus(rerr), rerr
	}
	req.RepoURL = strings.TrimSpace(req.RepoURL)
	return "request body", req, http.StatusOK, nil
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrLogTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ParseLogs runs the extractor synchronously
func (ac *AnalysisController) ParseLogs(c *gin.Context) {
	_, req, status, err := ac.readLogs(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ac.logProcessor.Process(req.Logs))
}

// CreateAnalysis queues a full pipeline run
func (ac *AnalysisController) CreateAnalysis(c *gin.Context) {
	filename, req, status, err := ac.readLogs(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	analysis, err := ac.jobs.Submit(c.Request.Context(), filename, req.Logs, req.RepoURL)
	if err != nil {
		if errors.Is(err, services.ErrQueueFull) || errors.Is(err, services.ErrStopped) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		logger.WithError(err, "analysis_controller").Error("Failed to create analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create analysis"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"analysis": analysis})
}

// GetAnalyses returns analyses newest first
func (ac *AnalysisController) GetAnalyses(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	analyses, total, err := ac.store.List(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		logger.WithError(err, "analysis_controller").Error("Failed to list analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analyses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analyses": analyses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetAnalysis returns one analysis with its results
func (ac *AnalysisController) GetAnalysis(c *gin.Context) {
	analysis, ok := ac.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// GetReport returns the markdown report of a completed analysis
func (ac *AnalysisController) GetReport(c *gin.Context) {
	analysis, ok := ac.lookup(c)
	if !ok {
		return
	}

	if analysis.Status != models.JobStatusCompleted {
		body := gin.H{"error": "Report not available", "status": analysis.Status}
		if analysis.Error != "" {
			body["reason"] = analysis.Error
		}
		c.JSON(http.StatusConflict, body)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(analysis.Report))
}

// DeleteAnalysis removes an analysis
func (ac *AnalysisController) DeleteAnalysis(c *gin.Context) {
	if err := ac.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		logger.WithError(err, "analysis_controller").Error("Failed to delete analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted successfully"})
}

func (ac *AnalysisController) lookup(c *gin.Context) (*models.Analysis, bool) {
	analysis, err := ac.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		} else {
			logger.WithError(err, "analysis_controller").Error("Failed to fetch analysis")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analysis"})
		}
		return nil, false
	}
	return analysis, true
}
