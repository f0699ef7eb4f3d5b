package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autolog/logagent/internal/db"
	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
	"github.com/autolog/logagent/internal/pipeline"
)

var (
	ErrQueueFull = errors.New("analysis queue is full")
	ErrStopped   = errors.New("job service stopped")
)

// stageProgress is the progress reported when each stage starts.
var stageProgress = map[string]int{
	pipeline.StageParseLogs:         10,
	pipeline.StageEnrichData:        25,
	pipeline.StageGenerateSolutions: 55,
	pipeline.StageBuildReport:       80,
}

// JobRequest is one queued analysis.
type JobRequest struct {
	AnalysisID string
	Logs       string
	RepoURL    string
}

// Runner executes the full pipeline, reporting each stage to onStage.
type Runner interface {
	Run(ctx context.Context, logs, repoURL string, onStage pipeline.StageFunc) (pipeline.State, error)
}

type JobServiceConfig struct {
	Workers   int
	QueueSize int
	// JobTimeout bounds one pipeline run; zero means no limit.
	JobTimeout time.Duration
}

type JobService struct {
	store       db.Store
	runner      Runner
	jobQueue    chan JobRequest
	workerCount int
	jobTimeout  time.Duration
	stopChan    chan struct{}
	stopOnce    sync.Once
	mu          sync.RWMutex
	stopped     bool
	wg          sync.WaitGroup
}

// NewJobService creates the service and starts its workers.
func NewJobService(store db.Store, runner Runner, cfg JobServiceConfig) *JobService {
	if cfg.Workers < 1 {
		cfg.Workers = 2
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 100
	}

	js := &JobService{
		store:       store,
		runner:      runner,
		jobQueue:    make(chan JobRequest, cfg.QueueSize),
		workerCount: cfg.Workers,
		jobTimeout:  cfg.JobTimeout,
		stopChan:    make(chan struct{}),
	}

	for i := 0; i < js.workerCount; i++ {
		js.wg.Add(1)
		go js.worker(i)
	}

	return js
}

// Submit persists a pending analysis and queues it.
func (js *JobService) Submit(ctx context.Context, filename, logs, repoURL string) (*models.Analysis, error) {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.stopped {
		return nil, ErrStopped
	}

	analysis := &models.Analysis{
		PublicID: uuid.NewString(),
		Filename: filename,
		RepoURL:  repoURL,
		Status:   models.JobStatusPending,
	}
	if err := js.store.Create(ctx, analysis); err != nil {
		return nil, err
	}

	select {
	case js.jobQueue <- JobRequest{AnalysisID: analysis.PublicID, Logs: logs, RepoURL: repoURL}:
	default:
		analysis.Status = models.JobStatusFailed
		analysis.Error = ErrQueueFull.Error()
		if err := js.store.Save(ctx, analysis); err != nil {
			logger.WithError(err, "job_service").Error("Failed to mark rejected analysis")
		}
		return nil, ErrQueueFull
	}

	logger.WithAnalysis(analysis.PublicID).WithField("filename", filename).Info("Analysis queued")
	return analysis, nil
}

// worker processes jobs from the queue
func (js *JobService) worker(id int) {
	defer js.wg.Done()

	for {
		select {
		case req := <-js.jobQueue:
			logger.Info("Worker processing job", map[string]interface{}{
				"workerID":   id,
				"analysisID": req.AnalysisID,
			})
			js.process(req)
		case <-js.stopChan:
			logger.Info("Worker stopping", map[string]interface{}{"workerID": id})
			return
		}
	}
}

func (js *JobService) process(req JobRequest) {
	ctx, cancel := js.jobContext()
	defer cancel()
	log := logger.WithAnalysis(req.AnalysisID)

	analysis, err := js.store.Get(ctx, req.AnalysisID)
	if err != nil {
		log.WithError(err).Error("Failed to load analysis")
		return
	}

	now := time.Now()
	analysis.Status = models.JobStatusRunning
	analysis.StartedAt = &now
	js.save(ctx, analysis)

	state, runErr := js.runner.Run(ctx, req.Logs, req.RepoURL, func(stage string, _ int) {
		analysis.Stage = stage
		analysis.Progress = stageProgress[stage]
		js.save(ctx, analysis)
	})

	applyState(analysis, state)
	completed := time.Now()
	analysis.CompletedAt = &completed

	if runErr != nil {
		analysis.Status = models.JobStatusFailed
		analysis.Error = runErr.Error()
		log.WithError(runErr).Error("Analysis failed")
	} else {
		analysis.Status = models.JobStatusCompleted
		analysis.Progress = 100
		log.WithField("duration", completed.Sub(now).String()).Info("Analysis completed")
	}

	// Persist the final status even if the job context expired.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer saveCancel()
	js.save(saveCtx, analysis)
}

func (js *JobService) jobContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-js.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()
	if js.jobTimeout > 0 {
		timed, timedCancel := context.WithTimeout(ctx, js.jobTimeout)
		return timed, func() { timedCancel(); cancel() }
	}
	return ctx, cancel
}

func (js *JobService) save(ctx context.Context, analysis *models.Analysis) {
	if err := js.store.Save(ctx, analysis); err != nil {
		logger.WithAnalysis(analysis.PublicID).WithError(err).Error("Failed to update analysis")
	}
}

func applyState(a *models.Analysis, s pipeline.State) {
	a.TotalCount = s.Counts.Total
	a.ErrorCount = s.Counts.Errors
	a.WarningCount = s.Counts.Warnings
	a.Incidents = s.Incidents
	a.Research = s.Research
	a.CodeAnalysis = s.CodeAnalysis
	a.Solutions = s.Solutions
	a.Report = s.Report
}

// QueueLength reports how many jobs are waiting.
func (js *JobService) QueueLength() int {
	return len(js.jobQueue)
}

// Stop rejects new submissions, signals workers and waits for them.
// Running pipelines are cancelled.
func (js *JobService) Stop() {
	js.stopOnce.Do(func() {
		js.mu.Lock()
		js.stopped = true
		js.mu.Unlock()

		close(js.stopChan)
		js.wg.Wait()
		logger.Info("Job service stopped", map[string]interface{}{"pending": len(js.jobQueue)})
	})
}

// pipelineRunner adapts *pipeline.Pipeline to Runner.
type pipelineRunner struct {
	generator  pipeline.Generator
	researcher pipeline.Researcher
	repo       pipeline.RepoAnalyzer
}

// NewPipelineRunner builds a Runner creating a pipeline per job so each
// run gets its own stage hook.
func NewPipelineRunner(generator pipeline.Generator, researcher pipeline.Researcher, repo pipeline.RepoAnalyzer) Runner {
	return &pipelineRunner{generator: generator, researcher: researcher, repo: repo}
}

func (r *pipelineRunner) Run(ctx context.Context, logs, repoURL string, onStage pipeline.StageFunc) (pipeline.State, error) {
	p := pipeline.New(r.generator, r.researcher, r.repo, pipeline.WithStageHook(onStage))
	state, err := p.Run(ctx, logs, repoURL)
	if err != nil {
		return state, fmt.Errorf("pipeline: %w", err)
	}
	return state, nil
}
