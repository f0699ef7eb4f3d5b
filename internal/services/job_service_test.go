package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolog/logagent/internal/db"
	"github.com/autolog/logagent/internal/models"
	"github.com/autolog/logagent/internal/pipeline"
)

type scriptedGenerator struct {
	err error
}

func (g scriptedGenerator) Generate(_ context.Context, _ string, callType string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if callType == "solutions" {
		return `[{"rootCause": "pool exhausted"}]`, nil
	}
	return "# Log Analysis Report", nil
}

func waitDone(t *testing.T, store db.Store, id string) *models.Analysis {
	t.Helper()
	var got *models.Analysis
	require.Eventually(t, func() bool {
		a, err := store.Get(context.Background(), id)
		if err != nil {
			return false
		}
		got = a
		return a.Done()
	}, 5*time.Second, 10*time.Millisecond)
	return got
}

func TestJobServiceCompletesAnalysis(t *testing.T) {
	store := db.NewMemoryStore()
	js := NewJobService(store, NewPipelineRunner(scriptedGenerator{}, nil, nil), JobServiceConfig{Workers: 1, QueueSize: 4})
	defer js.Stop()

	analysis, err := js.Submit(context.Background(), "app.log", "ERROR boom\nWARN slow", "")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, analysis.Status)
	assert.NotEmpty(t, analysis.PublicID)

	done := waitDone(t, store, analysis.PublicID)
	assert.Equal(t, models.JobStatusCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, pipeline.StageBuildReport, done.Stage)
	assert.Equal(t, 2, done.TotalCount)
	assert.Equal(t, 1, done.ErrorCount)
	assert.Equal(t, 1, done.WarningCount)
	assert.Equal(t, "# Log Analysis Report", done.Report)
	require.Len(t, done.Solutions, 1)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
}

func TestJobServiceMarksFailure(t *testing.T) {
	store := db.NewMemoryStore()
	genErr := errors.New("model offline")
	js := NewJobService(store, NewPipelineRunner(scriptedGenerator{err: genErr}, nil, nil), JobServiceConfig{Workers: 1, QueueSize: 4})
	defer js.Stop()

	analysis, err := js.Submit(context.Background(), "app.log", "ERROR boom", "")
	require.NoError(t, err)

	done := waitDone(t, store, analysis.PublicID)
	assert.Equal(t, models.JobStatusFailed, done.Status)
	assert.Contains(t, done.Error, "model offline")
	assert.Equal(t, 1, done.TotalCount)
}

type blockingRunner struct {
	release chan struct{}
}

func (b blockingRunner) Run(ctx context.Context, _, _ string, _ pipeline.StageFunc) (pipeline.State, error) {
	select {
	case <-b.release:
		return pipeline.State{}, nil
	case <-ctx.Done():
		return pipeline.State{}, ctx.Err()
	}
}

func TestJobServiceQueueFull(t *testing.T) {
	store := db.NewMemoryStore()
	runner := blockingRunner{release: make(chan struct{})}
	js := NewJobService(store, runner, JobServiceConfig{Workers: 1, QueueSize: 1})
	defer js.Stop()
	defer close(runner.release)

	first, err := js.Submit(context.Background(), "a.log", "", "")
	require.NoError(t, err)
	// Wait until the worker has taken the first job off the queue.
	require.Eventually(t, func() bool {
		a, err := store.Get(context.Background(), first.PublicID)
		return err == nil && a.Status == models.JobStatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	_, err = js.Submit(context.Background(), "b.log", "", "")
	require.NoError(t, err)

	_, err = js.Submit(context.Background(), "c.log", "", "")
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestJobServiceStop(t *testing.T) {
	store := db.NewMemoryStore()
	runner := blockingRunner{release: make(chan struct{})}
	js := NewJobService(store, runner, JobServiceConfig{Workers: 1, QueueSize: 2})

	analysis, err := js.Submit(context.Background(), "a.log", "", "")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		a, err := store.Get(context.Background(), analysis.PublicID)
		return err == nil && a.Status == models.JobStatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	js.Stop()
	js.Stop()

	done, err := store.Get(context.Background(), analysis.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, done.Status)
	assert.Contains(t, done.Error, context.Canceled.Error())

	_, err = js.Submit(context.Background(), "b.log", "", "")
	assert.ErrorIs(t, err, ErrStopped)
}
