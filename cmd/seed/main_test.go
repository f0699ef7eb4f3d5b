package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/autolog/logagent/internal/models"
)

func TestSampleAnalysis(t *testing.T) {
	a := sampleAnalysis(time.Now())

	assert.NotEmpty(t, a.PublicID)
	assert.Equal(t, models.JobStatusCompleted, a.Status)
	assert.Equal(t, 5, a.TotalCount)
	assert.Equal(t, 4, a.ErrorCount)
	assert.Equal(t, 1, a.WarningCount)
	assert.Len(t, a.Incidents, 5)
}
