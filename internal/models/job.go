package models

import (
	"time"

	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Analysis is one pipeline run over a log source, persisted as a background job.
type Analysis struct {
	ID           uint             `json:"-" gorm:"primaryKey"`
	PublicID     string           `json:"id" gorm:"uniqueIndex;not null"`
	Filename     string           `json:"filename"`
	RepoURL      string           `json:"repoUrl"`
	Status       JobStatus        `json:"status" gorm:"not null;default:'pending'"`
	Stage        string           `json:"stage"`
	Progress     int              `json:"progress" gorm:"default:0"`
	TotalCount   int              `json:"totalCount" gorm:"default:0"`
	ErrorCount   int              `json:"errorCount" gorm:"default:0"`
	WarningCount int              `json:"warningCount" gorm:"default:0"`
	Incidents    []Incident       `json:"incidents,omitempty" gorm:"type:jsonb;serializer:json"`
	Research     []ResearchResult `json:"research,omitempty" gorm:"type:jsonb;serializer:json"`
	CodeAnalysis *CodeAnalysis    `json:"codeAnalysis,omitempty" gorm:"type:jsonb;serializer:json"`
	Solutions    []Solution       `json:"solutions,omitempty" gorm:"type:jsonb;serializer:json"`
	Report       string           `json:"report,omitempty" gorm:"type:text"`
	Error        string           `json:"error,omitempty"`
	StartedAt    *time.Time       `json:"startedAt"`
	CompletedAt  *time.Time       `json:"completedAt"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt   `json:"-" gorm:"index"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// Done reports whether the analysis reached a terminal status.
func (a Analysis) Done() bool {
	return a.Status == JobStatusCompleted || a.Status == JobStatusFailed
}
