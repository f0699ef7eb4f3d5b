// Package db persists analysis runs, in PostgreSQL through gorm or in
// memory when no database is configured.
package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/autolog/logagent/internal/models"
)

// ErrNotFound is returned when no analysis has the requested public ID.
var ErrNotFound = errors.New("analysis not found")

// Store is the persistence contract for analyses. List omits the bulky
// result columns (incidents, research, code analysis, solutions, report).
type Store interface {
	Create(ctx context.Context, a *models.Analysis) error
	Get(ctx context.Context, publicID string) (*models.Analysis, error)
	List(ctx context.Context, offset, limit int) ([]models.Analysis, int64, error)
	Save(ctx context.Context, a *models.Analysis) error
	Delete(ctx context.Context, publicID string) error
	Ping(ctx context.Context) error
}

var listOmitted = []string{"incidents", "research", "code_analysis", "solutions", "report"}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) Create(ctx context.Context, a *models.Analysis) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, publicID string) (*models.Analysis, error) {
	var a models.Analysis
	err := s.db.WithContext(ctx).Where("public_id = ?", publicID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &a, nil
}

func (s *GormStore) List(ctx context.Context, offset, limit int) ([]models.Analysis, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Analysis{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	var analyses []models.Analysis
	err := s.db.WithContext(ctx).
		Omit(listOmitted...).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&analyses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, total, nil
}

func (s *GormStore) Save(ctx context.Context, a *models.Analysis) error {
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, publicID string) error {
	result := s.db.WithContext(ctx).Where("public_id = ?", publicID).Delete(&models.Analysis{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete analysis: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.db)
}
