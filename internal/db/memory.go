package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/autolog/logagent/internal/models"
)

// MemoryStore keeps analyses in process memory. Contents are lost on exit.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	items  map[string]models.Analysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.Analysis)}
}

func (m *MemoryStore) Create(_ context.Context, a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	a.ID = m.nextID
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	m.items[a.PublicID] = *a
	return nil
}

func (m *MemoryStore) Get(_ context.Context, publicID string) (*models.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.items[publicID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) List(_ context.Context, offset, limit int) ([]models.Analysis, int64, error) {
	m.mu.RLock()
	all := make([]models.Analysis, 0, len(m.items))
	for _, a := range m.items {
		all = append(all, summarize(a))
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []models.Analysis{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (m *MemoryStore) Save(_ context.Context, a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[a.PublicID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now()
	m.items[a.PublicID] = *a
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[publicID]; !ok {
		return ErrNotFound
	}
	delete(m.items, publicID)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// summarize drops the result columns, matching GormStore.List.
func summarize(a models.Analysis) models.Analysis {
	a.Incidents = nil
	a.Research = nil
	a.CodeAnalysis = nil
	a.Solutions = nil
	a.Report = ""
	return a
}
