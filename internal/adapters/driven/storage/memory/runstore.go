package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunReport
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.RunReport),
	}
}

// Save stores or replaces a run.
func (s *RunStore) Save(_ context.Context, report domain.RunReport) error {
	if report.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report.Pages = append([]domain.PageOutcome(nil), report.Pages...)
	s.runs[report.ID] = report
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	report.Pages = append([]domain.PageOutcome(nil), report.Pages...)
	return &report, nil
}

// List returns runs, most recent first, without page outcomes.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RunReport, 0, len(s.runs))
	for _, r := range s.runs {
		r.Pages = nil
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
