package services

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// defaultRunLimit caps List when no limit is given.
const defaultRunLimit = 20

// RunService exposes recorded clone runs.
type RunService struct {
	store driven.RunStore
}

// NewRunService creates a new run service.
func NewRunService(store driven.RunStore) *RunService {
	return &RunService{store: store}
}

// Get returns one run with its page outcomes.
func (s *RunService) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}

// List returns recent runs, most recent first.
func (s *RunService) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	return s.store.List(ctx, limit)
}
