package driven

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// RunStore records clone runs for later inspection.
// It is an audit log: nothing in a run reads it back.
type RunStore interface {
	// Save stores or replaces a run and its page outcomes.
	Save(ctx context.Context, report domain.RunReport) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.RunReport, error)

	// List returns runs, most recent first, without page outcomes.
	List(ctx context.Context, limit int) ([]domain.RunReport, error)
}
