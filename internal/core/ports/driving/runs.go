package driving

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// RunService exposes the clone run history.
type RunService interface {
	// Get returns one run with its page outcomes.
	Get(ctx context.Context, id string) (*domain.RunReport, error)

	// List returns recent runs, most recent first.
	List(ctx context.Context, limit int) ([]domain.RunReport, error)
}
