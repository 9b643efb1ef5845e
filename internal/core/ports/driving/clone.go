package driving

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// ProgressFunc receives each page outcome as soon as it is known.
type ProgressFunc func(outcome domain.PageOutcome)

// CloneOrchestrator replays a selection of a loaded tree onto a target parent.
type CloneOrchestrator interface {
	// Clone walks every root of state in pre-order and clones the selected pages.
	// A fatal validation error aborts the run; the partial report is still returned.
	Clone(ctx context.Context, state *domain.TreeState, req domain.CloneRequest, progress ProgressFunc) (*domain.RunReport, error)
}
