package driving

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// TreeService loads page trees from the content gateway.
type TreeService interface {
	// Load fetches the pages of a space (or of the subtree under rootPageID
	// when it is non-empty) and rebuilds the forest from scratch.
	Load(ctx context.Context, spaceKey, rootPageID string) (*domain.TreeState, error)
}
