package driven

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// SessionStore keeps the loaded page tree of each web session.
type SessionStore interface {
	// SaveTree replaces the tree state of a session.
	SaveTree(ctx context.Context, sessionID string, state *domain.TreeState) error

	// GetTree returns the tree state of a session, or domain.ErrNotFound.
	GetTree(ctx context.Context, sessionID string) (*domain.TreeState, error)

	// Delete discards a session.
	Delete(ctx context.Context, sessionID string) error
}
