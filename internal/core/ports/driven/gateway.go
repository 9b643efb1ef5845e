package driven

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// CopyOptions controls the native copy operation.
type CopyOptions struct {
	// NewTitle replaces the copy's title when non-empty.
	NewTitle string
}

// ContentGateway is the remote content API the clone core depends on.
// Implementations do not retry.
type ContentGateway interface {
	// GetPage fetches a page with title, body, ancestors, version and restrictions.
	GetPage(ctx context.Context, pageID string) (*domain.Page, error)

	// ListPagesInSpace lists page summaries (with ancestors) of a space.
	ListPagesInSpace(ctx context.Context, spaceKey string) ([]domain.Page, error)

	// ListPagesUnderAncestor lists the descendants of ancestorID in a space,
	// with the ancestor page itself appended.
	ListPagesUnderAncestor(ctx context.Context, spaceKey, ancestorID string) ([]domain.Page, error)

	// CopyPage copies a page (attachments, permissions, properties, labels)
	// under targetParentID in the source page's space.
	CopyPage(ctx context.Context, sourceID, targetParentID string, opts CopyOptions) (*domain.Page, error)

	// CreatePage creates a page with storage-format body under parentID.
	CreatePage(ctx context.Context, spaceKey, parentID, title, body string) (*domain.Page, error)

	// UpdateTitle overwrites a page title using the current version number + 1.
	UpdateTitle(ctx context.Context, pageID, title string) (*domain.Page, error)

	// ApplyRestrictions writes the principals of one restriction kind.
	ApplyRestrictions(ctx context.Context, pageID string, op domain.RestrictionOperation, principals domain.Principals) error
}
