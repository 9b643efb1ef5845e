package confluence

import (
	"context"
	"sync"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/logger"
)

// Ensure Gateway implements the interface.
var _ driven.ContentGateway = (*Gateway)(nil)

// ConfigSource returns the current client configuration.
type ConfigSource func() (Config, error)

// Gateway is a ContentGateway that builds its Client on first use and
// rebuilds it whenever the configuration returned by its source changes.
// Long-running commands use it so edits to the config file take effect
// without a restart.
type Gateway struct {
	mu     sync.Mutex
	source ConfigSource
	cfg    Config
	client *Client
}

// NewGateway creates a gateway reading its configuration from source.
func NewGateway(source ConfigSource) *Gateway {
	return &Gateway{source: source}
}

// current returns a client for the latest configuration.
func (g *Gateway) current() (*Client, error) {
	cfg, err := g.source()
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil && cfg == g.cfg {
		return g.client, nil
	}

	// The context only selects the HTTP client used by the oauth2 transport.
	client, err := NewClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if g.client != nil {
		logger.Debug("confluence configuration changed, rebuilt client for %s", client.BaseURL())
	}
	g.cfg = cfg
	g.client = client
	return client, nil
}

// GetPage implements driven.ContentGateway.
func (g *Gateway) GetPage(ctx context.Context, pageID string) (*domain.Page, error) {
	c, err := g.current()
	if err != nil {
		return nil, err
	}
	return c.GetPage(ctx, pageID)
}

// ListPagesInSpace implements driven.ContentGateway.
func (g *Gateway) ListPagesInSpace(ctx context.Context, spaceKey string) ([]domain.Page, error) {
	c, err := g.current()
	if err != nil {
		return nil, err
	}
	return c.ListPagesInSpace(ctx, spaceKey)
}

// ListPagesUnderAncestor implements driven.ContentGateway.
func (g *Gateway) ListPagesUnderAncestor(ctx context.Context, spaceKey, ancestorID string) ([]domain.Page, error) {
	c, err := g.current()
	if err != nil {
		return nil, err
	}
	return c.ListPagesUnderAncestor(ctx, spaceKey, ancestorID)
}

// CopyPage implements driven.ContentGateway.
func (g *Gateway) CopyPage(
	ctx context.Context, sourceID, targetParentID string, opts driven.CopyOptions,
) (*domain.Page, error) {
	c, err := g.current()
	if err != nil {
		return nil, err
	}
	return c.CopyPage(ctx, sourceID, targetParentID, opts)
}

// CreatePage implements driven.ContentGateway.
func (g *Gateway) CreatePage(ctx context.Context, spaceKey, parentID, title, body string) (*domain.Page, error) {
	c, err := g.current()
	if err != nil {
		return nil, err
	}
	return c.CreatePage(ctx, spaceKey, parentID, title, body)
}

// UpdateTitle implements driven.ContentGateway.
func (g *Gateway) UpdateTitle(ctx context.Context, pageID, title string) (*domain.Page, error) {
	c, err := g.current()
	if err != nil {
		return nil, err
	}
	return c.UpdateTitle(ctx, pageID, title)
}

// ApplyRestrictions implements driven.ContentGateway.
func (g *Gateway) ApplyRestrictions(
	ctx context.Context, pageID string, op domain.RestrictionOperation, principals domain.Principals,
) error {
	c, err := g.current()
	if err != nil {
		return err
	}
	return c.ApplyRestrictions(ctx, pageID, op, principals)
}
