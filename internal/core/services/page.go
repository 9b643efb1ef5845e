package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// Ensure PageService implements the interface.
var _ driving.PageService = (*PageService)(nil)

// PageService renders single pages for display.
type PageService struct {
	gateway    driven.ContentGateway
	normaliser driven.Normaliser
}

// NewPageService creates a new page service.
func NewPageService(gateway driven.ContentGateway, normaliser driven.Normaliser) *PageService {
	return &PageService{
		gateway:    gateway,
		normaliser: normaliser,
	}
}

// Preview fetches a page and renders its storage body as markdown.
func (s *PageService) Preview(ctx context.Context, pageID string) (*driving.PagePreview, error) {
	if pageID == "" {
		return nil, fmt.Errorf("%w: page id is required", domain.ErrInvalidInput)
	}

	page, err := s.gateway.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	markdown, err := s.normaliser.Normalise(page.Body)
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}

	return &driving.PagePreview{
		ID:       page.ID,
		Title:    page.Title,
		SpaceKey: page.SpaceKey,
		Markdown: markdown,
	}, nil
}
