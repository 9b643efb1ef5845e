package driving

import "context"

// PagePreview is a readable rendering of a page.
type PagePreview struct {
	ID       string
	Title    string
	SpaceKey string
	Markdown string
}

// PageService reads single pages for display.
type PageService interface {
	// Preview fetches a page and renders its body as markdown.
	Preview(ctx context.Context, pageID string) (*PagePreview, error)
}
