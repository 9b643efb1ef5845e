package confluence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
)

const (
	contentPath = "/rest/api/content"
	searchPath  = "/rest/api/content/search"

	// searchLimit is the page size of content searches.
	searchLimit = 100

	// pageExpand asks for everything a clone needs in one request.
	pageExpand = "title,body.storage,ancestors,space,version," +
		"restrictions.read.restrictions.user," +
		"restrictions.read.restrictions.group," +
		"restrictions.update.restrictions.user," +
		"restrictions.update.restrictions.group"
)

// GetPage fetches a page with body, ancestors, version and restrictions.
func (c *Client) GetPage(ctx context.Context, pageID string) (*domain.Page, error) {
	var page content
	query := url.Values{"expand": {pageExpand}}
	if err := c.do(ctx, http.MethodGet, contentPath+"/"+url.PathEscape(pageID), query, nil, &page); err != nil {
		return nil, fmt.Errorf("get page %s: %w", pageID, err)
	}
	return page.toDomain(), nil
}

// ListPagesInSpace lists every page of a space with its ancestors.
func (c *Client) ListPagesInSpace(ctx context.Context, spaceKey string) ([]domain.Page, error) {
	cql := fmt.Sprintf(`space = %s AND type = page`, strconv.Quote(spaceKey))
	return c.search(ctx, cql)
}

// ListPagesUnderAncestor lists the descendants of ancestorID and appends the
// ancestor page itself unless the search already returned it.
func (c *Client) ListPagesUnderAncestor(ctx context.Context, spaceKey, ancestorID string) ([]domain.Page, error) {
	cql := fmt.Sprintf(`space = %s AND type = page AND ancestor = %s`,
		strconv.Quote(spaceKey), strconv.Quote(ancestorID))
	pages, err := c.search(ctx, cql)
	if err != nil {
		return nil, err
	}

	for i := range pages {
		if pages[i].ID == ancestorID {
			return pages, nil
		}
	}

	root, err := c.GetPage(ctx, ancestorID)
	if err != nil {
		return nil, err
	}
	return append(pages, *root), nil
}

// search runs a CQL query and follows _links.next until exhausted.
func (c *Client) search(ctx context.Context, cql string) ([]domain.Page, error) {
	var pages []domain.Page

	ref := searchPath
	query := url.Values{
		"cql":    {cql},
		"limit":  {strconv.Itoa(searchLimit)},
		"expand": {"ancestors"},
	}
	seen := make(map[string]bool)

	for {
		var resp searchResponse
		if err := c.do(ctx, http.MethodGet, ref, query, nil, &resp); err != nil {
			return nil, fmt.Errorf("search pages: %w", err)
		}
		for i := range resp.Results {
			pages = append(pages, *resp.Results[i].toDomain())
		}

		next := resp.Links.Next
		if next == "" || seen[next] || len(resp.Results) == 0 {
			break
		}
		seen[next] = true
		// The next link already carries the query.
		ref, query = next, nil
	}

	return pages, nil
}

// CopyPage copies a page with attachments, permissions, properties and labels
// under targetParentID. Descendants are not copied.
func (c *Client) CopyPage(
	ctx context.Context, sourceID, targetParentID string, opts driven.CopyOptions,
) (*domain.Page, error) {
	req := copyRequest{
		Destination:     copyDestination{Type: "parent_page", Value: targetParentID},
		CopyAttachments: true,
		CopyPermissions: true,
		CopyProperties:  true,
		CopyLabels:      true,
	}
	if opts.NewTitle != "" {
		req.TitleOptions = &titleOptions{Replace: opts.NewTitle}
	}

	var copied content
	ref := contentPath + "/" + url.PathEscape(sourceID) + "/copy"
	if err := c.do(ctx, http.MethodPost, ref, nil, req, &copied, http.StatusOK, http.StatusAccepted); err != nil {
		return nil, fmt.Errorf("copy page %s: %w", sourceID, err)
	}
	return copied.toDomain(), nil
}

// CreatePage creates a page with a storage-format body under parentID.
func (c *Client) CreatePage(ctx context.Context, spaceKey, parentID, title, body string) (*domain.Page, error) {
	req := createRequest{
		Type:      "page",
		Title:     title,
		Ancestors: []ancestor{{ID: parentID}},
		Space:     spaceRef{Key: spaceKey},
		Body: contentBody{
			Storage: &storage{Value: body, Representation: "storage"},
		},
	}

	var created content
	if err := c.do(ctx, http.MethodPost, contentPath, nil, req, &created, http.StatusOK, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("create page %q: %w", title, err)
	}
	return created.toDomain(), nil
}

// UpdateTitle renames a page, writing the current version number + 1.
func (c *Client) UpdateTitle(ctx context.Context, pageID, title string) (*domain.Page, error) {
	ref := contentPath + "/" + url.PathEscape(pageID)

	var current content
	if err := c.do(ctx, http.MethodGet, ref, url.Values{"expand": {"version"}}, nil, &current); err != nil {
		return nil, fmt.Errorf("get version of %s: %w", pageID, err)
	}
	number := 0
	if current.Version != nil {
		number = current.Version.Number
	}

	req := updateRequest{
		ID:      pageID,
		Type:    "page",
		Title:   title,
		Version: version{Number: number + 1},
	}
	var updated content
	if err := c.do(ctx, http.MethodPut, ref, nil, req, &updated); err != nil {
		return nil, fmt.Errorf("update page %s: %w", pageID, err)
	}
	return updated.toDomain(), nil
}

// ApplyRestrictions writes the principals of one restriction operation.
func (c *Client) ApplyRestrictions(
	ctx context.Context, pageID string, op domain.RestrictionOperation, principals domain.Principals,
) error {
	ref := contentPath + "/" + url.PathEscape(pageID) + "/restriction/byOperation/" + url.PathEscape(string(op))
	req := newRestrictionRequest(principals)
	if err := c.do(ctx, http.MethodPut, ref, nil, req, nil, http.StatusOK, http.StatusNoContent); err != nil {
		return fmt.Errorf("apply %s restrictions to %s: %w", op, pageID, err)
	}
	return nil
}
