package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for confclone resources.
	uriScheme = "confclone://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Runs != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "runs",
			Name:        "runs",
			Description: "Recent clone runs",
			MIMEType:    "application/json",
		}, s.handleRunsResource)

		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "runs/{runId}",
			Name:        "run",
			Description: "One clone run with its page outcomes",
			MIMEType:    "application/json",
		}, s.handleRunResource)
	}

	if s.ports.Pages != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "pages/{pageId}",
			Name:        "page",
			Description: "A page rendered as markdown",
			MIMEType:    "text/markdown",
		}, s.handlePageResource)
	}
}

// handleRunsResource returns the recent runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.Runs.List(ctx, defaultRunLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	summaries := make([]RunSummary, len(runs))
	for i := range runs {
		summaries[i] = summarise(&runs[i])
	}
	return jsonResource(req.Params.URI, summaries)
}

// handleRunResource returns a single run.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractID(req.Params.URI, "runs/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.Runs.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return jsonResource(req.Params.URI, run)
}

// handlePageResource returns a page preview.
func (s *Server) handlePageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractID(req.Params.URI, "pages/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	preview, err := s.ports.Pages.Preview(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("previewing page: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     "# " + preview.Title + "\n\n" + preview.Markdown,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractID returns the last path segment of a URI like confclone://runs/{id}.
func extractID(uri, kind string) string {
	prefix := uriScheme + kind
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
