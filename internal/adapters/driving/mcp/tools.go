package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

const defaultRunLimit = 10

// LoadTreeInput is the input schema for the load_page_tree tool.
type LoadTreeInput struct {
	SpaceKey   string `json:"space_key" jsonschema:"key of the space to load"`
	RootPageID string `json:"root_page_id,omitempty" jsonschema:"only load this page and its descendants"`
}

// LoadTreeOutput is the output schema for the load_page_tree tool.
// Pages are listed in pre-order; the tree is flattened because tool
// schemas cannot describe recursive types.
type LoadTreeOutput struct {
	SpaceKey  string     `json:"space_key"`
	PageCount int        `json:"page_count"`
	Pages     []TreePage `json:"pages"`
}

// TreePage is one page of a loaded tree.
type TreePage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parent_id,omitempty"`
	Depth    int    `json:"depth"`
}

// CloneInput is the input schema for the clone_pages tool.
type CloneInput struct {
	PageIDs        []string `json:"page_ids" jsonschema:"ids of the loaded pages to clone; children are not implied"`
	TargetSpace    string   `json:"target_space" jsonschema:"key of the target space"`
	TargetParentID string   `json:"target_parent_id" jsonschema:"id of the page to clone under"`
	Pattern        string   `json:"pattern,omitempty" jsonschema:"regular expression applied to titles and bodies"`
	Replacement    string   `json:"replacement,omitempty" jsonschema:"replacement text; groups are referenced as \\1 or \\g<1>, not $1"`
}

// CloneOutput is the output schema for the clone_pages tool.
type CloneOutput struct {
	Run     RunSummary           `json:"run"`
	Created int                  `json:"created"`
	Failed  int                  `json:"failed"`
	Pages   []domain.PageOutcome `json:"pages"`
}

// ListRunsInput is the input schema for the list_runs tool.
type ListRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 10)"`
}

// ListRunsOutput is the output schema for the list_runs tool.
type ListRunsOutput struct {
	Runs  []RunSummary `json:"runs"`
	Count int          `json:"count"`
}

// RunSummary is one run without its page outcomes.
type RunSummary struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	SourceSpace    string `json:"source_space"`
	TargetSpace    string `json:"target_space"`
	TargetParentID string `json:"target_parent_id"`
	StartedAt      string `json:"started_at"`
	Error          string `json:"error,omitempty"`
}

// PreviewInput is the input schema for the preview_page tool.
type PreviewInput struct {
	PageID string `json:"page_id" jsonschema:"id of the page to render"`
}

// PreviewOutput is the output schema for the preview_page tool.
type PreviewOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SpaceKey string `json:"space_key"`
	Markdown string `json:"markdown"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_page_tree",
		Description: "Load the page tree of a space, or of one page and its descendants. Replaces the previously loaded tree.",
	}, s.handleLoadTree)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clone_pages",
		Description: "Clone selected pages of the loaded tree under a target parent page, keeping their relative hierarchy",
	}, s.handleClone)

	if s.ports.Runs != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_runs",
			Description: "List recent clone runs, most recent first",
		}, s.handleListRuns)
	}

	if s.ports.Pages != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "preview_page",
			Description: "Render a page body as markdown",
		}, s.handlePreview)
	}
}

// handleLoadTree handles the load_page_tree tool invocation.
func (s *Server) handleLoadTree(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadTreeInput,
) (*mcp.CallToolResult, LoadTreeOutput, error) {
	if input.SpaceKey == "" {
		return nil, LoadTreeOutput{}, errors.New("space_key is required")
	}

	state, err := s.ports.Tree.Load(ctx, input.SpaceKey, input.RootPageID)
	if err != nil {
		return nil, LoadTreeOutput{}, fmt.Errorf("loading page tree: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	return nil, LoadTreeOutput{
		SpaceKey:  state.SpaceKey,
		PageCount: state.PageCount,
		Pages:     flatten(state.Roots, 0, []TreePage{}),
	}, nil
}

// flatten lists nodes in pre-order with their depth.
func flatten(nodes []*domain.PageNode, depth int, out []TreePage) []TreePage {
	for _, n := range nodes {
		out = append(out, TreePage{ID: n.ID, Title: n.Title, ParentID: n.ParentID, Depth: depth})
		out = flatten(n.Children, depth+1, out)
	}
	return out
}

// handleClone handles the clone_pages tool invocation.
// Per-page failures are part of the report, not tool errors.
func (s *Server) handleClone(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CloneInput,
) (*mcp.CallToolResult, CloneOutput, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state == nil {
		return nil, CloneOutput{}, fmt.Errorf("%w: call load_page_tree first", domain.ErrTreeNotLoaded)
	}

	req := domain.CloneRequest{
		SourceSpace:    state.SpaceKey,
		TargetSpace:    input.TargetSpace,
		TargetParentID: input.TargetParentID,
		Pattern:        input.Pattern,
		Replacement:    input.Replacement,
		Selection:      domain.NewSelection(input.PageIDs...),
	}

	report, err := s.ports.Clone.Clone(ctx, state, req, nil)
	if err != nil {
		return nil, CloneOutput{}, fmt.Errorf("clone aborted: %w", err)
	}
	pages := report.Pages
	if pages == nil {
		pages = []domain.PageOutcome{}
	}
	return nil, CloneOutput{
		Run:     summarise(report),
		Created: report.Created(),
		Failed:  report.Failed(),
		Pages:   pages,
	}, nil
}

// handleListRuns handles the list_runs tool invocation.
func (s *Server) handleListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}

	runs, err := s.ports.Runs.List(ctx, limit)
	if err != nil {
		return nil, ListRunsOutput{}, fmt.Errorf("listing runs: %w", err)
	}

	output := ListRunsOutput{
		Runs:  make([]RunSummary, len(runs)),
		Count: len(runs),
	}
	for i := range runs {
		output.Runs[i] = summarise(&runs[i])
	}
	return nil, output, nil
}

// handlePreview handles the preview_page tool invocation.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	preview, err := s.ports.Pages.Preview(ctx, input.PageID)
	if err != nil {
		return nil, PreviewOutput{}, fmt.Errorf("previewing page: %w", err)
	}
	return nil, PreviewOutput{
		ID:       preview.ID,
		Title:    preview.Title,
		SpaceKey: preview.SpaceKey,
		Markdown: preview.Markdown,
	}, nil
}

func summarise(r *domain.RunReport) RunSummary {
	return RunSummary{
		ID:             r.ID,
		Status:         string(r.Status),
		SourceSpace:    r.SourceSpace,
		TargetSpace:    r.TargetSpace,
		TargetParentID: r.TargetParentID,
		StartedAt:      r.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Error:          r.Err,
	}
}
