package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleLoadTree(t *testing.T) {
	ctx := context.Background()

	t.Run("returns flattened tree in pre-order", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Tree:  &mockTreeService{state: testState()},
			Clone: &mockCloneOrchestrator{},
		})

		_, output, err := server.handleLoadTree(ctx, nil, LoadTreeInput{SpaceKey: "OPS"})

		require.NoError(t, err)
		assert.Equal(t, "OPS", output.SpaceKey)
		assert.Equal(t, 3, output.PageCount)
		assert.Equal(t, []TreePage{
			{ID: "1", Title: "Home", Depth: 0},
			{ID: "2", Title: "Child", ParentID: "1", Depth: 1},
			{ID: "3", Title: "Other", Depth: 0},
		}, output.Pages)
	})

	t.Run("space key is required", func(t *testing.T) {
		server := newTestServer(t, &Ports{Tree: &mockTreeService{}, Clone: &mockCloneOrchestrator{}})

		_, _, err := server.handleLoadTree(ctx, nil, LoadTreeInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "space_key is required")
	})

	t.Run("load failure keeps previous tree", func(t *testing.T) {
		tree := &mockTreeService{state: testState()}
		server := newTestServer(t, &Ports{Tree: tree, Clone: &mockCloneOrchestrator{}})

		_, _, err := server.handleLoadTree(ctx, nil, LoadTreeInput{SpaceKey: "OPS"})
		require.NoError(t, err)

		tree.state, tree.err = nil, domain.ErrAuthInvalid
		_, _, err = server.handleLoadTree(ctx, nil, LoadTreeInput{SpaceKey: "OPS"})
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
		assert.NotNil(t, server.state)
	})
}

func TestServer_handleClone(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a loaded tree", func(t *testing.T) {
		server := newTestServer(t, &Ports{Tree: &mockTreeService{}, Clone: &mockCloneOrchestrator{}})

		_, _, err := server.handleClone(ctx, nil, CloneInput{PageIDs: []string{"1"}})
		assert.ErrorIs(t, err, domain.ErrTreeNotLoaded)
	})

	t.Run("clones selection from loaded space", func(t *testing.T) {
		clone := &mockCloneOrchestrator{report: &domain.RunReport{
			ID:     "run-1",
			Status: domain.RunStatusCompleted,
			Pages: []domain.PageOutcome{
				{SourceID: "1", Status: domain.PageStatusCreated, NewID: "101"},
				{SourceID: "3", Status: domain.PageStatusFailed, Err: "boom"},
			},
		}}
		server := newTestServer(t, &Ports{Tree: &mockTreeService{state: testState()}, Clone: clone})
		_, _, err := server.handleLoadTree(ctx, nil, LoadTreeInput{SpaceKey: "OPS"})
		require.NoError(t, err)

		_, output, err := server.handleClone(ctx, nil, CloneInput{
			PageIDs:        []string{"1", "3"},
			TargetSpace:    "DOCS",
			TargetParentID: "900",
			Pattern:        "Home",
			Replacement:    "Start",
		})

		require.NoError(t, err)
		assert.Equal(t, "OPS", clone.req.SourceSpace)
		assert.Equal(t, "DOCS", clone.req.TargetSpace)
		assert.Equal(t, "900", clone.req.TargetParentID)
		assert.Equal(t, domain.NewSelection("1", "3"), clone.req.Selection)
		assert.Equal(t, "Home", clone.req.Pattern)

		assert.Equal(t, "run-1", output.Run.ID)
		assert.Equal(t, 1, output.Created)
		assert.Equal(t, 1, output.Failed)
		assert.Len(t, output.Pages, 2)
	})

	t.Run("fatal error is a tool error", func(t *testing.T) {
		clone := &mockCloneOrchestrator{report: &domain.RunReport{}, err: domain.ErrInvalidReplacement}
		server := newTestServer(t, &Ports{Tree: &mockTreeService{state: testState()}, Clone: clone})
		_, _, err := server.handleLoadTree(ctx, nil, LoadTreeInput{SpaceKey: "OPS"})
		require.NoError(t, err)

		_, _, err = server.handleClone(ctx, nil, CloneInput{PageIDs: []string{"1"}})
		assert.ErrorIs(t, err, domain.ErrInvalidReplacement)
	})
}

func TestServer_handleListRuns(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := make([]domain.RunReport, 15)
	for i := range runs {
		runs[i] = domain.RunReport{ID: "run", Status: domain.RunStatusCompleted, StartedAt: started}
	}

	server := newTestServer(t, &Ports{
		Tree:  &mockTreeService{},
		Clone: &mockCloneOrchestrator{},
		Runs:  &mockRunService{runs: runs},
	})

	_, output, err := server.handleListRuns(ctx, nil, ListRunsInput{})
	require.NoError(t, err)
	assert.Equal(t, defaultRunLimit, output.Count)
	assert.Equal(t, "2026-03-01T12:00:00Z", output.Runs[0].StartedAt)
	assert.Equal(t, "completed", output.Runs[0].Status)

	_, output, err = server.handleListRuns(ctx, nil, ListRunsInput{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, output.Count)
}

func TestServer_handlePreview(t *testing.T) {
	ctx := context.Background()

	server := newTestServer(t, &Ports{
		Tree:  &mockTreeService{},
		Clone: &mockCloneOrchestrator{},
		Pages: &mockPageService{preview: &driving.PagePreview{
			ID: "42", Title: "Runbook", SpaceKey: "OPS", Markdown: "# Steps",
		}},
	})

	_, output, err := server.handlePreview(ctx, nil, PreviewInput{PageID: "42"})
	require.NoError(t, err)
	assert.Equal(t, PreviewOutput{ID: "42", Title: "Runbook", SpaceKey: "OPS", Markdown: "# Steps"}, output)

	server.ports.Pages = &mockPageService{err: errors.New("gone")}
	_, _, err = server.handlePreview(ctx, nil, PreviewInput{PageID: "42"})
	assert.Error(t, err)
}
