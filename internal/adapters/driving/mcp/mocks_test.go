package mcp

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// mockTreeService is a mock implementation of driving.TreeService.
type mockTreeService struct {
	state *domain.TreeState
	err   error
}

func (m *mockTreeService) Load(_ context.Context, _, _ string) (*domain.TreeState, error) {
	return m.state, m.err
}

// mockCloneOrchestrator records the last request and returns a fixed report.
type mockCloneOrchestrator struct {
	req    domain.CloneRequest
	report *domain.RunReport
	err    error
}

func (m *mockCloneOrchestrator) Clone(
	_ context.Context, _ *domain.TreeState, req domain.CloneRequest, _ driving.ProgressFunc,
) (*domain.RunReport, error) {
	m.req = req
	return m.report, m.err
}

// mockRunService is a mock implementation of driving.RunService.
type mockRunService struct {
	runs []domain.RunReport
	run  *domain.RunReport
	err  error
}

func (m *mockRunService) Get(_ context.Context, id string) (*domain.RunReport, error) {
	if m.run == nil || m.run.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.run, m.err
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	if limit < len(m.runs) {
		return m.runs[:limit], m.err
	}
	return m.runs, m.err
}

// mockPageService is a mock implementation of driving.PageService.
type mockPageService struct {
	preview *driving.PagePreview
	err     error
}

func (m *mockPageService) Preview(_ context.Context, _ string) (*driving.PagePreview, error) {
	return m.preview, m.err
}

// testState is Home(1) -> Child(2), plus Other(3).
func testState() *domain.TreeState {
	child := &domain.PageNode{ID: "2", Title: "Child", ParentID: "1"}
	home := &domain.PageNode{ID: "1", Title: "Home", Children: []*domain.PageNode{child}}
	other := &domain.PageNode{ID: "3", Title: "Other"}
	return &domain.TreeState{
		SpaceKey:  "OPS",
		PageCount: 3,
		Roots:     []*domain.PageNode{home, other},
		Index:     map[string]*domain.PageNode{"1": home, "2": child, "3": other},
	}
}
