package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
)

// gatewayCall records one write made against mockGateway.
type gatewayCall struct {
	Op       string
	PageID   string
	ParentID string
	SpaceKey string
	Title    string
	Body     string
	Kind     domain.RestrictionOperation
}

// mockGateway implements driven.ContentGateway for testing.
type mockGateway struct {
	mu    sync.Mutex
	pages map[string]domain.Page
	list  []domain.Page

	getErr         map[string]error
	copyErr        error
	createErr      map[string]error
	updateTitleErr error
	restrictErr    error
	listErr        error

	nextID int
	calls  []gatewayCall
}

func newMockGateway(pages ...domain.Page) *mockGateway {
	m := &mockGateway{
		pages:     make(map[string]domain.Page),
		getErr:    make(map[string]error),
		createErr: make(map[string]error),
		nextID:    1000,
	}
	for _, p := range pages {
		m.pages[p.ID] = p
		m.list = append(m.list, p)
	}
	return m
}

var _ driven.ContentGateway = (*mockGateway)(nil)

func (m *mockGateway) newID() string {
	m.nextID++
	return strconv.Itoa(m.nextID)
}

func (m *mockGateway) GetPage(_ context.Context, pageID string) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "get", PageID: pageID})
	if err := m.getErr[pageID]; err != nil {
		return nil, err
	}
	p, ok := m.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
	}
	return &p, nil
}

func (m *mockGateway) ListPagesInSpace(_ context.Context, spaceKey string) ([]domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "list", SpaceKey: spaceKey})
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func (m *mockGateway) ListPagesUnderAncestor(_ context.Context, spaceKey, ancestorID string) ([]domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "list-ancestor", SpaceKey: spaceKey, PageID: ancestorID})
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func (m *mockGateway) CopyPage(_ context.Context, sourceID, targetParentID string, _ driven.CopyOptions) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "copy", PageID: sourceID, ParentID: targetParentID})
	if m.copyErr != nil {
		return nil, m.copyErr
	}
	src := m.pages[sourceID]
	return &domain.Page{ID: m.newID(), Title: src.Title, Version: 1}, nil
}

func (m *mockGateway) CreatePage(_ context.Context, spaceKey, parentID, title, body string) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "create", SpaceKey: spaceKey, ParentID: parentID, Title: title, Body: body})
	if err := m.createErr[title]; err != nil {
		return nil, err
	}
	return &domain.Page{ID: m.newID(), Title: title, SpaceKey: spaceKey, Version: 1}, nil
}

func (m *mockGateway) UpdateTitle(_ context.Context, pageID, title string) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "update-title", PageID: pageID, Title: title})
	if m.updateTitleErr != nil {
		return nil, m.updateTitleErr
	}
	return &domain.Page{ID: pageID, Title: title, Version: 2}, nil
}

func (m *mockGateway) ApplyRestrictions(
	_ context.Context, pageID string, op domain.RestrictionOperation, _ domain.Principals,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "restrict", PageID: pageID, Kind: op})
	return m.restrictErr
}

// callsOf returns the recorded calls with the given op.
func (m *mockGateway) callsOf(op string) []gatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []gatewayCall
	for _, c := range m.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// writes returns every call that mutates the remote side.
func (m *mockGateway) writes() []gatewayCall {
	var out []gatewayCall
	for _, op := range []string{"copy", "create", "update-title", "restrict"} {
		out = append(out, m.callsOf(op)...)
	}
	return out
}

var errBoom = errors.New("boom")

// page builds a page record with the given ancestor chain.
func page(id, title string, ancestors ...string) domain.Page {
	p := domain.Page{ID: id, Title: title, Body: "<p>" + title + "</p>", SpaceKey: "SRC"}
	for _, a := range ancestors {
		p.Ancestors = append(p.Ancestors, domain.PageRef{ID: a})
	}
	return p
}
