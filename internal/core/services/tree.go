package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
	"github.com/custodia-labs/confclone/internal/logger"
)

// Ensure TreeService implements the interface.
var _ driving.TreeService = (*TreeService)(nil)

// BuildForest converts flat page records into a forest.
// A node is a root iff its parent is absent from pages. Children keep input order.
// Cycles are not detected.
func BuildForest(pages []domain.Page) []*domain.PageNode {
	nodes := make(map[string]*domain.PageNode, len(pages))
	order := make([]string, 0, len(pages))

	for i := range pages {
		id := pages[i].ID
		if id == "" {
			continue
		}
		if _, seen := nodes[id]; !seen {
			order = append(order, id)
		}
		nodes[id] = &domain.PageNode{
			ID:       id,
			Title:    pages[i].Title,
			ParentID: pages[i].ParentID(),
			Children: []*domain.PageNode{},
		}
	}

	nonRoot := make(map[string]bool, len(nodes))
	for _, id := range order {
		node := nodes[id]
		if node.ParentID == "" {
			continue
		}
		parent, ok := nodes[node.ParentID]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, node)
		nonRoot[id] = true
	}

	roots := make([]*domain.PageNode, 0, len(order)-len(nonRoot))
	for _, id := range order {
		if !nonRoot[id] {
			roots = append(roots, nodes[id])
		}
	}
	return roots
}

// ToSelectableTree translates a node and its descendants for selection UIs.
func ToSelectableTree(node *domain.PageNode) domain.SelectableNode {
	sel := domain.SelectableNode{
		Value:    node.ID,
		Label:    node.Title,
		Children: make([]domain.SelectableNode, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		sel.Children = append(sel.Children, ToSelectableTree(child))
	}
	return sel
}

// BuildIndex flattens the forest into an id lookup table (pre-order).
func BuildIndex(roots []*domain.PageNode) map[string]*domain.PageNode {
	index := make(map[string]*domain.PageNode)
	var visit func(n *domain.PageNode)
	visit = func(n *domain.PageNode) {
		index[n.ID] = n
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return index
}

// NewTreeState builds the forest, index and selectable tree for one load.
func NewTreeState(spaceKey, rootPageID string, pages []domain.Page) *domain.TreeState {
	roots := BuildForest(pages)
	return TreeStateFromRoots(spaceKey, rootPageID, len(pages), roots)
}

// TreeStateFromRoots derives index and selectable tree from an existing forest.
// Used when a forest is restored from a session store.
func TreeStateFromRoots(spaceKey, rootPageID string, pageCount int, roots []*domain.PageNode) *domain.TreeState {
	selectable := make([]domain.SelectableNode, 0, len(roots))
	for _, r := range roots {
		selectable = append(selectable, ToSelectableTree(r))
	}
	return &domain.TreeState{
		SpaceKey:   spaceKey,
		RootPageID: rootPageID,
		PageCount:  pageCount,
		Roots:      roots,
		Index:      BuildIndex(roots),
		Selectable: selectable,
		LoadedAt:   time.Now(),
	}
}

// TreeService loads page trees through the content gateway.
type TreeService struct {
	gateway driven.ContentGateway
}

// NewTreeService creates a new tree service.
func NewTreeService(gateway driven.ContentGateway) *TreeService {
	return &TreeService{gateway: gateway}
}

// Load fetches pages and rebuilds the tree from scratch.
func (s *TreeService) Load(ctx context.Context, spaceKey, rootPageID string) (*domain.TreeState, error) {
	spaceKey = strings.TrimSpace(spaceKey)
	rootPageID = strings.TrimSpace(rootPageID)
	if spaceKey == "" {
		return nil, fmt.Errorf("%w: source space key is required", domain.ErrInvalidInput)
	}

	var (
		pages []domain.Page
		err   error
	)
	if rootPageID != "" {
		logger.Debug("Loading pages of space %s under %s", spaceKey, rootPageID)
		pages, err = s.gateway.ListPagesUnderAncestor(ctx, spaceKey, rootPageID)
	} else {
		logger.Debug("Loading all pages of space %s", spaceKey)
		pages, err = s.gateway.ListPagesInSpace(ctx, spaceKey)
	}
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	state := NewTreeState(spaceKey, rootPageID, pages)
	logger.Info("Loaded %d pages (%d roots)", len(pages), len(state.Roots))
	return state, nil
}
