package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

func ids(nodes []*domain.PageNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuildForest_Hierarchy(t *testing.T) {
	pages := []domain.Page{
		page("1", "Home"),
		page("2", "Guide", "1"),
		page("3", "Install", "1", "2"),
		page("4", "FAQ", "1"),
		page("5", "Usage", "1", "2"),
	}

	roots := BuildForest(pages)

	require.Len(t, roots, 1)
	root := roots[0]
	assert.Equal(t, "1", root.ID)
	assert.Equal(t, "", root.ParentID)
	assert.Equal(t, []string{"2", "4"}, ids(root.Children))
	assert.Equal(t, []string{"3", "5"}, ids(root.Children[0].Children))
	assert.Equal(t, "2", root.Children[0].Children[0].ParentID)
}

func TestBuildForest_ParentOutsideBatchIsRoot(t *testing.T) {
	pages := []domain.Page{
		page("10", "Orphan A", "1", "9"),
		page("11", "Child of A", "1", "9", "10"),
		page("12", "Orphan B", "1"),
	}

	roots := BuildForest(pages)

	assert.Equal(t, []string{"10", "12"}, ids(roots))
	assert.Equal(t, "9", roots[0].ParentID)
	assert.Equal(t, []string{"11"}, ids(roots[0].Children))
}

func TestBuildForest_ChildBeforeParentInInput(t *testing.T) {
	pages := []domain.Page{
		page("3", "Grandchild", "1", "2"),
		page("2", "Child", "1"),
		page("1", "Root"),
	}

	roots := BuildForest(pages)

	require.Len(t, roots, 1)
	assert.Equal(t, "1", roots[0].ID)
	assert.Equal(t, []string{"2"}, ids(roots[0].Children))
	assert.Equal(t, []string{"3"}, ids(roots[0].Children[0].Children))
}

func TestBuildForest_SkipsRecordsWithoutID(t *testing.T) {
	pages := []domain.Page{page("", "No id"), page("1", "Root")}

	roots := BuildForest(pages)

	assert.Equal(t, []string{"1"}, ids(roots))
}

func TestBuildForest_Empty(t *testing.T) {
	assert.Empty(t, BuildForest(nil))
}

func TestBuildForest_EveryRecordAppearsOnce(t *testing.T) {
	pages := []domain.Page{
		page("a", "A"),
		page("b", "B", "a"),
		page("c", "C", "a", "b"),
		page("d", "D", "x"),
		page("e", "E", "a"),
		page("f", "F", "x", "d"),
	}

	roots := BuildForest(pages)
	index := BuildIndex(roots)

	assert.Len(t, index, len(pages))
	for _, p := range pages {
		node, ok := index[p.ID]
		require.True(t, ok, p.ID)
		_, inBatch := index[node.ParentID]
		isRoot := false
		for _, r := range roots {
			if r.ID == p.ID {
				isRoot = true
			}
		}
		assert.Equal(t, !inBatch, isRoot, "root iff parent absent: %s", p.ID)
	}
}

func TestToSelectableTree(t *testing.T) {
	roots := BuildForest([]domain.Page{
		page("1", "Home"),
		page("2", "Guide", "1"),
	})

	sel := ToSelectableTree(roots[0])

	assert.Equal(t, domain.SelectableNode{
		Value: "1",
		Label: "Home",
		Children: []domain.SelectableNode{
			{Value: "2", Label: "Guide", Children: []domain.SelectableNode{}},
		},
	}, sel)
}

func TestNewTreeState(t *testing.T) {
	state := NewTreeState("SRC", "", []domain.Page{
		page("1", "Home"),
		page("2", "Guide", "1"),
		page("3", "Other"),
	})

	assert.Equal(t, "SRC", state.SpaceKey)
	assert.Equal(t, 3, state.PageCount)
	assert.Len(t, state.Roots, 2)
	assert.Len(t, state.Index, 3)
	assert.Len(t, state.Selectable, 2)
	assert.False(t, state.LoadedAt.IsZero())

	node, ok := state.Node("2")
	require.True(t, ok)
	assert.Equal(t, "Guide", node.Title)
}

func TestTreeService_Load_WholeSpace(t *testing.T) {
	gw := newMockGateway(page("1", "Home"), page("2", "Guide", "1"))
	svc := NewTreeService(gw)

	state, err := svc.Load(context.Background(), " SRC ", "")

	require.NoError(t, err)
	assert.Equal(t, "SRC", state.SpaceKey)
	assert.Len(t, gw.callsOf("list"), 1)
	assert.Empty(t, gw.callsOf("list-ancestor"))
	assert.Len(t, state.Index, 2)
}

func TestTreeService_Load_UnderAncestor(t *testing.T) {
	gw := newMockGateway(page("2", "Guide", "1"), page("1", "Home"))
	svc := NewTreeService(gw)

	state, err := svc.Load(context.Background(), "SRC", "1")

	require.NoError(t, err)
	calls := gw.callsOf("list-ancestor")
	require.Len(t, calls, 1)
	assert.Equal(t, "1", calls[0].PageID)
	assert.Equal(t, "1", state.RootPageID)
	assert.Equal(t, []string{"1"}, ids(state.Roots))
}

func TestTreeService_Load_RequiresSpace(t *testing.T) {
	svc := NewTreeService(newMockGateway())

	_, err := svc.Load(context.Background(), "  ", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTreeService_Load_GatewayError(t *testing.T) {
	gw := newMockGateway()
	gw.listErr = errBoom
	svc := NewTreeService(gw)

	_, err := svc.Load(context.Background(), "SRC", "")

	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "list pages")
}
