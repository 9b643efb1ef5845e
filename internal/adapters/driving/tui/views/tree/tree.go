// Package tree provides the checkbox page tree view for the TUI.
//
// Selecting a page never selects or clears its children: a selected page
// under an unselected parent is cloned under its nearest selected ancestor.
package tree

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confclone/internal/core/domain"
)

// row is one visible line of the tree.
type row struct {
	node  *domain.PageNode
	depth int
}

// View is the page selection view.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    *domain.TreeState
	selected domain.Selection
	expanded map[string]bool
	rows     []row
	cursor   int
	offset   int
	width    int
	height   int
	err      error
}

// NewView creates an empty tree view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		selected: domain.NewSelection(),
		expanded: make(map[string]bool),
		width:    80,
		height:   24,
	}
}

// SetState replaces the tree. Selection is cleared and roots are expanded.
func (v *View) SetState(state *domain.TreeState) {
	v.state = state
	v.selected = domain.NewSelection()
	v.expanded = make(map[string]bool)
	v.cursor = 0
	v.offset = 0
	v.err = nil
	if state != nil {
		for _, r := range state.Roots {
			v.expanded[r.ID] = true
		}
	}
	v.rebuild()
}

// rebuild recomputes the visible rows in pre-order.
func (v *View) rebuild() {
	v.rows = v.rows[:0]
	if v.state == nil {
		return
	}
	var walk func(nodes []*domain.PageNode, depth int)
	walk = func(nodes []*domain.PageNode, depth int) {
		for _, n := range nodes {
			v.rows = append(v.rows, row{node: n, depth: depth})
			if v.expanded[n.ID] {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(v.state.Roots, 0)

	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Update handles key messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	k := keyMsg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewLoad} }
	case keymap.Matches(k, v.keymap.Clone):
		if len(v.selected) == 0 {
			v.err = domain.ErrEmptySelection
			return v, nil
		}
		sel := domain.NewSelection(v.selected.IDs()...)
		return v, func() tea.Msg { return messages.SelectionConfirmed{Selection: sel} }
	case keymap.Matches(k, v.keymap.SelectAll):
		if v.state != nil {
			for id := range v.state.Index {
				v.selected[id] = struct{}{}
			}
		}
	case keymap.Matches(k, v.keymap.SelectNone):
		v.selected = domain.NewSelection()
	}

	if len(v.rows) == 0 {
		return v, nil
	}
	current := v.rows[v.cursor].node

	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case keymap.Matches(k, v.keymap.Toggle):
		v.err = nil
		if v.selected.Has(current.ID) {
			delete(v.selected, current.ID)
		} else {
			v.selected[current.ID] = struct{}{}
		}
	case keymap.Matches(k, v.keymap.Expand):
		if len(current.Children) > 0 {
			v.expanded[current.ID] = true
			v.rebuild()
		}
	case k == "enter":
		if len(current.Children) > 0 {
			v.expanded[current.ID] = !v.expanded[current.ID]
			v.rebuild()
		}
	case keymap.Matches(k, v.keymap.Collapse):
		if v.expanded[current.ID] {
			v.expanded[current.ID] = false
			v.rebuild()
		} else {
			v.moveToParent(current)
		}
	}

	v.scroll()
	return v, nil
}

func (v *View) moveToParent(n *domain.PageNode) {
	if n.ParentID == "" {
		return
	}
	for i, r := range v.rows {
		if r.node.ID == n.ParentID {
			v.cursor = i
			return
		}
	}
}

// visibleRows is the number of tree lines that fit the screen.
func (v *View) visibleRows() int {
	n := v.height - 6
	if n < 3 {
		n = 3
	}
	return n
}

func (v *View) scroll() {
	h := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+h {
		v.offset = v.cursor - h + 1
	}
}

// View renders the tree.
func (v *View) View() string {
	var b strings.Builder

	if v.state == nil {
		b.WriteString(v.styles.Muted.Render("No page tree loaded."))
		return b.String()
	}

	header := fmt.Sprintf("%s  %d pages, %d selected", v.state.SpaceKey, v.state.PageCount, len(v.selected))
	b.WriteString(v.styles.Title.Render(header))
	b.WriteString("\n\n")

	if len(v.rows) == 0 {
		b.WriteString(v.styles.Muted.Render("The space has no pages."))
		b.WriteString("\n")
	}

	end := v.offset + v.visibleRows()
	if end > len(v.rows) {
		end = len(v.rows)
	}
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(i))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderRow(i int) string {
	r := v.rows[i]

	marker := "  "
	if len(r.node.Children) > 0 {
		marker = "▸ "
		if v.expanded[r.node.ID] {
			marker = "▾ "
		}
	}

	box := "[ ]"
	if v.selected.Has(r.node.ID) {
		box = v.styles.Checked.Render("[x]")
	}

	label := r.node.Title
	if i == v.cursor {
		label = v.styles.Cursor.Render(label)
	} else {
		label = v.styles.Normal.Render(label)
	}

	cursor := "  "
	if i == v.cursor {
		cursor = v.styles.Cursor.Render("> ")
	}

	return cursor + strings.Repeat("  ", r.depth) + marker + box + " " + label +
		v.styles.Muted.Render(" ("+r.node.ID+")")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scroll()
}

// Selection returns a copy of the selected ids.
func (v *View) Selection() domain.Selection {
	return domain.NewSelection(v.selected.IDs()...)
}

// Cursor returns the id of the page under the cursor.
func (v *View) Cursor() string {
	if v.cursor < len(v.rows) {
		return v.rows[v.cursor].node.ID
	}
	return ""
}

// Err returns the last validation error.
func (v *View) Err() error {
	return v.err
}
