package domain

import "time"

// PageNode is a node of the page forest.
// ParentID is empty when the page has no ancestors.
type PageNode struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	ParentID string      `json:"parent_id,omitempty"`
	Children []*PageNode `json:"children"`
}

// SelectableNode is the nested shape handed to selection UIs.
type SelectableNode struct {
	Value    string           `json:"value"`
	Label    string           `json:"label"`
	Children []SelectableNode `json:"children"`
}

// Selection is the set of page ids picked for cloning.
type Selection map[string]struct{}

// NewSelection builds a selection from ids, ignoring empty ones.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the selected ids in no particular order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// TreeState is the result of one tree load. It is owned by the caller
// (a CLI invocation, a TUI program or a web session) and replaced on every load.
type TreeState struct {
	SpaceKey   string
	RootPageID string
	PageCount  int
	Roots      []*PageNode
	Index      map[string]*PageNode
	Selectable []SelectableNode
	LoadedAt   time.Time
}

// Node returns the indexed node for id.
func (t *TreeState) Node(id string) (*PageNode, bool) {
	if t == nil || t.Index == nil {
		return nil, false
	}
	n, ok := t.Index[id]
	return n, ok
}
