// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/confclone/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewLoad asks for the source space and optional root page.
	ViewLoad ViewType = iota
	// ViewTree is the checkbox page tree.
	ViewTree
	// ViewTarget asks for the target and substitution.
	ViewTarget
	// ViewProgress streams the outcomes of a clone run.
	ViewProgress
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewLoad:
		return "load"
	case ViewTree:
		return "tree"
	case ViewTarget:
		return "target"
	case ViewProgress:
		return "progress"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// LoadRequested asks the app to load a page tree.
type LoadRequested struct {
	SpaceKey   string
	RootPageID string
}

// TreeLoaded carries the result of a tree load.
type TreeLoaded struct {
	State *domain.TreeState
	Err   error
}

// SelectionConfirmed is sent when the user is done picking pages.
type SelectionConfirmed struct {
	Selection domain.Selection
}

// CloneRequested carries the target form. The app fills in the selection.
type CloneRequested struct {
	Request domain.CloneRequest
}

// OutcomeReported carries one page outcome of a running clone.
type OutcomeReported struct {
	Outcome domain.PageOutcome
}

// CloneFinished signals the end of a clone run.
type CloneFinished struct {
	Report *domain.RunReport
	Err    error
}

// ConfigReloaded is sent when the config file changed on disk.
type ConfigReloaded struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
