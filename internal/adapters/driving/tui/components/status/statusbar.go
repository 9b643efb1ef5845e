// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateCloning State = "cloning"
	StateDone    State = "done"
	StateError   State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	bindings []key.Binding
	state    State
	message  string
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		bindings: km.ShortHelp(),
		state:    StateReady,
		width:    80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render(s.messageOr("Loading pages..."))
	case StateCloning:
		return s.styles.Warning.Render(s.messageOr("Cloning..."))
	case StateDone:
		return s.styles.Success.Render(s.messageOr("Done"))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	}
	return s.styles.Muted.Render(s.messageOr("Ready"))
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func (s *Bar) messageOr(fallback string) string {
	if s.message != "" {
		return s.message
	}
	return fallback
}

// SetState sets the state and message shown on the left.
func (s *Bar) SetState(state State, message string) {
	s.state = state
	s.message = message
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetBindings replaces the keybinding hints. Nil restores the short help.
func (s *Bar) SetBindings(bindings []key.Binding) {
	if bindings == nil {
		bindings = s.keymap.ShortHelp()
	}
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
