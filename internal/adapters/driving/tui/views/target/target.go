// Package target provides the form collecting the clone destination.
package target

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confclone/internal/core/domain"
)

const (
	fieldSpace       = "target_space"
	fieldParent      = "target_parent"
	fieldPattern     = "pattern"
	fieldReplacement = "replacement"
)

// ErrTargetRequired is shown when the target space or parent is missing.
var ErrTargetRequired = errors.New("target space and target parent page id are required")

// View asks for the target space, parent page and substitution.
type View struct {
	styles   *styles.Styles
	form     *input.Form
	selected int
	err      error
}

// NewView creates the target form.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		form: input.NewForm(s,
			input.NewField(fieldSpace, "Target space key", "e.g. DOCS"),
			input.NewField(fieldParent, "Target parent page id", "e.g. 2000"),
			input.NewField(fieldPattern, "Find (regex)", "optional"),
			input.NewField(fieldReplacement, "Replace with", `groups as \1 or \g<1>`),
		),
	}
}

// Init returns the form init command.
func (v *View) Init() tea.Cmd {
	return v.form.Init()
}

// ApplySettings fills empty fields from the configured target and substitution.
func (v *View) ApplySettings(settings *domain.AppSettings) {
	if settings == nil {
		return
	}
	v.form.SetDefault(fieldSpace, settings.Target.SpaceKey)
	v.form.SetDefault(fieldParent, settings.Target.ParentPageID)
	v.form.SetDefault(fieldPattern, settings.Substitution.Pattern)
	v.form.SetDefault(fieldReplacement, settings.Substitution.Replacement)
}

// SetSelectedCount sets the page count shown in the header.
func (v *View) SetSelectedCount(n int) {
	v.selected = n
}

// Update handles form input. Esc returns to the tree; submitting emits
// messages.CloneRequested without a selection.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewTree} }
	}

	form, cmd, submitted := v.form.Update(msg)
	v.form = form
	if !submitted {
		return v, cmd
	}

	req := domain.CloneRequest{
		TargetSpace:    v.form.Value(fieldSpace),
		TargetParentID: v.form.Value(fieldParent),
		Pattern:        v.form.Value(fieldPattern),
		Replacement:    v.form.Value(fieldReplacement),
	}
	if req.TargetSpace == "" || req.TargetParentID == "" {
		v.err = ErrTargetRequired
		return v, nil
	}
	v.err = nil
	return v, func() tea.Msg { return messages.CloneRequested{Request: req} }
}

// Err returns the validation error shown under the form.
func (v *View) Err() error {
	return v.err
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Clone %d pages", v.selected)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("The find pattern is applied to titles and bodies."))
	b.WriteString("\n\n")
	b.WriteString(v.form.View())
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.form.SetWidth(width)
}
