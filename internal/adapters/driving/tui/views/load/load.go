// Package load provides the source form that starts a tree load.
package load

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confclone/internal/core/domain"
)

const (
	fieldSpace = "space"
	fieldRoot  = "root"
)

// ErrSpaceRequired is shown when the form is submitted without a space key.
var ErrSpaceRequired = errors.New("source space key is required")

// View asks for the source space and an optional root page id.
type View struct {
	styles *styles.Styles
	form   *input.Form
	err    error
}

// NewView creates the load form.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		form: input.NewForm(s,
			input.NewField(fieldSpace, "Source space key", "e.g. OPS"),
			input.NewField(fieldRoot, "Root page id", "optional, whole space when empty"),
		),
	}
}

// Init returns the form init command.
func (v *View) Init() tea.Cmd {
	return v.form.Init()
}

// ApplySettings fills empty fields from the configured source.
func (v *View) ApplySettings(settings *domain.AppSettings) {
	if settings == nil {
		return
	}
	v.form.SetDefault(fieldSpace, settings.Source.SpaceKey)
	v.form.SetDefault(fieldRoot, settings.Source.RootPageID)
}

// Update handles form input. Submitting emits messages.LoadRequested.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	form, cmd, submitted := v.form.Update(msg)
	v.form = form
	if !submitted {
		return v, cmd
	}

	req := messages.LoadRequested{
		SpaceKey:   v.form.Value(fieldSpace),
		RootPageID: v.form.Value(fieldRoot),
	}
	if req.SpaceKey == "" {
		v.err = ErrSpaceRequired
		return v, nil
	}
	v.err = nil
	return v, func() tea.Msg { return req }
}

// SetErr shows an error under the form, e.g. a failed load.
func (v *View) SetErr(err error) {
	v.err = err
}

// Err returns the error shown under the form.
func (v *View) Err() error {
	return v.err
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("confclone"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Load the pages of a space, or of one page and its descendants."))
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
