// Package input provides labelled text inputs and a simple form for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/styles"
)

// Field is a labelled single-line input.
type Field struct {
	Key       string
	Label     string
	textinput textinput.Model
}

// NewField creates an unfocused field.
func NewField(key, label, placeholder string) *Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	// A static cursor keeps the form from scheduling blink ticks.
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &Field{Key: key, Label: label, textinput: ti}
}

// Value returns the trimmed input value.
func (f *Field) Value() string {
	return strings.TrimSpace(f.textinput.Value())
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Form is a vertical list of fields with one focused at a time.
// Enter on the last field submits.
type Form struct {
	styles *styles.Styles
	fields []*Field
	focus  int
	width  int
}

// NewForm creates a form and focuses the first field.
func NewForm(s *styles.Styles, fields ...*Field) *Form {
	if s == nil {
		s = styles.DefaultStyles()
	}
	f := &Form{styles: s, fields: fields, width: 80}
	if len(fields) > 0 {
		fields[0].textinput.Focus()
	}
	return f
}

// Init implements the bubbletea init hook. The form needs no startup command.
func (f *Form) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and forwards the rest to the focused field.
// submitted is true when enter was pressed on the last field.
func (f *Form) Update(msg tea.Msg) (form *Form, cmd tea.Cmd, submitted bool) {
	if len(f.fields) == 0 {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			return f, f.setFocus(f.focus + 1), false
		case "shift+tab", "up":
			return f, f.setFocus(f.focus - 1), false
		case "enter":
			if f.focus == len(f.fields)-1 {
				return f, nil, true
			}
			return f, f.setFocus(f.focus + 1), false
		}
	}

	field := f.fields[f.focus]
	field.textinput, cmd = field.textinput.Update(msg)
	return f, cmd, false
}

func (f *Form) setFocus(i int) tea.Cmd {
	n := len(f.fields)
	i = ((i % n) + n) % n
	f.fields[f.focus].textinput.Blur()
	f.focus = i
	return f.fields[i].textinput.Focus()
}

// View renders one row per field.
func (f *Form) View() string {
	rows := make([]string, 0, len(f.fields))
	for i, field := range f.fields {
		box := f.styles.InputField
		cursor := "  "
		if i == f.focus {
			box = f.styles.FocusedField
			cursor = f.styles.Cursor.Render("> ")
		}
		//nolint:misspell // lipgloss.Center is the correct constant from the library
		row := lipgloss.JoinHorizontal(lipgloss.Center,
			cursor, f.styles.Label.Render(field.Label), box.Render(field.textinput.View()))
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Values returns the field values by key.
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		values[field.Key] = field.Value()
	}
	return values
}

// Value returns the value of the field with key.
func (f *Form) Value(key string) string {
	for _, field := range f.fields {
		if field.Key == key {
			return field.Value()
		}
	}
	return ""
}

// SetDefault fills the field with key when it is still empty.
func (f *Form) SetDefault(key, value string) {
	for _, field := range f.fields {
		if field.Key == key && field.Value() == "" {
			field.SetValue(value)
		}
	}
}

// Focused returns the index of the focused field.
func (f *Form) Focused() int {
	return f.focus
}

// SetWidth sets the width of the inputs.
func (f *Form) SetWidth(width int) {
	f.width = width
	inputWidth := width - 32
	if inputWidth < 20 {
		inputWidth = 20
	}
	for _, field := range f.fields {
		field.textinput.Width = inputWidth
	}
}
