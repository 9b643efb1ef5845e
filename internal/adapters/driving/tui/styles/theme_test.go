package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEqual(t, theme.Success, theme.Error)
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("confclone"), "confclone")
	assert.Contains(t, s.Checked.Render("[x]"), "[x]")
	assert.Contains(t, s.FocusedField.Render("OPS"), "OPS")
}
