package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// queryCharLimit bounds what a user can type into a search box.
const queryCharLimit = 512

// NewSearchInput creates the popup's query input. The placeholder names the
// engine the query will go to.
func NewSearchInput(theme *Theme, engineName string) textinput.Model {
	placeholder := "Search..."
	if engineName != "" {
		placeholder = "Search " + engineName + "..."
	}

	accent := lipgloss.NewStyle().Foreground(theme.Accent)

	ti := textinput.New()
	ti.Prompt = IconSearch + " "
	ti.PromptStyle = accent
	ti.Cursor.Style = accent
	ti.Placeholder = placeholder
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)
	ti.CharLimit = queryCharLimit
	return ti
}

// InputBox frames a rendered input, using the accent border while it has focus.
func (t *Theme) InputBox(input string, focused bool) string {
	if focused {
		return t.InputFocused.Render(input)
	}
	return t.Input.Render(input)
}
