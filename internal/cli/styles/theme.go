// Package styles provides reusable lipgloss-based TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/comet/internal/infrastructure/config"
)

// Theme holds lipgloss colors and styles derived from config.
type Theme struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color

	// Pre-built styles
	Title        lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	Tile         lipgloss.Style
	TileSelected lipgloss.Style
	TileFocused  lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Box lipgloss.Style
}

// NewTheme creates a Theme from config. A nil config uses the default palette.
func NewTheme(cfg *config.Config) *Theme {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewThemeFromPalette(cfg.Appearance.Palette)
}

// NewThemeFromPalette creates a Theme from a palette.
func NewThemeFromPalette(p config.Palette) *Theme {
	t := &Theme{
		Text:    lipgloss.Color(p.Text),
		Muted:   lipgloss.Color(p.Muted),
		Accent:  lipgloss.Color(p.Accent),
		Border:  lipgloss.Color(p.Border),
		Error:   lipgloss.Color(p.Error),
		Success: lipgloss.Color(p.Success),
	}
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	t.Normal = lipgloss.NewStyle().Foreground(t.Text)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	t.Highlight = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	t.SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)

	t.ListItem = lipgloss.NewStyle().
		Foreground(t.Text).
		PaddingLeft(2)

	t.ListItemSelected = lipgloss.NewStyle().
		Foreground(t.Accent).
		PaddingLeft(1).
		Bold(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(t.Accent)

	tile := lipgloss.NewStyle().
		Width(18).
		Align(lipgloss.Center).
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	t.Tile = tile.
		Foreground(t.Text).
		BorderForeground(t.Border)

	t.TileSelected = tile.
		Foreground(t.Accent).
		Bold(true).
		BorderForeground(t.Accent)

	t.TileFocused = tile.
		Foreground(t.Text).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(t.Text)

	t.Input = lipgloss.NewStyle().
		Foreground(t.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.InputFocused = t.Input.BorderForeground(t.Accent)

	t.HelpKey = lipgloss.NewStyle().Foreground(t.Accent)
	t.HelpDesc = lipgloss.NewStyle().Foreground(t.Muted)

	t.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2)
}

// EngineColor returns a style for an engine's brand color, falling back to
// the accent color.
func (t *Theme) EngineColor(hex string) lipgloss.Style {
	if hex == "" {
		return t.Highlight
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}
