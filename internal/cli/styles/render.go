package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/domain/entity"
)

// Renderer renders one-shot command output with styled text.
type Renderer struct {
	theme *Theme
}

// NewRenderer creates a new renderer with the given theme.
func NewRenderer(theme *Theme) *Renderer {
	return &Renderer{theme: theme}
}

// RenderSuccess renders a confirmation line.
func (r *Renderer) RenderSuccess(msg string) string {
	icon := lipgloss.NewStyle().Foreground(r.theme.Success).Render(IconCheck)
	return fmt.Sprintf("  %s %s", icon, msg)
}

// RenderError renders an error line.
func (r *Renderer) RenderError(err error) string {
	icon := lipgloss.NewStyle().Foreground(r.theme.Error).Render(IconX)
	return fmt.Sprintf("  %s %s", icon, r.theme.ErrorStyle.Render(err.Error()))
}

// RenderInfo renders a muted hint line.
func (r *Renderer) RenderInfo(msg string) string {
	icon := lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconInfo)
	return fmt.Sprintf("  %s %s", icon, r.theme.Subtle.Render(msg))
}

// RenderConfigPath renders the config and schema locations.
func (r *Renderer) RenderConfigPath(configFile, schemaFile string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	return fmt.Sprintf(
		"\n  %s Config %s\n  %s Schema %s\n",
		iconStyle.Render(IconConfig),
		r.theme.Subtle.Render(configFile),
		iconStyle.Render(IconInfo),
		r.theme.Subtle.Render(schemaFile),
	)
}

// RenderSettings renders the current settings as aligned rows.
func (r *Renderer) RenderSettings(s entity.Settings, engineName string) string {
	keyStyle := r.theme.Subtle.Width(18)
	valStyle := r.theme.Highlight

	rows := []struct{ key, value string }{
		{entity.SettingSearchEngine, fmt.Sprintf("%s (%s)", s.SearchEngine, engineName)},
		{entity.SettingShowSuggestions, r.checkbox(s.ShowSuggestions)},
		{entity.SettingOpenInNewTab, r.checkbox(s.OpenInNewTab)},
		{entity.SettingMaxSuggestions, fmt.Sprintf("%d", s.MaxSuggestions)},
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(row.key), valStyle.Render(row.value)))
	}
	return sb.String()
}

func (r *Renderer) checkbox(on bool) string {
	if on {
		return IconCheckboxChecked + " on"
	}
	return IconCheckboxEmpty + " off"
}

// RenderEngines renders the engine table with the selected engine marked.
func (r *Renderer) RenderEngines(views []usecase.EngineView) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, v := range views {
		marker := "  "
		if v.Selected {
			marker = r.theme.Highlight.Render(IconCursor) + " "
		}
		name := r.theme.EngineColor(v.Config.Color).Width(12).Render(v.Config.Name)
		sb.WriteString(fmt.Sprintf("  %s%s %s %s\n",
			marker,
			v.Config.Icon,
			name,
			r.theme.Subtle.Render(string(v.Key)),
		))
	}
	return sb.String()
}

// RenderSearch renders where a dispatched search went.
func (r *Renderer) RenderSearch(out *usecase.DispatchSearchOutput) string {
	if out.Disposition == usecase.DispositionNoop {
		return r.RenderInfo("Nothing to search")
	}
	return r.RenderSuccess(fmt.Sprintf("%s %s",
		r.theme.Normal.Render(out.URL),
		r.theme.Subtle.Render("("+string(out.Disposition)+")"),
	))
}
