package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/cli/styles"
	"github.com/bnema/comet/internal/domain/entity"
	"github.com/bnema/comet/internal/logging"
)

// ShortcutsURL is the browser page where the popup shortcut is configured.
const ShortcutsURL = "chrome://extensions/shortcuts"

const (
	savedStatus      = "Settings saved"
	statusVisibleFor = 2 * time.Second
)

// optionsRow identifies a focusable row of the options screen.
type optionsRow int

const (
	rowEngine optionsRow = iota
	rowShowSuggestions
	rowOpenInNewTab
	rowMaxSuggestions
	rowShortcuts
	rowCount
)

// SettingsStore reads and writes settings. *usecase.ManageSettingsUseCase
// satisfies it.
type SettingsStore interface {
	Get(ctx context.Context) entity.Settings
	Update(ctx context.Context, patch entity.SettingsPatch) (entity.Settings, error)
}

// EngineLister lists engines in display order.
// *usecase.ListEnginesUseCase satisfies it.
type EngineLister interface {
	List(ctx context.Context) []usecase.EngineView
}

// OptionsModel is the Bubble Tea model for the options screen. Every change
// is persisted as soon as it is made.
type OptionsModel struct {
	// UI components
	help help.Model
	keys styles.OptionsKeyMap

	// State
	settings     entity.Settings
	engines      []usecase.EngineView
	loaded       bool
	row          optionsRow
	engineCursor int
	status       string
	statusGen    int
	showHelp     bool
	width        int
	err          error

	// Dependencies
	ctx      context.Context
	store    SettingsStore
	lister   EngineLister
	theme    *styles.Theme
	hideTick func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

// NewOptionsModel creates a new options model.
func NewOptionsModel(ctx context.Context, theme *styles.Theme, store SettingsStore, lister EngineLister) OptionsModel {
	logging.FromContext(ctx).Debug().Msg("creating options model")

	return OptionsModel{
		help:     styles.NewStyledHelp(theme),
		keys:     styles.DefaultOptionsKeyMap(),
		width:    80,
		ctx:      ctx,
		store:    store,
		lister:   lister,
		theme:    theme,
		hideTick: tea.Tick,
	}
}

// Settings returns the settings as currently shown.
func (m OptionsModel) Settings() entity.Settings { return m.settings }

// Status returns the transient status line.
func (m OptionsModel) Status() string { return m.status }

// optionsLoadedMsg is sent when settings and engines are loaded.
type optionsLoadedMsg struct {
	settings entity.Settings
	engines  []usecase.EngineView
}

// settingsSavedMsg is sent when a settings write completes.
type settingsSavedMsg struct {
	settings entity.Settings
	err      error
}

// hideStatusMsg clears the status line if no newer status replaced it.
type hideStatusMsg struct {
	gen int
}

// Init implements tea.Model.
func (m OptionsModel) Init() tea.Cmd {
	return m.load
}

// load reads the stored settings and the engine table.
func (m OptionsModel) load() tea.Msg {
	return optionsLoadedMsg{
		settings: m.store.Get(m.ctx),
		engines:  m.lister.List(m.ctx),
	}
}

// Update implements tea.Model.
func (m OptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case optionsLoadedMsg:
		m.settings = msg.settings
		m.engines = msg.engines
		m.loaded = true
		for i, e := range m.engines {
			if e.Selected {
				m.engineCursor = i
			}
		}
		return m, nil

	case settingsSavedMsg:
		return m.handleSaved(msg)

	case hideStatusMsg:
		if msg.gen == m.statusGen {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

func (m OptionsModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}
	if !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.row = (m.row + rowCount - 1) % rowCount
	case key.Matches(msg, m.keys.Down):
		m.row = (m.row + 1) % rowCount
	case key.Matches(msg, m.keys.Left):
		return m.step(-1)
	case key.Matches(msg, m.keys.Right):
		return m.step(1)
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	}
	return m, nil
}

// step moves within the focused row: across engine tiles, or through the
// max suggestion choices.
func (m OptionsModel) step(delta int) (tea.Model, tea.Cmd) {
	switch m.row {
	case rowEngine:
		if n := len(m.engines); n > 0 {
			m.engineCursor = (m.engineCursor + delta + n) % n
		}
		return m, nil
	case rowMaxSuggestions:
		next := entity.NextMaxSuggestionChoice(m.settings.MaxSuggestions)
		if delta < 0 {
			next = entity.PrevMaxSuggestionChoice(m.settings.MaxSuggestions)
		}
		return m, m.save(entity.SettingsPatch{MaxSuggestions: &next})
	}
	return m, nil
}

// toggle activates the focused row.
func (m OptionsModel) toggle() (tea.Model, tea.Cmd) {
	switch m.row {
	case rowEngine:
		if m.engineCursor >= len(m.engines) {
			return m, nil
		}
		k := string(m.engines[m.engineCursor].Key)
		if k == m.settings.SearchEngine {
			return m, nil
		}
		return m, m.save(entity.SettingsPatch{SearchEngine: &k})
	case rowShowSuggestions:
		v := !m.settings.ShowSuggestions
		return m, m.save(entity.SettingsPatch{ShowSuggestions: &v})
	case rowOpenInNewTab:
		v := !m.settings.OpenInNewTab
		return m, m.save(entity.SettingsPatch{OpenInNewTab: &v})
	case rowMaxSuggestions:
		return m.step(1)
	case rowShortcuts:
		m.statusGen++
		m.status = "Open " + ShortcutsURL + " in the browser to change the shortcut"
		return m, m.hideStatusAfter(m.statusGen)
	}
	return m, nil
}

// save persists a single changed setting.
func (m OptionsModel) save(patch entity.SettingsPatch) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Debug().Strs("fields", patch.Fields()).Msg("saving settings from options")

		settings, err := m.store.Update(m.ctx, patch)
		if err != nil {
			log.Error().Err(err).Msg("failed to save settings")
		}
		return settingsSavedMsg{settings: settings, err: err}
	}
}

func (m OptionsModel) handleSaved(msg settingsSavedMsg) (tea.Model, tea.Cmd) {
	m.settings = msg.settings
	for i := range m.engines {
		m.engines[i].Selected = string(m.engines[i].Key) == m.settings.SearchEngine
	}

	m.statusGen++
	if msg.err != nil {
		m.err = msg.err
		m.status = ""
		return m, nil
	}
	m.err = nil
	m.status = savedStatus
	return m, m.hideStatusAfter(m.statusGen)
}

func (m OptionsModel) hideStatusAfter(gen int) tea.Cmd {
	return m.hideTick(statusVisibleFor, func(time.Time) tea.Msg {
		return hideStatusMsg{gen: gen}
	})
}

// View implements tea.Model.
func (m OptionsModel) View() string {
	t := m.theme

	if !m.loaded {
		return t.Subtle.Render("Loading settings...")
	}

	parts := []string{
		t.Title.Render(styles.IconGear + " Comet settings"),
		"",
		m.label(rowEngine, "Search engine"),
		m.renderEngines(),
		"",
		m.renderToggle(rowShowSuggestions, "Show suggestions", m.settings.ShowSuggestions),
		m.renderToggle(rowOpenInNewTab, "Open results in a new tab", m.settings.OpenInNewTab),
		m.renderMaxSuggestions(),
		m.label(rowShortcuts, styles.IconKey+" Keyboard shortcut: ") + t.Subtle.Render(ShortcutsURL),
		"",
	}

	switch {
	case m.err != nil:
		parts = append(parts, t.ErrorStyle.Render(styles.IconX+" "+m.err.Error()))
	case m.status != "":
		parts = append(parts, t.SuccessStyle.Render(styles.IconCheck+" "+m.status))
	default:
		parts = append(parts, "")
	}

	if m.showHelp {
		parts = append(parts, m.help.View(m.keys))
	} else {
		parts = append(parts, t.Subtle.Render("? for help • q to quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// label renders a row title with a cursor when the row is focused.
func (m OptionsModel) label(row optionsRow, text string) string {
	if row == m.row {
		return m.theme.Highlight.Render(styles.IconCursor + " " + text)
	}
	return m.theme.Normal.Render("  " + text)
}

func (m OptionsModel) renderEngines() string {
	tiles := make([]string, 0, len(m.engines))
	for i, e := range m.engines {
		focused := m.row == rowEngine && i == m.engineCursor
		tiles = append(tiles, m.tileStyle(e, focused).Render(tileLabel(e)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// tileStyle picks the frame for an engine tile. The selected engine is drawn
// in its own color.
func (m OptionsModel) tileStyle(e usecase.EngineView, focused bool) lipgloss.Style {
	t := m.theme
	switch {
	case e.Selected:
		style := t.TileSelected
		if e.Config.Color != "" {
			c := lipgloss.Color(e.Config.Color)
			style = style.Foreground(c).BorderForeground(c)
		}
		if focused {
			style = style.BorderStyle(lipgloss.DoubleBorder())
		}
		return style
	case focused:
		return t.TileFocused
	default:
		return t.Tile
	}
}

func tileLabel(e usecase.EngineView) string {
	label := e.Config.Name
	if e.Config.Icon != "" {
		label = e.Config.Icon + " " + label
	}
	if e.Selected {
		label = styles.IconCheck + " " + label
	}
	return label
}

func (m OptionsModel) renderToggle(row optionsRow, text string, on bool) string {
	box := styles.IconCheckboxEmpty
	if on {
		box = styles.IconCheckboxChecked
	}
	return m.label(row, box+" "+text)
}

func (m OptionsModel) renderMaxSuggestions() string {
	choices := make([]string, 0, len(entity.MaxSuggestionChoices))
	for _, c := range entity.MaxSuggestionChoices {
		s := fmt.Sprintf(" %d ", c)
		if c == m.settings.MaxSuggestions {
			s = m.theme.Highlight.Render("[" + strings.TrimSpace(s) + "]")
		} else {
			s = m.theme.Subtle.Render(s)
		}
		choices = append(choices, s)
	}
	return m.label(rowMaxSuggestions, "Max suggestions ") + strings.Join(choices, "")
}

var _ tea.Model = OptionsModel{}
