// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/comet/internal/cli/styles"
	"github.com/bnema/comet/internal/domain/popup"
	"github.com/bnema/comet/internal/infrastructure/messaging"
	"github.com/bnema/comet/internal/logging"
)

// suggestionRowOffset is the screen row of the first suggestion: one status
// line plus the three lines of the bordered input box.
const suggestionRowOffset = 4

// MessageSender sends a protocol request and decodes the reply.
// *messaging.MessageRouter satisfies it.
type MessageSender interface {
	Send(ctx context.Context, request any, response any) error
}

// PopupOptions configures the popup model.
type PopupOptions struct {
	EngineName  string
	EngineColor string
	Debounce    time.Duration
}

// PopupModel is the Bubble Tea model for the search popup.
type PopupModel struct {
	// UI components
	input textinput.Model
	help  help.Model
	keys  styles.PopupKeyMap

	// State
	state       *popup.State
	debouncer   *Debouncer
	engineName  string
	engineColor string
	searching   bool
	done        bool
	openOptions bool
	width       int
	err         error

	// Dependencies
	ctx    context.Context
	sender MessageSender
	theme  *styles.Theme
}

// NewPopupModel creates a new popup model.
func NewPopupModel(ctx context.Context, theme *styles.Theme, sender MessageSender, opts PopupOptions) PopupModel {
	logging.FromContext(ctx).Debug().Str("engine", opts.EngineName).Msg("creating popup model")

	input := styles.NewSearchInput(theme, opts.EngineName)
	input.Focus()

	return PopupModel{
		input:       input,
		help:        styles.NewStyledHelp(theme),
		keys:        styles.DefaultPopupKeyMap(),
		state:       popup.New(),
		debouncer:   NewDebouncer(opts.Debounce),
		engineName:  opts.EngineName,
		engineColor: opts.EngineColor,
		width:       80,
		ctx:         ctx,
		sender:      sender,
		theme:       theme,
	}
}

// OpenOptions reports whether the user asked for the options screen.
func (m PopupModel) OpenOptions() bool { return m.openOptions }

// Done reports whether a search was dispatched successfully.
func (m PopupModel) Done() bool { return m.done }

// Err returns the last search error, if any.
func (m PopupModel) Err() error { return m.err }

// suggestionsMsg carries the result of a suggestion fetch.
type suggestionsMsg struct {
	query       string
	suggestions []string
}

// searchDoneMsg is sent when a search request completes.
type searchDoneMsg struct {
	err error
}

// Init implements tea.Model.
func (m PopupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m PopupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case debounceFiredMsg:
		if !m.debouncer.fired(msg) {
			return m, nil
		}
		return m, m.fetchSuggestions(msg.query)

	case suggestionsMsg:
		m.state.ApplySuggestions(msg.query, msg.suggestions)
		return m, nil

	case searchDoneMsg:
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m PopupModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Settings):
		return m.apply(m.state.OpenSettings())
	case key.Matches(msg, m.keys.Clear):
		m.debouncer.Cancel()
		m.input.SetValue("")
		return m.apply(m.state.Clear())
	case key.Matches(msg, m.keys.Search):
		return m.apply(m.state.Key(popup.KeyEnter))
	case key.Matches(msg, m.keys.Escape):
		return m.apply(m.state.Key(popup.KeyEscape))
	case key.Matches(msg, m.keys.Complete):
		m.state.Key(popup.KeyTab)
		m.syncInput()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.state.Key(popup.KeyArrowUp)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.state.Key(popup.KeyArrowDown)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.err = nil
	updated, effectCmd := m.apply(m.state.Input(m.input.Value()))
	return updated, tea.Batch(cmd, effectCmd)
}

func (m PopupModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.state.SuggestionsVisible() {
		return m, nil
	}
	row := msg.Y - suggestionRowOffset

	switch msg.Action {
	case tea.MouseActionMotion:
		m.state.Hover(row)
		return m, nil
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.apply(m.state.Click(row))
	}
	return m, nil
}

// apply performs the side effect requested by a state transition.
func (m PopupModel) apply(eff popup.Effect) (PopupModel, tea.Cmd) {
	switch eff.Kind {
	case popup.EffectScheduleFetch:
		return m, m.debouncer.Schedule(eff.Query)
	case popup.EffectCancelFetch:
		m.debouncer.Cancel()
		return m, nil
	case popup.EffectSearch:
		m.debouncer.Cancel()
		m.syncInput()
		m.searching = true
		return m, m.search(eff.Query)
	case popup.EffectClose:
		m.debouncer.Cancel()
		return m, tea.Quit
	case popup.EffectOpenOptions:
		m.debouncer.Cancel()
		m.openOptions = true
		return m, tea.Quit
	case popup.EffectFocus:
		m.state.Focus()
		return m, m.input.Focus()
	}
	return m, nil
}

// syncInput copies the state's query into the input when they differ.
func (m *PopupModel) syncInput() {
	if m.input.Value() != m.state.Query() {
		m.input.SetValue(m.state.Query())
		m.input.CursorEnd()
	}
}

// fetchSuggestions asks the router for suggestions for query.
func (m PopupModel) fetchSuggestions(query string) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)

		var resp messaging.SuggestionsResponse
		err := m.sender.Send(m.ctx, messaging.SuggestionsRequest{
			Action: messaging.ActionGetSuggestions,
			Query:  query,
		}, &resp)
		if err != nil {
			log.Debug().Err(err).Str("query", query).Msg("suggestion request failed")
			return suggestionsMsg{query: query}
		}
		if resp.Error != "" {
			log.Debug().Str("error", resp.Error).Msg("suggestion fetch reported an error")
		}

		list := make([]string, 0, len(resp.Suggestions))
		for _, s := range resp.Suggestions {
			if clean := sanitize(s); strings.TrimSpace(clean) != "" {
				list = append(list, clean)
			}
		}
		return suggestionsMsg{query: query, suggestions: list}
	}
}

// search dispatches query in the current tab.
func (m PopupModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Debug().Str("query", query).Msg("dispatching search from popup")

		inNewTab := false
		var resp messaging.SearchResponse
		err := m.sender.Send(m.ctx, messaging.SearchRequest{
			Action:       messaging.ActionSearch,
			Query:        query,
			OpenInNewTab: &inNewTab,
		}, &resp)
		if err != nil {
			return searchDoneMsg{err: fmt.Errorf("search: %w", err)}
		}
		if !resp.Success {
			msg := resp.Error
			if msg == "" {
				msg = "search failed"
			}
			return searchDoneMsg{err: errors.New(msg)}
		}
		return searchDoneMsg{}
	}
}

// View implements tea.Model.
func (m PopupModel) View() string {
	t := m.theme

	status := t.Title.Render("Comet") + t.Subtle.Render(" · ") +
		t.EngineColor(m.engineColor).Render(m.engineName)
	switch {
	case m.searching:
		status += t.Subtle.Render("  searching...")
	case m.state.ClearVisible():
		status += t.Subtle.Render("  ctrl+l clear")
	}

	inputView := t.InputBox(m.input.View(), m.input.Focused())

	parts := []string{status, inputView}

	if m.state.SuggestionsVisible() {
		selected := m.state.Selected()
		rows := make([]string, 0, len(m.state.Suggestions()))
		for i, s := range m.state.Suggestions() {
			if i == selected {
				rows = append(rows, t.ListItemSelected.Render(s))
			} else {
				rows = append(rows, t.ListItem.Render(s))
			}
		}
		parts = append(parts, strings.Join(rows, "\n"))
	}

	if m.err != nil {
		parts = append(parts, t.ErrorStyle.Render("Error: "+m.err.Error()))
	}

	parts = append(parts, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

var _ tea.Model = PopupModel{}
