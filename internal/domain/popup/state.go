// Package popup holds the input and selection state of the popup search box,
// independent of any rendering toolkit.
package popup

import "strings"

// NoSelection is the selected index when no suggestion is highlighted.
const NoSelection = -1

// Key is a navigation key understood by the popup.
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
	KeyTab       Key = "Tab"
)

// EffectKind tells the host what to do after a transition.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectScheduleFetch restarts the debounce timer for Effect.Query.
	EffectScheduleFetch
	// EffectCancelFetch drops any pending debounce timer.
	EffectCancelFetch
	// EffectSearch dispatches Effect.Query, already trimmed and non-empty.
	EffectSearch
	EffectClose
	EffectOpenOptions
	// EffectFocus returns focus to the input box.
	EffectFocus
)

func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectScheduleFetch:
		return "schedule_fetch"
	case EffectCancelFetch:
		return "cancel_fetch"
	case EffectSearch:
		return "search"
	case EffectClose:
		return "close"
	case EffectOpenOptions:
		return "open_options"
	case EffectFocus:
		return "focus"
	default:
		return "unknown"
	}
}

// Effect is the side effect requested by a transition.
type Effect struct {
	Kind  EffectKind
	Query string
}

var none = Effect{Kind: EffectNone}

// State is the popup model. The zero value is not ready; use New.
type State struct {
	query        string
	suggestions  []string
	selected     int
	visible      bool
	clearVisible bool
	closed       bool
}

// New returns an empty popup with nothing selected.
func New() *State {
	return &State{selected: NoSelection}
}

// Query returns the current input text.
func (s *State) Query() string { return s.query }

// Suggestions returns a copy of the current suggestion list.
func (s *State) Suggestions() []string {
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Selected returns the highlighted index, or NoSelection.
func (s *State) Selected() int { return s.selected }

// SuggestionsVisible reports whether the suggestion list is shown.
func (s *State) SuggestionsVisible() bool { return s.visible }

// ClearVisible reports whether the clear control is shown.
func (s *State) ClearVisible() bool { return s.clearVisible }

// Closed reports whether the popup asked to be closed.
func (s *State) Closed() bool { return s.closed }

// Input replaces the input text. A blank input hides and drops suggestions.
func (s *State) Input(text string) Effect {
	s.query = text
	s.clearVisible = text != ""

	if strings.TrimSpace(text) == "" {
		s.hide()
		s.suggestions = nil
		return Effect{Kind: EffectCancelFetch}
	}
	return Effect{Kind: EffectScheduleFetch, Query: text}
}

// ApplySuggestions installs the result of a fetch for query. Results for a
// query that no longer matches the input are ignored. It reports whether the
// list was applied.
func (s *State) ApplySuggestions(query string, list []string) bool {
	if query != s.query || strings.TrimSpace(s.query) == "" {
		return false
	}

	s.suggestions = append([]string(nil), list...)
	s.selected = NoSelection
	if len(s.suggestions) == 0 {
		s.hide()
		return true
	}
	s.visible = true
	return true
}

// Key handles a navigation key.
func (s *State) Key(k Key) Effect {
	switch k {
	case KeyArrowDown:
		if len(s.suggestions) > 0 {
			s.selected = min(s.selected+1, len(s.suggestions)-1)
		}
		return none

	case KeyArrowUp:
		if len(s.suggestions) > 0 {
			s.selected = max(s.selected-1, NoSelection)
		}
		return none

	case KeyEnter:
		if s.selected >= 0 && s.selected < len(s.suggestions) {
			return s.commit(s.selected)
		}
		return s.search()

	case KeyEscape:
		if len(s.suggestions) > 0 && s.visible {
			s.hide()
			return none
		}
		s.closed = true
		return Effect{Kind: EffectClose}

	case KeyTab:
		if len(s.suggestions) > 0 && s.selected >= 0 {
			s.query = s.suggestions[s.selected]
			s.clearVisible = true
		}
		return none
	}
	return none
}

// Click commits the suggestion at index i.
func (s *State) Click(i int) Effect {
	if i < 0 || i >= len(s.suggestions) {
		return none
	}
	return s.commit(i)
}

// Hover highlights the suggestion at index i.
func (s *State) Hover(i int) {
	if i >= 0 && i < len(s.suggestions) {
		s.selected = i
	}
}

// Focus re-shows a hidden, non-empty suggestion list.
func (s *State) Focus() {
	if len(s.suggestions) > 0 {
		s.visible = true
	}
}

// Clear empties the input and the suggestion list.
func (s *State) Clear() Effect {
	s.query = ""
	s.clearVisible = false
	s.hide()
	s.suggestions = nil
	return Effect{Kind: EffectFocus}
}

// OpenSettings asks the host to show the options surface and close.
func (s *State) OpenSettings() Effect {
	s.closed = true
	return Effect{Kind: EffectOpenOptions}
}

// SearchButton searches for the typed text.
func (s *State) SearchButton() Effect {
	return s.search()
}

func (s *State) commit(i int) Effect {
	s.query = s.suggestions[i]
	s.clearVisible = true
	s.hide()
	return s.search()
}

func (s *State) search() Effect {
	q := strings.TrimSpace(s.query)
	if q == "" {
		return Effect{Kind: EffectFocus}
	}
	return Effect{Kind: EffectSearch, Query: q}
}

func (s *State) hide() {
	s.visible = false
	s.selected = NoSelection
}
