package entity

import (
	"errors"
	"fmt"
)

// Setting names as persisted and as exchanged on the wire.
const (
	SettingSearchEngine    = "searchEngine"
	SettingShowSuggestions = "showSuggestions"
	SettingOpenInNewTab    = "openInNewTab"
	SettingMaxSuggestions  = "maxSuggestions"
)

// Bounds for MaxSuggestions.
const (
	MaxSuggestionsMin = 1
	MaxSuggestionsMax = 20
)

// MaxSuggestionChoices lists the values offered by the options surface.
var MaxSuggestionChoices = []int{3, 5, 8, 10}

// ErrInvalidMaxSuggestions is returned when maxSuggestions is out of bounds.
var ErrInvalidMaxSuggestions = errors.New("maxSuggestions out of range")

// Settings holds the user preferences shared by every surface.
type Settings struct {
	SearchEngine    string `json:"searchEngine"`
	ShowSuggestions bool   `json:"showSuggestions"`
	OpenInNewTab    bool   `json:"openInNewTab"`
	MaxSuggestions  int    `json:"maxSuggestions"`
}

// DefaultSettings returns the settings used before anything is stored.
func DefaultSettings() Settings {
	return Settings{
		SearchEngine:    "kagi",
		ShowSuggestions: true,
		OpenInNewTab:    false,
		MaxSuggestions:  5,
	}
}

// Validate checks value bounds. The engine key is checked by the caller
// against the engine table.
func (s Settings) Validate() error {
	if s.MaxSuggestions < MaxSuggestionsMin || s.MaxSuggestions > MaxSuggestionsMax {
		return fmt.Errorf("%w: %d (must be %d-%d)",
			ErrInvalidMaxSuggestions, s.MaxSuggestions, MaxSuggestionsMin, MaxSuggestionsMax)
	}
	return nil
}

// SettingsPatch is a partial settings write. Nil fields are left unchanged.
type SettingsPatch struct {
	SearchEngine    *string `json:"searchEngine,omitempty"`
	ShowSuggestions *bool   `json:"showSuggestions,omitempty"`
	OpenInNewTab    *bool   `json:"openInNewTab,omitempty"`
	MaxSuggestions  *int    `json:"maxSuggestions,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p.SearchEngine == nil && p.ShowSuggestions == nil &&
		p.OpenInNewTab == nil && p.MaxSuggestions == nil
}

// Apply returns s with the patch fields merged over it.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.SearchEngine != nil {
		s.SearchEngine = *p.SearchEngine
	}
	if p.ShowSuggestions != nil {
		s.ShowSuggestions = *p.ShowSuggestions
	}
	if p.OpenInNewTab != nil {
		s.OpenInNewTab = *p.OpenInNewTab
	}
	if p.MaxSuggestions != nil {
		s.MaxSuggestions = *p.MaxSuggestions
	}
	return s
}

// Fields returns the names of the settings the patch touches.
func (p SettingsPatch) Fields() []string {
	var names []string
	if p.SearchEngine != nil {
		names = append(names, SettingSearchEngine)
	}
	if p.ShowSuggestions != nil {
		names = append(names, SettingShowSuggestions)
	}
	if p.OpenInNewTab != nil {
		names = append(names, SettingOpenInNewTab)
	}
	if p.MaxSuggestions != nil {
		names = append(names, SettingMaxSuggestions)
	}
	return names
}

// FullPatch returns a patch that writes every field of s.
func FullPatch(s Settings) SettingsPatch {
	return SettingsPatch{
		SearchEngine:    &s.SearchEngine,
		ShowSuggestions: &s.ShowSuggestions,
		OpenInNewTab:    &s.OpenInNewTab,
		MaxSuggestions:  &s.MaxSuggestions,
	}
}

// NextMaxSuggestionChoice returns the choice after current, wrapping around.
// Values that are not a choice snap to the first choice above them.
func NextMaxSuggestionChoice(current int) int {
	for _, c := range MaxSuggestionChoices {
		if c > current {
			return c
		}
	}
	return MaxSuggestionChoices[0]
}

// PrevMaxSuggestionChoice returns the choice before current, wrapping around.
func PrevMaxSuggestionChoice(current int) int {
	for i := len(MaxSuggestionChoices) - 1; i >= 0; i-- {
		if MaxSuggestionChoices[i] < current {
			return MaxSuggestionChoices[i]
		}
	}
	return MaxSuggestionChoices[len(MaxSuggestionChoices)-1]
}
