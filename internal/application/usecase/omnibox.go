package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/comet/internal/domain/engine"
	"github.com/bnema/comet/internal/logging"
)

// DefaultOmniboxDescription is shown before any input session has started.
const DefaultOmniboxDescription = "Search with Comet Search Bar: %s"

// OmniboxDisposition is the browser's hint for where a committed entry opens.
type OmniboxDisposition string

const (
	OmniboxCurrentTab       OmniboxDisposition = "currentTab"
	OmniboxNewForegroundTab OmniboxDisposition = "newForegroundTab"
	OmniboxNewBackgroundTab OmniboxDisposition = "newBackgroundTab"
)

// OpensNewTab reports whether the disposition asks for a new tab.
// Unknown values are treated like currentTab.
func (d OmniboxDisposition) OpensNewTab() bool {
	return d == OmniboxNewForegroundTab || d == OmniboxNewBackgroundTab
}

// OmniboxPhase is the state of the omnibox input session.
type OmniboxPhase string

const (
	OmniboxIdle    OmniboxPhase = "idle"
	OmniboxStarted OmniboxPhase = "started"
	OmniboxChanged OmniboxPhase = "changed"
)

// OmniboxEntry is one suggestion row fed back to the address bar.
type OmniboxEntry struct {
	Content     string `json:"content"`
	Description string `json:"description"`
}

// OmniboxUseCase drives the address-bar keyword session:
// idle → started → changed* → (entered | cancelled) → idle.
type OmniboxUseCase struct {
	settings SettingsReader
	suggest  *FetchSuggestionsUseCase
	dispatch *DispatchSearchUseCase
	engines  *engine.Table

	mu          sync.Mutex
	phase       OmniboxPhase
	description string
}

// NewOmniboxUseCase creates a new omnibox session in the idle phase.
func NewOmniboxUseCase(
	settings SettingsReader,
	suggest *FetchSuggestionsUseCase,
	dispatch *DispatchSearchUseCase,
	engines *engine.Table,
) *OmniboxUseCase {
	if engines == nil {
		engines = engine.Builtin()
	}
	return &OmniboxUseCase{
		settings:    settings,
		suggest:     suggest,
		dispatch:    dispatch,
		engines:     engines,
		phase:       OmniboxIdle,
		description: DefaultOmniboxDescription,
	}
}

// Phase returns the current session phase.
func (uc *OmniboxUseCase) Phase() OmniboxPhase {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.phase
}

// DefaultSuggestion returns the current default row description.
// It contains one %s placeholder for the typed text.
func (uc *OmniboxUseCase) DefaultSuggestion() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.description
}

// InputStarted begins a session and names the configured engine in the
// default suggestion.
func (uc *OmniboxUseCase) InputStarted(ctx context.Context) string {
	_, cfg := uc.engines.Resolve(engine.Key(uc.settings.Get(ctx).SearchEngine))
	description := fmt.Sprintf("Search %s: %%s", cfg.Name)

	uc.mu.Lock()
	uc.phase = OmniboxStarted
	uc.description = description
	uc.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("engine", cfg.Name).Msg("omnibox input started")
	return description
}

// InputChanged returns suggestion rows for text. Blank text yields nil
// without a network request. In-flight lookups are never cancelled; the
// host applies whichever result arrives.
func (uc *OmniboxUseCase) InputChanged(ctx context.Context, text string) []OmniboxEntry {
	uc.mu.Lock()
	uc.phase = OmniboxChanged
	uc.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil
	}

	settings := uc.settings.Get(ctx)
	_, cfg := uc.engines.Resolve(engine.Key(settings.SearchEngine))
	out := uc.suggest.ExecuteWith(ctx, text, settings)

	entries := make([]OmniboxEntry, 0, len(out.Suggestions))
	for _, s := range out.Suggestions {
		entries = append(entries, OmniboxEntry{
			Content:     s,
			Description: cfg.Name + ": " + EscapeXML(s),
		})
	}
	return entries
}

// InputEntered commits text and ends the session.
func (uc *OmniboxUseCase) InputEntered(ctx context.Context, text string, disposition OmniboxDisposition) (*DispatchSearchOutput, error) {
	uc.mu.Lock()
	uc.phase = OmniboxIdle
	uc.mu.Unlock()

	newTab := disposition.OpensNewTab()
	logging.FromContext(ctx).Debug().
		Str("disposition", string(disposition)).
		Bool("new_tab", newTab).
		Msg("omnibox input entered")

	return uc.dispatch.Execute(ctx, DispatchSearchInput{Query: text, OpenInNewTab: &newTab})
}

// InputCancelled ends the session without dispatching.
func (uc *OmniboxUseCase) InputCancelled(ctx context.Context) {
	uc.mu.Lock()
	uc.phase = OmniboxIdle
	uc.mu.Unlock()
	logging.FromContext(ctx).Debug().Msg("omnibox input cancelled")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeXML escapes exactly & < > " ' for omnibox descriptions, which the
// browser parses as XML.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
