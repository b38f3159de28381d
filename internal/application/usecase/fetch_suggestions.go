package usecase

import (
	"context"
	"strings"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/domain/engine"
	"github.com/bnema/comet/internal/domain/entity"
	"github.com/bnema/comet/internal/logging"
)

// SettingsReader supplies the current settings to read-only use cases.
type SettingsReader interface {
	Get(ctx context.Context) entity.Settings
}

// FetchSuggestionsUseCase turns a partial query into autocomplete suggestions
// from the configured engine.
type FetchSuggestionsUseCase struct {
	settings SettingsReader
	client   port.SuggestClient
	engines  *engine.Table
	metrics  port.SuggestMetrics
}

// NewFetchSuggestionsUseCase creates a new suggestion use case.
// metrics may be nil.
func NewFetchSuggestionsUseCase(
	settings SettingsReader,
	client port.SuggestClient,
	engines *engine.Table,
	metrics port.SuggestMetrics,
) *FetchSuggestionsUseCase {
	if engines == nil {
		engines = engine.Builtin()
	}
	return &FetchSuggestionsUseCase{
		settings: settings,
		client:   client,
		engines:  engines,
		metrics:  metrics,
	}
}

// FetchSuggestionsInput contains the partial query.
type FetchSuggestionsInput struct {
	Query string
}

// FetchSuggestionsOutput contains the suggestions, never nil.
type FetchSuggestionsOutput struct {
	Suggestions []string
	Engine      engine.Key
}

// Execute loads settings and fetches suggestions. Failures yield an empty list.
func (uc *FetchSuggestionsUseCase) Execute(ctx context.Context, input FetchSuggestionsInput) *FetchSuggestionsOutput {
	if strings.TrimSpace(input.Query) == "" {
		return &FetchSuggestionsOutput{Suggestions: []string{}}
	}
	return uc.ExecuteWith(ctx, input.Query, uc.settings.Get(ctx))
}

// ExecuteWith fetches suggestions using explicit settings.
func (uc *FetchSuggestionsUseCase) ExecuteWith(ctx context.Context, query string, settings entity.Settings) *FetchSuggestionsOutput {
	key, cfg := uc.engines.Resolve(engine.Key(settings.SearchEngine))
	ctx = logging.WithEngine(ctx, string(key))
	log := logging.FromContext(ctx)
	out := &FetchSuggestionsOutput{Suggestions: []string{}, Engine: key}

	if strings.TrimSpace(query) == "" {
		return out
	}
	if !settings.ShowSuggestions {
		uc.record(key, port.SuggestOutcomeDisabled, 0)
		return out
	}

	reqURL, ok := cfg.SuggestURLFor(query)
	if !ok {
		log.Debug().Msg("engine has no suggestion endpoint")
		uc.record(key, port.SuggestOutcomeEmpty, 0)
		return out
	}

	body, err := uc.client.Get(ctx, reqURL)
	if err != nil {
		log.Warn().Err(err).Msg("suggestion request failed")
		uc.record(key, port.SuggestOutcomeError, 0)
		return out
	}

	suggestions := cfg.ParseSuggestions(body)
	// A hand-edited store can hold a negative max; treat it as zero.
	if limit := max(settings.MaxSuggestions, 0); len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	out.Suggestions = suggestions

	outcome := port.SuggestOutcomeOK
	if len(suggestions) == 0 {
		outcome = port.SuggestOutcomeEmpty
	}
	uc.record(key, outcome, len(suggestions))

	log.Debug().
		Str("query", query).
		Int("count", len(suggestions)).
		Msg("fetched suggestions")

	return out
}

func (uc *FetchSuggestionsUseCase) record(key engine.Key, outcome port.SuggestOutcome, count int) {
	if uc.metrics != nil {
		uc.metrics.RecordSuggest(string(key), outcome, count)
	}
}
