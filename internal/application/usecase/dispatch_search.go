package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/domain/engine"
	"github.com/bnema/comet/internal/logging"
)

// Disposition describes where a dispatched search was opened.
type Disposition string

const (
	DispositionNoop           Disposition = "noop"
	DispositionNewTab         Disposition = "new_tab"
	DispositionCurrentTab     Disposition = "current_tab"
	DispositionFallbackNewTab Disposition = "fallback_new_tab"
)

// DispatchSearchUseCase navigates the browser to the search results page for
// a query using the configured engine.
type DispatchSearchUseCase struct {
	settings SettingsReader
	tabs     port.TabController
	engines  *engine.Table
	metrics  port.SearchMetrics
}

// NewDispatchSearchUseCase creates a new search dispatcher. metrics may be nil.
func NewDispatchSearchUseCase(
	settings SettingsReader,
	tabs port.TabController,
	engines *engine.Table,
	metrics port.SearchMetrics,
) *DispatchSearchUseCase {
	if engines == nil {
		engines = engine.Builtin()
	}
	return &DispatchSearchUseCase{
		settings: settings,
		tabs:     tabs,
		engines:  engines,
		metrics:  metrics,
	}
}

// DispatchSearchInput contains the query and an optional new-tab override.
type DispatchSearchInput struct {
	Query string
	// OpenInNewTab overrides the openInNewTab setting when non-nil.
	OpenInNewTab *bool
}

// DispatchSearchOutput reports the navigation that happened.
type DispatchSearchOutput struct {
	URL         string
	Engine      engine.Key
	Disposition Disposition
}

// Execute performs the search. An empty query is a no-op, not an error.
// Tab failures are returned to the caller.
func (uc *DispatchSearchUseCase) Execute(ctx context.Context, input DispatchSearchInput) (*DispatchSearchOutput, error) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(input.Query) == "" {
		log.Debug().Msg("empty query, nothing to dispatch")
		return &DispatchSearchOutput{Disposition: DispositionNoop}, nil
	}

	settings := uc.settings.Get(ctx)
	key, cfg := uc.engines.Resolve(engine.Key(settings.SearchEngine))
	target := cfg.SearchURLFor(input.Query)
	out := &DispatchSearchOutput{URL: target, Engine: key}

	newTab := settings.OpenInNewTab
	if input.OpenInNewTab != nil {
		newTab = *input.OpenInNewTab
	}

	if newTab {
		if err := uc.tabs.OpenTab(ctx, target); err != nil {
			return nil, fmt.Errorf("open tab: %w", err)
		}
		out.Disposition = DispositionNewTab
		uc.finish(ctx, out)
		return out, nil
	}

	tab, err := uc.tabs.ActiveTab(ctx)
	if err != nil {
		return nil, fmt.Errorf("query active tab: %w", err)
	}

	if tab == nil {
		if err := uc.tabs.OpenTab(ctx, target); err != nil {
			return nil, fmt.Errorf("open tab: %w", err)
		}
		out.Disposition = DispositionFallbackNewTab
		uc.finish(ctx, out)
		return out, nil
	}

	if err := uc.tabs.Navigate(ctx, tab.ID, target); err != nil {
		return nil, fmt.Errorf("navigate tab %s: %w", tab.ID, err)
	}
	out.Disposition = DispositionCurrentTab
	uc.finish(ctx, out)
	return out, nil
}

func (uc *DispatchSearchUseCase) finish(ctx context.Context, out *DispatchSearchOutput) {
	logging.FromContext(ctx).Info().
		Str("engine", string(out.Engine)).
		Str("url", out.URL).
		Str("disposition", string(out.Disposition)).
		Msg("search dispatched")

	if uc.metrics != nil {
		uc.metrics.RecordSearch(string(out.Engine), string(out.Disposition))
	}
}
