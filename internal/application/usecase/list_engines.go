package usecase

import (
	"context"

	"github.com/bnema/comet/internal/domain/engine"
)

// EngineView is an engine row enriched with whether it is the configured one.
type EngineView struct {
	Key      engine.Key
	Config   engine.Config
	Selected bool
}

// ListEnginesUseCase exposes the engine table to the surfaces.
type ListEnginesUseCase struct {
	settings SettingsReader
	engines  *engine.Table
}

// NewListEnginesUseCase creates a new engine listing use case.
func NewListEnginesUseCase(settings SettingsReader, engines *engine.Table) *ListEnginesUseCase {
	if engines == nil {
		engines = engine.Builtin()
	}
	return &ListEnginesUseCase{settings: settings, engines: engines}
}

// Table returns the engine table keyed by engine key.
func (uc *ListEnginesUseCase) Table() map[engine.Key]engine.Config {
	return uc.engines.Map()
}

// Current returns the configured engine, or the default one when the
// configured key is unknown.
func (uc *ListEnginesUseCase) Current(ctx context.Context) (engine.Key, engine.Config) {
	return uc.engines.Resolve(engine.Key(uc.settings.Get(ctx).SearchEngine))
}

// List returns engines in display order, marking the configured engine.
// An unknown configured key marks the default engine.
func (uc *ListEnginesUseCase) List(ctx context.Context) []EngineView {
	selected, _ := uc.Current(ctx)

	entries := uc.engines.All()
	views := make([]EngineView, 0, len(entries))
	for _, e := range entries {
		views = append(views, EngineView{
			Key:      e.Key,
			Config:   e.Config,
			Selected: e.Key == selected,
		})
	}
	return views
}
