package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/comet/internal/domain/engine"
	"github.com/bnema/comet/internal/domain/entity"
	"github.com/bnema/comet/internal/domain/repository"
	"github.com/bnema/comet/internal/logging"
)

// ErrUnknownEngine is returned when a settings write names an engine that is
// not in the engine table.
var ErrUnknownEngine = errors.New("unknown search engine")

// ManageSettingsUseCase reads and writes user settings.
type ManageSettingsUseCase struct {
	repo    repository.SettingsRepository
	engines *engine.Table
}

// NewManageSettingsUseCase creates a new settings use case.
func NewManageSettingsUseCase(repo repository.SettingsRepository, engines *engine.Table) *ManageSettingsUseCase {
	if engines == nil {
		engines = engine.Builtin()
	}
	return &ManageSettingsUseCase{
		repo:    repo,
		engines: engines,
	}
}

// Get returns stored settings merged over the defaults.
// It never fails: read errors and undecodable values fall back to defaults.
func (uc *ManageSettingsUseCase) Get(ctx context.Context) entity.Settings {
	log := logging.FromContext(ctx)
	settings := entity.DefaultSettings()

	values, err := uc.repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load settings, using defaults")
		return settings
	}

	decode := func(name string, target any) {
		raw, ok := values[name]
		if !ok {
			return
		}
		if err := json.Unmarshal(raw, target); err != nil {
			log.Warn().Err(err).Str("setting", name).Msg("ignoring undecodable setting")
		}
	}

	// Decode into copies so a bad value cannot leave a half-written field.
	engineKey := settings.SearchEngine
	showSuggestions := settings.ShowSuggestions
	openInNewTab := settings.OpenInNewTab
	maxSuggestions := settings.MaxSuggestions

	decode(entity.SettingSearchEngine, &engineKey)
	decode(entity.SettingShowSuggestions, &showSuggestions)
	decode(entity.SettingOpenInNewTab, &openInNewTab)
	decode(entity.SettingMaxSuggestions, &maxSuggestions)

	settings.SearchEngine = engineKey
	settings.ShowSuggestions = showSuggestions
	settings.OpenInNewTab = openInNewTab
	settings.MaxSuggestions = maxSuggestions

	log.Debug().
		Str("engine", settings.SearchEngine).
		Bool("show_suggestions", settings.ShowSuggestions).
		Bool("open_in_new_tab", settings.OpenInNewTab).
		Int("max_suggestions", settings.MaxSuggestions).
		Msg("settings loaded")

	return settings
}

// Update merges patch into the current settings and persists the patched
// fields. Concurrent writers are not serialized: the last write wins.
func (uc *ManageSettingsUseCase) Update(ctx context.Context, patch entity.SettingsPatch) (entity.Settings, error) {
	log := logging.FromContext(ctx)

	current := uc.Get(ctx)
	if patch.IsEmpty() {
		return current, nil
	}

	if patch.SearchEngine != nil && !uc.engines.Has(engine.Key(*patch.SearchEngine)) {
		return current, fmt.Errorf("%w: %q", ErrUnknownEngine, *patch.SearchEngine)
	}

	merged := patch.Apply(current)
	if err := merged.Validate(); err != nil {
		return current, err
	}

	values, err := encodePatch(patch)
	if err != nil {
		return current, err
	}
	if err := uc.repo.Save(ctx, values); err != nil {
		return current, fmt.Errorf("save settings: %w", err)
	}

	log.Info().Strs("fields", patch.Fields()).Msg("settings updated")
	return merged, nil
}

// Reset writes the default settings over every stored value.
func (uc *ManageSettingsUseCase) Reset(ctx context.Context) (entity.Settings, error) {
	defaults := entity.DefaultSettings()
	values, err := encodePatch(entity.FullPatch(defaults))
	if err != nil {
		return defaults, err
	}
	if err := uc.repo.Save(ctx, values); err != nil {
		return defaults, fmt.Errorf("reset settings: %w", err)
	}
	logging.FromContext(ctx).Info().Msg("settings reset to defaults")
	return defaults, nil
}

// InstallDefaultsOutput reports what the first-install hook did.
type InstallDefaultsOutput struct {
	Installed bool // true when defaults were written by this call
	Settings  entity.Settings
}

// InstallDefaults persists the default settings the first time it runs.
// Later calls leave stored settings untouched.
func (uc *ManageSettingsUseCase) InstallDefaults(ctx context.Context) (*InstallDefaultsOutput, error) {
	log := logging.FromContext(ctx)

	installed, err := uc.repo.IsInstalled(ctx)
	if err != nil {
		return nil, fmt.Errorf("check install state: %w", err)
	}
	if installed {
		log.Debug().Msg("already installed, keeping stored settings")
		return &InstallDefaultsOutput{Installed: false, Settings: uc.Get(ctx)}, nil
	}

	defaults, err := uc.Reset(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.MarkInstalled(ctx); err != nil {
		return nil, fmt.Errorf("mark installed: %w", err)
	}

	log.Info().Msg("installed with default settings")
	return &InstallDefaultsOutput{Installed: true, Settings: defaults}, nil
}

func encodePatch(patch entity.SettingsPatch) (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage, 4)
	add := func(name string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode setting %s: %w", name, err)
		}
		values[name] = raw
		return nil
	}

	if patch.SearchEngine != nil {
		if err := add(entity.SettingSearchEngine, *patch.SearchEngine); err != nil {
			return nil, err
		}
	}
	if patch.ShowSuggestions != nil {
		if err := add(entity.SettingShowSuggestions, *patch.ShowSuggestions); err != nil {
			return nil, err
		}
	}
	if patch.OpenInNewTab != nil {
		if err := add(entity.SettingOpenInNewTab, *patch.OpenInNewTab); err != nil {
			return nil, err
		}
	}
	if patch.MaxSuggestions != nil {
		if err := add(entity.SettingMaxSuggestions, *patch.MaxSuggestions); err != nil {
			return nil, err
		}
	}
	return values, nil
}
