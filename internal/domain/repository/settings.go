package repository

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks

// SettingsRepository persists user settings as named JSON values.
type SettingsRepository interface {
	// Load returns every stored setting keyed by name.
	// An empty store returns an empty map and no error.
	Load(ctx context.Context) (map[string]json.RawMessage, error)

	// Save upserts the given settings. Settings not in values are untouched.
	Save(ctx context.Context, values map[string]json.RawMessage) error

	// IsInstalled reports whether the first-install hook already ran.
	IsInstalled(ctx context.Context) (bool, error)

	// MarkInstalled records that the first-install hook ran.
	MarkInstalled(ctx context.Context) error
}
