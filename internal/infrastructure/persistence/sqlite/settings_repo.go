package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/domain/repository"
	"github.com/bnema/comet/internal/logging"
)

const metaInstalledKey = "installed"

type settingsRepo struct {
	provider port.DatabaseProvider
}

// NewSettingsRepository creates a SQLite-backed settings store. The database
// is opened on first use through provider.
func NewSettingsRepository(provider port.DatabaseProvider) repository.SettingsRepository {
	return &settingsRepo{provider: provider}
}

func (r *settingsRepo) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]json.RawMessage)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		values[name] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}

	logging.FromContext(ctx).Debug().Int("count", len(values)).Msg("loaded settings")
	return values, nil
}

func (r *settingsRepo) Save(ctx context.Context, values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return nil
	}

	db, err := r.provider.DB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
INSERT INTO settings (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	for name, value := range values {
		if !json.Valid(value) {
			return fmt.Errorf("setting %q: invalid JSON value", name)
		}
		if _, err := tx.ExecContext(ctx, upsert, name, string(value)); err != nil {
			return fmt.Errorf("save setting %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}

	logging.FromContext(ctx).Debug().Int("count", len(values)).Msg("saved settings")
	return nil
}

func (r *settingsRepo) IsInstalled(ctx context.Context) (bool, error) {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return false, err
	}

	var value string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaInstalledKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query install marker: %w", err)
	}
	return value == "1", nil
}

func (r *settingsRepo) MarkInstalled(ctx context.Context) error {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, '1') ON CONFLICT(key) DO UPDATE SET value = '1'`,
		metaInstalledKey)
	if err != nil {
		return fmt.Errorf("mark installed: %w", err)
	}
	return nil
}
