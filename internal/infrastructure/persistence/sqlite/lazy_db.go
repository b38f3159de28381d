package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/logging"
)

// ErrClosed is returned by DB after Close.
var ErrClosed = errors.New("settings database closed")

// LazyDB opens the settings database on first access. Commands such as
// `comet version` or `comet config path` never open it. A failed open is
// retried on the next call.
type LazyDB struct {
	path   string
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB creates a new lazy database provider.
func NewLazyDB(path string) *LazyDB {
	return &LazyDB{path: path}
}

// DB returns the database connection, opening it if needed.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.closed:
		return nil, ErrClosed
	case l.db != nil:
		return l.db, nil
	}

	log := logging.FromContext(ctx)
	log.Debug().Str("path", l.path).Msg("opening settings database")

	db, err := NewConnection(ctx, l.path)
	if err != nil {
		log.Error().Err(err).Str("path", l.path).Msg("settings database unavailable")
		return nil, fmt.Errorf("settings database: %w", err)
	}
	l.db = db
	return db, nil
}

// Close closes the connection if it was opened. Later DB calls fail.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// IsInitialized reports whether the connection is open.
func (l *LazyDB) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.path
}
