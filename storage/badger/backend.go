package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend owns the BadgerDB instance behind a Cache.
type Backend struct {
	db       *badger.DB
	inMemory bool
	logger   *slog.Logger
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithBackendLogger sets the logger used by the backend and by BadgerDB itself.
// Default is slog.Default().
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// slogAdapter routes BadgerDB's printf-style logging into slog.
// Badger reports routine compaction and flush work at info; that goes to debug.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = slogAdapter{}

func (a slogAdapter) Errorf(format string, args ...any)   { a.log(slog.LevelError, format, args) }
func (a slogAdapter) Warningf(format string, args ...any) { a.log(slog.LevelWarn, format, args) }
func (a slogAdapter) Infof(format string, args ...any)    { a.log(slog.LevelDebug, format, args) }
func (a slogAdapter) Debugf(format string, args ...any)   { a.log(slog.LevelDebug, format, args) }

func (a slogAdapter) log(level slog.Level, format string, args []any) {
	a.logger.Log(context.Background(), level, fmt.Sprintf(format, args...), "component", "badger")
}

// OpenBackend opens a cache database in dir, creating it when missing.
// dir is ignored when inMemory is set.
func OpenBackend(dir string, inMemory bool, opts ...BackendOption) (*Backend, error) {
	b := &Backend{inMemory: inMemory, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}

	if inMemory {
		dir = ""
	} else if err := makeDir(dir); err != nil {
		return nil, err
	}

	dbOpts := badger.DefaultOptions(dir).
		WithInMemory(inMemory).
		WithLogger(slogAdapter{logger: b.logger}).
		WithCompression(options.None)

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	b.db = db

	b.logger.Debug("opened cache backend", "dir", dir, "inMemory", inMemory)
	return b, nil
}

func makeDir(dir string) error {
	if dir == "" {
		return errors.New("cache directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// View runs fn in a read-only transaction.
func (b *Backend) View(fn func(tx *badger.Txn) error) error {
	return b.db.View(fn)
}

// Update runs fn in a read-write transaction, committed when fn returns nil.
func (b *Backend) Update(fn func(tx *badger.Txn) error) error {
	return b.db.Update(fn)
}

// CollectGarbage reclaims value log space left behind by expired and
// deleted entries. It is a no-op for in-memory databases.
func (b *Backend) CollectGarbage() error {
	if b.inMemory {
		return nil
	}
	for {
		err := b.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
