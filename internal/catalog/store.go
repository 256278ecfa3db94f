package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"darkroom/internal/logging"
	"darkroom/internal/photos"
	"darkroom/internal/services"
)

// Store is a catalog snapshot backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Option configures Open.
type Option func(*Store)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "catalog")
	}
}

// Open initializes or connects to the snapshot at path, creating the schema
// on first use.
func Open(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "open", "catalog path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logging.NewComponentLogger(nil, "catalog")}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	store.logger.Debug("catalog opened", logging.String("path", path))
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Library returns the library context recorded in the snapshot.
func (s *Store) Library(ctx context.Context) (*photos.LibraryContext, error) {
	var generation, libraryPath, mastersPath string
	err := s.db.QueryRowContext(ctx,
		"SELECT generation, library_path, masters_path FROM library WHERE id = 1",
	).Scan(&generation, &libraryPath, &mastersPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "library", "no library recorded in "+s.path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get library: %w", err)
	}
	gen, err := photos.ParseGeneration(generation)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "library", "", err)
	}
	return &photos.LibraryContext{
		Generation:  gen,
		LibraryPath: libraryPath,
		MastersPath: mastersPath,
	}, nil
}

// SetLibrary records the library context, replacing any previous one.
func (s *Store) SetLibrary(ctx context.Context, lib *photos.LibraryContext) error {
	if lib == nil {
		return errors.New("library context is nil")
	}
	if _, err := photos.ParseGeneration(lib.Generation.String()); err != nil {
		return services.Wrap(services.ErrInvalidOptions, "catalog", "set library", "", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO library (id, generation, library_path, masters_path) VALUES (1, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET generation = excluded.generation,
             library_path = excluded.library_path, masters_path = excluded.masters_path`,
		lib.Generation.String(), lib.LibraryPath, lib.MastersPath,
	)
	if err != nil {
		return fmt.Errorf("set library: %w", err)
	}
	return nil
}
