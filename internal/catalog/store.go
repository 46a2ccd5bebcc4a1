package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/vql/pkg/vql"

	_ "modernc.org/sqlite" // sqlite driver
)

// ErrNotFound is returned when a data source does not exist.
var ErrNotFound = errors.New("datasource not found")

var errNotOpen = errors.New("catalog not opened")

// Store persists data sources in SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store. If logger is nil, a discard logger is used.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Open opens the catalog database, creating parent directories as needed.
// Use ":memory:" for an in-memory catalog.
func (s *Store) Open(path string) error {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create catalog directory: %w", err)
			}
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping catalog: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("catalog opened", slog.String("path", path))
	return nil
}

// Close closes the catalog database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Put stores data sources in one transaction. An existing data source with
// the same name is replaced but keeps its ID and creation time. Put fills
// in ID, CreatedAt and UpdatedAt.
func (s *Store) Put(ctx context.Context, sources ...*DataSource) error {
	if s.db == nil {
		return errNotOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()
	for _, ds := range sources {
		if err := putOne(ctx, tx, ds, now); err != nil {
			return fmt.Errorf("failed to store datasource %s: %w", ds.Name, err)
		}
		s.logger.Debug("datasource stored",
			slog.String("name", ds.Name),
			slog.String("type", ds.Type),
			slog.Int("entries", len(ds.Entries)))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func putOne(ctx context.Context, tx *sql.Tx, ds *DataSource, now time.Time) error {
	var id string
	var createdAt time.Time
	err := tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM datasources WHERE name = ?`, ds.Name,
	).Scan(&id, &createdAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
		createdAt = now
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO datasources (id, name, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			id, ds.Name, ds.Type, createdAt, now,
		); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE datasources SET type = ?, updated_at = ? WHERE id = ?`,
			ds.Type, now, id,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM datasource_entries WHERE datasource_id = ?`, id,
		); err != nil {
			return err
		}
	}

	for i, e := range ds.Entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO datasource_entries (datasource_id, position, name, value) VALUES (?, ?, ?, ?)`,
			id, i, e.Name, e.Value,
		); err != nil {
			return err
		}
	}

	ds.ID = id
	ds.CreatedAt = createdAt
	ds.UpdatedAt = now
	return nil
}

// Get returns the data source called name. Names are case-sensitive.
func (s *Store) Get(ctx context.Context, name string) (*DataSource, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	var row dataSourceRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, created_at, updated_at FROM datasources WHERE name = ?`, name,
	).Scan(&row.id, &row.name, &row.typ, &row.createdAt, &row.updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get datasource: %w", err)
	}

	return s.load(ctx, row)
}

// List returns all data sources ordered by name.
func (s *Store) List(ctx context.Context) ([]*DataSource, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, created_at, updated_at FROM datasources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasources: %w", err)
	}

	var found []dataSourceRow
	for rows.Next() {
		var row dataSourceRow
		if err := rows.Scan(&row.id, &row.name, &row.typ, &row.createdAt, &row.updatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan datasource: %w", err)
		}
		found = append(found, row)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating datasources: %w", err)
	}
	_ = rows.Close()

	sources := make([]*DataSource, 0, len(found))
	for _, row := range found {
		ds, err := s.load(ctx, row)
		if err != nil {
			return nil, err
		}
		sources = append(sources, ds)
	}
	return sources, nil
}

// Delete removes the data source called name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if s.db == nil {
		return errNotOpen
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM datasources WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete datasource: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete datasource: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	s.logger.Debug("datasource deleted", slog.String("name", name))
	return nil
}

type dataSourceRow struct {
	id        string
	name      string
	typ       string
	createdAt time.Time
	updatedAt time.Time
}

// load reads the entries of row and resolves them again.
func (s *Store) load(ctx context.Context, row dataSourceRow) (*DataSource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM datasource_entries WHERE datasource_id = ? ORDER BY position`, row.id)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []vql.ConfigEntry
	for rows.Next() {
		var e vql.ConfigEntry
		if err := rows.Scan(&e.Name, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	ds, err := resolveEntries(row.name, entries)
	if err != nil {
		return nil, fmt.Errorf("datasource %s: %w", row.name, err)
	}
	ds.ID = row.id
	ds.Type = row.typ
	ds.CreatedAt = row.createdAt
	ds.UpdatedAt = row.updatedAt
	if ds.Entries == nil {
		ds.Entries = []vql.ConfigEntry{}
	}
	return ds, nil
}
