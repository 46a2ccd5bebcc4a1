// Package adapter defines the contract for connecting to the databases that
// VQL data sources describe.
//
// Concrete adapters live in pkg/adapters/ and register themselves by type
// name from an init function. Import them for side effects:
//
//	import _ "github.com/leapstack-labs/vql/pkg/adapters/postgres"
package adapter

import (
	"context"
	"database/sql"
	"fmt"
)

// Config holds the connection settings resolved from a data source.
type Config struct {
	// Type selects the adapter, e.g. "postgres", "duckdb", "sqlite".
	Type string

	// Path is the file path for file-based databases.
	// Use ":memory:" for in-memory databases.
	Path string

	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string

	// Options contains additional driver-specific options.
	Options map[string]string
}

// Adapter connects to one database.
type Adapter interface {
	// Connect opens and verifies a connection.
	Connect(ctx context.Context, cfg Config) error

	// Ping verifies the connection is still alive.
	Ping(ctx context.Context) error

	// Exec executes a statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// Close releases the connection.
	Close() error
}

// Rows wraps sql.Rows.
type Rows struct {
	*sql.Rows
}

// Collect reads up to limit rows as strings and closes r. A limit of zero
// or less reads everything. NULL is rendered as "NULL".
func (r *Rows) Collect(limit int) (columns []string, data [][]string, err error) {
	defer func() { _ = r.Close() }()

	columns, err = r.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for r.Next() {
		if limit > 0 && len(data) >= limit {
			break
		}
		if err := r.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		data = append(data, row)
	}
	if err := r.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return columns, data, nil
}
