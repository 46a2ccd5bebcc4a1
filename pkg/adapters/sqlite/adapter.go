// Package sqlite provides a SQLite adapter backed by the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/leapstack-labs/vql/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements adapter.Adapter for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Connect opens the database file at cfg.Path. An empty path opens a
// private in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to sqlite", slog.String("path", cfg.Path))
	if err := a.Open(ctx, "sqlite", buildDSN(cfg), cfg); err != nil {
		return err
	}
	if cfg.Path == "" || cfg.Path == ":memory:" {
		// Each pooled connection would get its own empty database.
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

// buildDSN appends options as _pragma parameters, e.g.
// busy_timeout = '5000' becomes _pragma=busy_timeout(5000).
func buildDSN(cfg adapter.Config) string {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	q := url.Values{}
	for k, v := range cfg.Options {
		if name, ok := strings.CutPrefix(strings.ToLower(k), "pragma_"); ok && name != "" {
			q.Add("_pragma", name+"("+v+")")
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
