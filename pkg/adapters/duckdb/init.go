package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/vql/pkg/adapter"
)

func init() {
	adapter.Register("duckdb", func(l *slog.Logger) adapter.Adapter { return New(l) })
}
