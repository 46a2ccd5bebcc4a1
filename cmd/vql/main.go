// Package main provides the vql command.
package main

import (
	"os"

	"github.com/leapstack-labs/vql/internal/cli"

	// Register database adapters.
	_ "github.com/leapstack-labs/vql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/vql/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/vql/pkg/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
