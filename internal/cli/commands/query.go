package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/leapstack-labs/vql/pkg/adapter"
	"github.com/leapstack-labs/vql/pkg/parser"
	"github.com/leapstack-labs/vql/pkg/vql"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
	Limit int
	Raw   bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <datasource> [SQL]",
		Short: "Run a SQL statement against a data source",
		Long: `Run one SQL statement against a registered data source.

The statement is parsed first, so syntax errors are reported with their
position before anything is sent to the database. SELECT results are
rendered as a table; other statements report success. Use --raw to send
database-specific SQL without parsing it.

SQL is read from the argument, from --input, or from stdin.`,
		Example: `  # Query a data source
  vql query crm "SELECT id, name FROM customers WHERE active = TRUE"

  # Read SQL from a file and output JSON
  vql query lake -i report.sql -o json

  # Run DDL the parser does not know
  vql query local --raw "CREATE TABLE t (id INTEGER)"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 1000, "Maximum rows to display (0 for all)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Send SQL without parsing it")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)

	var sqlQuery string
	switch {
	case len(args) > 1:
		sqlQuery = args[1]
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	default:
		_, content, err := readScript(cmd, nil)
		if err != nil {
			return err
		}
		sqlQuery = content
	}
	if strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("no SQL given")
	}

	returnsRows := rawReturnsRows(sqlQuery)
	if !opts.Raw {
		var err error
		if returnsRows, err = checkQuery(sqlQuery); err != nil {
			return err
		}
	}

	store, cleanup, err := cmdCtx.OpenCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	ds, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	a, err := connect(cmd.Context(), ds, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return executeAndRender(cmd.Context(), cmdCtx.Renderer, a, sqlQuery, returnsRows, opts.Limit)
}

// checkQuery parses sqlQuery and requires exactly one standard SQL
// statement. It reports whether the statement returns rows.
func checkQuery(sqlQuery string) (bool, error) {
	stmts, err := vql.Parse(sqlQuery)
	if err != nil {
		return false, err
	}
	if len(stmts) != 1 {
		return false, fmt.Errorf("expected exactly one statement, got %d", len(stmts))
	}
	s, ok := stmts[0].(*vql.SQLStatement)
	if !ok {
		return false, fmt.Errorf("CREATE DATASOURCE cannot run against a data source\nHint: use 'vql apply' to register data sources")
	}
	return s.Stmt.Kind() == "SELECT", nil
}

// rowKeywords start statements that produce a result set.
var rowKeywords = []string{"SELECT", "WITH", "VALUES", "SHOW", "DESCRIBE", "EXPLAIN", "PRAGMA", "TABLE"}

// rawReturnsRows guesses from the leading keyword whether sqlQuery returns
// rows. It is used when the query is not parsed.
func rawReturnsRows(sqlQuery string) bool {
	first := parser.Tokenize(sqlQuery)[0]
	for _, kw := range rowKeywords {
		if first.Is(kw) {
			return true
		}
	}
	return false
}

// connect opens an adapter for ds.
func connect(ctx context.Context, ds *catalog.DataSource, logger *slog.Logger) (adapter.Adapter, error) {
	cfg := ds.AdapterConfig()
	a, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("datasource %s: %w", ds.Name, err)
	}
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("datasource %s: %w", ds.Name, err)
	}
	return a, nil
}

func executeAndRender(ctx context.Context, r *output.Renderer, a adapter.Adapter, sqlQuery string, returnsRows bool, limit int) error {
	if !returnsRows {
		if err := a.Exec(ctx, sqlQuery); err != nil {
			return err
		}
		r.Success("OK")
		return nil
	}

	rows, err := a.Query(ctx, sqlQuery)
	if err != nil {
		return err
	}
	return renderResults(r, rows, limit)
}
