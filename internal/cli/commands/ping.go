package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/leapstack-labs/vql/pkg/adapter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// PingOptions holds options for the ping command.
type PingOptions struct {
	Timeout     time.Duration
	Concurrency int
}

// PingResult is the outcome of pinging one data source.
type PingResult struct {
	Name    string        `json:"name" yaml:"name"`
	Type    string        `json:"type" yaml:"type"`
	OK      bool          `json:"ok" yaml:"ok"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
	Latency time.Duration `json:"latency_ns" yaml:"latency"`
}

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	opts := &PingOptions{}

	cmd := &cobra.Command{
		Use:   "ping [name...]",
		Short: "Check connectivity of registered data sources",
		Long: `Connect to registered data sources and verify they respond.

Data sources are checked concurrently, bounded by --concurrency, and each
check is limited by --timeout. Pings every data source when no names are
given. Exits with an error when any data source is unreachable.`,
		Example: `  vql ping
  vql ping crm lake --timeout 2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd, args, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Timeout per data source (default from ping.timeout)")
	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "c", 0, "Maximum concurrent checks (default from ping.concurrency)")

	return cmd
}

func runPing(cmd *cobra.Command, args []string, opts *PingOptions) error {
	cmdCtx := NewCommandContext(cmd)

	timeout := cmdCtx.Cfg.Ping.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	concurrency := cmdCtx.Cfg.Ping.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	store, cleanup, err := cmdCtx.OpenCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	var sources []*catalog.DataSource
	if len(args) == 0 {
		if sources, err = store.List(cmd.Context()); err != nil {
			return err
		}
	} else {
		for _, name := range args {
			ds, err := store.Get(cmd.Context(), name)
			if err != nil {
				return err
			}
			sources = append(sources, ds)
		}
	}

	results := pingAll(cmd.Context(), sources, timeout, concurrency, cmdCtx.Logger)
	if err := renderPingResults(cmdCtx.Renderer, results); err != nil {
		return err
	}

	var failed int
	for _, res := range results {
		if !res.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d data source(s) unreachable", failed, len(results))
	}
	return nil
}

// pingAll checks sources concurrently and returns results in input order.
func pingAll(ctx context.Context, sources []*catalog.DataSource, timeout time.Duration, concurrency int, logger *slog.Logger) []PingResult {
	results := make([]PingResult, len(sources))

	var eg errgroup.Group
	eg.SetLimit(concurrency)
	for i, ds := range sources {
		eg.Go(func() error {
			results[i] = pingOne(ctx, ds, timeout, logger)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func pingOne(ctx context.Context, ds *catalog.DataSource, timeout time.Duration, logger *slog.Logger) (res PingResult) {
	res = PingResult{Name: ds.Name, Type: displayType(ds.Type)}
	start := time.Now()
	defer func() { res.Latency = time.Since(start) }()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg := ds.AdapterConfig()
	a, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer func() { _ = a.Close() }()

	if err := a.Connect(ctx, cfg); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := a.Ping(ctx); err != nil {
		res.Error = err.Error()
		return res
	}

	res.OK = true
	logger.Debug("ping ok", "datasource", ds.Name, "type", ds.Type)
	return res
}

func renderPingResults(r *output.Renderer, results []PingResult) error {
	if ok, err := r.Structured(results); ok {
		return err
	}

	if len(results) == 0 {
		r.Println(r.Muted("No data sources to ping."))
		return nil
	}

	rows := make([][]string, len(results))
	for i, res := range results {
		status := r.Styles().Success.Render("ok")
		if !res.OK {
			status = r.Styles().Error.Render("error")
		}
		rows[i] = []string{res.Name, res.Type, status, res.Latency.Round(time.Millisecond).String(), firstLine(res.Error)}
	}
	r.Table([]string{"Data source", "Type", "Status", "Latency", "Error"}, rows)
	return nil
}

// firstLine trims multi-line errors such as hints to their first line.
func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
