package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/leapstack-labs/vql/pkg/vql"
	"github.com/spf13/cobra"
)

// watchDebounce is how long apply --watch waits for writes to settle.
const watchDebounce = 100 * time.Millisecond

// ApplyOptions holds options for the apply command.
type ApplyOptions struct {
	Watch bool
}

// applySummary is the structured output of apply.
type applySummary struct {
	Applied []*catalog.DataSource `json:"applied" yaml:"applied"`
	Skipped int                   `json:"skipped" yaml:"skipped"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	opts := &ApplyOptions{}

	cmd := &cobra.Command{
		Use:   "apply [file|-]",
		Short: "Register data sources from a script",
		Long: `Parse a VQL script and store every CREATE DATASOURCE statement in the catalog.

A data source that already exists is replaced. Standard SQL statements are
parsed for validity and otherwise skipped. Nothing is stored when any
statement fails to parse or resolve.

With --watch, the script is applied again whenever the file changes.`,
		Example: `  # Register data sources
  vql apply datasources.vql

  # Keep the catalog in sync while editing
  vql apply datasources.vql --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-apply when the file changes")

	return cmd
}

func runApply(cmd *cobra.Command, args []string, opts *ApplyOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if opts.Watch && (len(args) == 0 || args[0] == "-") {
		return fmt.Errorf("--watch requires a file argument")
	}

	store, cleanup, err := cmdCtx.OpenCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	apply := func(ctx context.Context) error {
		name, script, err := readScript(cmd, args)
		if err != nil {
			return err
		}
		return applyScript(ctx, cmdCtx.Renderer, store, name, script)
	}

	if err := apply(cmd.Context()); err != nil {
		if !opts.Watch {
			return err
		}
		cmdCtx.Renderer.Error(err.Error())
	}
	if !opts.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Println(cmdCtx.Renderer.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", args[0])))
	return watchFile(ctx, args[0], cmdCtx.Logger, func() {
		if err := apply(ctx); err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
	})
}

func applyScript(ctx context.Context, r *output.Renderer, w catalog.Writer, name, script string) error {
	stmts, err := vql.Parse(script)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	result, err := catalog.Apply(ctx, w, stmts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	summary := applySummary{Applied: make([]*catalog.DataSource, len(result.Applied)), Skipped: result.Skipped}
	for i, ds := range result.Applied {
		summary.Applied[i] = ds.Redact()
	}
	if ok, err := r.Structured(summary); ok {
		return err
	}

	if len(result.Applied) == 0 {
		r.Warning(fmt.Sprintf("%s: no data sources declared", name))
		return nil
	}

	rows := make([][]string, len(result.Applied))
	for i, ds := range result.Applied {
		rows[i] = []string{ds.Name, displayType(ds.Type), strconv.Itoa(len(ds.Entries))}
	}
	r.Table([]string{"Data source", "Type", "Entries"}, rows)
	r.Success(fmt.Sprintf("applied %d data source(s), skipped %d SQL statement(s)", len(result.Applied), result.Skipped))
	return nil
}

// watchFile calls onChange after each burst of writes to path until ctx is
// cancelled. The parent directory is watched so editors that replace the
// file by rename are still seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	var debounce *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			logger.Debug("file changed, re-applying", "file", path)
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func displayType(t string) string {
	if t == "" {
		return "unknown"
	}
	return t
}
