package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/leapstack-labs/vql/pkg/vql"
	"github.com/spf13/cobra"
)

const (
	shellPrompt         = "vql> "
	shellContinuePrompt = " ...> "
)

// NewShellCommand creates the interactive shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive VQL shell",
		Long: `Start an interactive shell for writing VQL.

Statements accumulate until a line ends with a semicolon. Each batch is
parsed; CREATE DATASOURCE statements are registered in the catalog and
standard SQL statements are checked for syntax.

Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	store, cleanup, err := cmdCtx.OpenCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := ""
	if cmdCtx.Cfg.CatalogPath != ":memory:" {
		historyFile = filepath.Join(filepath.Dir(cmdCtx.Cfg.CatalogPath), "shell_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(ctx, store),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	sh := &shell{r: cmdCtx.Renderer, store: store}
	cmdCtx.Renderer.Printf("VQL shell (catalog: %s)\n", cmdCtx.Cfg.CatalogPath)
	cmdCtx.Renderer.Println("Type .help for commands, .quit to exit")
	cmdCtx.Renderer.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			sh.buf.Reset()
			rl.SetPrompt(shellPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if sh.handleLine(ctx, line) {
			break
		}
		if sh.buf.Len() > 0 {
			rl.SetPrompt(shellContinuePrompt)
		} else {
			rl.SetPrompt(shellPrompt)
		}
	}

	return nil
}

// shell holds the state of one interactive session.
type shell struct {
	r     *output.Renderer
	store *catalog.Store
	buf   strings.Builder
}

// handleLine processes one input line and reports whether the session
// should end.
func (s *shell) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.handleDotCommand(ctx, line)
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString("\n")
		return false
	}

	batch := s.buf.String()
	s.buf.Reset()
	if err := s.run(ctx, batch); err != nil {
		s.r.Error(err.Error())
	}
	return false
}

func (s *shell) run(ctx context.Context, batch string) error {
	stmts, err := vql.Parse(batch)
	if err != nil {
		return err
	}

	result, err := catalog.Apply(ctx, s.store, stmts)
	if err != nil {
		return err
	}

	applied := 0
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *vql.CreateDataSource:
			ds := result.Applied[applied]
			applied++
			s.r.Success(fmt.Sprintf("registered data source %s (%s, %d entries)", ds.Name, displayType(ds.Type), len(ds.Entries)))
		case *vql.SQLStatement:
			s.r.Println(s.r.Muted(fmt.Sprintf("%s statement OK", st.Stmt.Kind())))
		}
	}
	return nil
}

func (s *shell) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(s.r)

	case ".list":
		sources, err := s.store.List(ctx)
		if err == nil {
			err = renderDataSourceList(s.r, sources)
		}
		if err != nil {
			s.r.Error(err.Error())
		}

	case ".show":
		if len(parts) < 2 {
			s.r.Error("usage: .show <name>")
			return false
		}
		ds, err := s.store.Get(ctx, parts[1])
		if err == nil {
			err = renderDataSource(s.r, ds.Redact())
		}
		if err != nil {
			s.r.Error(err.Error())
		}

	default:
		s.r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printShellHelp(r *output.Renderer) {
	r.Println(`
Commands:
  .help           Show this help message
  .list           List registered data sources
  .show <name>    Show a data source
  .quit / .exit   Exit the shell

Tips:
  - Statements must end with a semicolon (;)
  - CREATE DATASOURCE statements are registered immediately
  - Use arrow keys to navigate history`)
}

// newShellCompleter completes dot-commands and data source names.
func newShellCompleter(ctx context.Context, store *catalog.Store) *readline.PrefixCompleter {
	var names []readline.PrefixCompleterInterface
	if sources, err := store.List(ctx); err == nil {
		for _, ds := range sources {
			names = append(names, readline.PcItem(ds.Name))
		}
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".list"),
		readline.PcItem(".show", names...),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("CREATE DATASOURCE"),
	)
}
