package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/internal/cli/config"
	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// OpenCatalog opens and migrates the catalog database.
// Returns the store and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenCatalog() (*catalog.Store, func(), error) {
	store := catalog.NewStore(c.Logger)
	if err := store.Open(c.Cfg.CatalogPath); err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// getConfig returns the loaded configuration, or defaults when commands run
// outside the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// readScript reads the script named by args: a file path, "-" for stdin,
// or stdin when args is empty. It returns a display name for errors.
func readScript(cmd *cobra.Command, args []string) (name, content string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}
	return args[0], string(data), nil
}

// configSummary lists entry names of a CONFIG block.
func configSummary(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
