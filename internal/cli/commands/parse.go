package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/leapstack-labs/vql/pkg/vql"
	"github.com/spf13/cobra"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a script and show its statements",
		Long: `Parse a VQL script and list the statements it contains.

CREATE DATASOURCE statements are shown with their CONFIG entries; every
other statement is parsed as standard SQL and shown by type. Nothing is
stored. Reads stdin when no file is given.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable statement list`,
		Example: `  # Parse a script
  vql parse datasources.vql

  # Parse from stdin as JSON
  echo "CREATE DATASOURCE crm CONFIG(Type = 'postgres')" | vql parse -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	name, script, err := readScript(cmd, args)
	if err != nil {
		return err
	}

	stmts, err := vql.Parse(script)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	cmdCtx.Logger.Debug("parsed script", "source", name, "statements", len(stmts))

	descs := vql.Redact(vql.Describe(stmts))
	if ok, err := r.Structured(descs); ok {
		return err
	}
	renderStatements(r, descs)
	return nil
}

func renderStatements(r *output.Renderer, descs []vql.Description) {
	r.Header(1, fmt.Sprintf("Statements (%d)", len(descs)))
	if len(descs) == 0 {
		return
	}

	rows := make([][]string, 0, len(descs))
	for i, d := range descs {
		pos := fmt.Sprintf("%d:%d", d.Line, d.Column)
		switch d.Kind {
		case vql.KindCreateDataSource:
			names := make([]string, len(d.ConfigParameters))
			for j, e := range d.ConfigParameters {
				names[j] = e.Name
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), "CREATE DATASOURCE", pos, d.TableName, configSummary(names)})
		default:
			rows = append(rows, []string{strconv.Itoa(i + 1), d.StatementType, pos, "", ""})
		}
	}
	r.Table([]string{"#", "Statement", "Position", "Data source", "Config"}, rows)
}
