package commands

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/internal/cli/output"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NewDataSourceCommand creates the datasource command and its subcommands.
func NewDataSourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasource",
		Aliases: []string{"ds"},
		Short:   "Inspect and manage registered data sources",
		Long: `Inspect and manage the data sources stored in the catalog.

Secret values (passwords, tokens) are masked in all output.`,
		Example: `  vql datasource list
  vql datasource show crm -o json
  vql ds drop crm`,
	}

	cmd.AddCommand(newDataSourceListCommand())
	cmd.AddCommand(newDataSourceShowCommand())
	cmd.AddCommand(newDataSourceDropCommand())

	return cmd
}

func newDataSourceListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered data sources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			sources, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return renderDataSourceList(cmdCtx.Renderer, sources)
		},
	}
}

func renderDataSourceList(r *output.Renderer, sources []*catalog.DataSource) error {
	redacted := make([]*catalog.DataSource, len(sources))
	for i, ds := range sources {
		redacted[i] = ds.Redact()
	}
	if ok, err := r.Structured(redacted); ok {
		return err
	}

	r.Header(1, fmt.Sprintf("Data sources (%d total)", len(sources)))
	if len(sources) == 0 {
		r.Println(r.Muted("No data sources registered. Run 'vql apply <file>' to add some."))
		return nil
	}

	rows := make([][]string, len(sources))
	for i, ds := range sources {
		target := ds.Properties.Host
		if ds.Properties.DatabaseName != "" {
			target += "/" + ds.Properties.DatabaseName
		}
		if ds.Properties.Path != "" {
			target = ds.Properties.Path
		}
		rows[i] = []string{ds.Name, displayType(ds.Type), target, strconv.Itoa(len(ds.Entries)), ds.UpdatedAt.Format(time.DateTime)}
	}
	r.Table([]string{"Name", "Type", "Target", "Entries", "Updated"}, rows)
	return nil
}

func newDataSourceShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a data source with its CONFIG entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			ds, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderDataSource(cmdCtx.Renderer, ds.Redact())
		},
	}
}

func renderDataSource(r *output.Renderer, ds *catalog.DataSource) error {
	if ok, err := r.Structured(ds); ok {
		return err
	}

	p := ds.Properties
	titleCaser := cases.Title(language.English)
	r.Header(1, fmt.Sprintf("%s (%s data source)", ds.Name, titleCaser.String(displayType(ds.Type))))
	r.KeyValue("ID", ds.ID)
	r.KeyValue("Type", displayType(ds.Type))
	for _, kv := range [][2]string{
		{"Driver", p.DriverClassName},
		{"URI", p.DataBaseURI},
		{"Host", p.Host},
		{"Database", p.DatabaseName},
		{"Version", p.DatabaseVersion},
		{"User", p.UserName},
		{"Password", p.UserPassword},
		{"Schema", p.Schema},
		{"Path", p.Path},
	} {
		if kv[1] != "" {
			r.KeyValue(kv[0], kv[1])
		}
	}
	if p.Port != 0 {
		r.KeyValue("Port", strconv.Itoa(p.Port))
	}
	r.KeyValue("Created", ds.CreatedAt.Format(time.DateTime))
	r.KeyValue("Updated", ds.UpdatedAt.Format(time.DateTime))
	r.Println()

	r.Header(2, "CONFIG")
	rows := make([][]string, len(ds.Entries))
	for i, e := range ds.Entries {
		rows[i] = []string{strconv.Itoa(i + 1), e.Name, e.Value}
	}
	r.Table([]string{"#", "Name", "Value"}, rows)

	if len(ds.Options) > 0 {
		r.Println()
		r.Header(2, "Options")
		for _, k := range slices.Sorted(maps.Keys(ds.Options)) {
			r.KeyValue(k, ds.Options[k])
		}
	}
	return nil
}

func newDataSourceDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "drop <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a data source from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("dropped data source %s", args[0]))
			return nil
		},
	}
}
