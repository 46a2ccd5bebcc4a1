package commands

import (
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/vql/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Start an HTTP API for parsing scripts and reading the catalog.

Endpoints:
  POST /v1/parse               Parse the request body as a VQL script
  GET  /v1/datasources         List registered data sources
  GET  /v1/datasources/{name}  Show one data source
  GET  /healthz                Health check`,
		Example: `  vql serve
  vql serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if !cmd.Flags().Changed("addr") {
				addr = cmdCtx.Cfg.Serve.Addr
			}

			store, cleanup, err := cmdCtx.OpenCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmdCtx.Renderer.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)
			return server.New(server.Config{
				Addr:    addr,
				Catalog: store,
				Logger:  cmdCtx.Logger,
			}).Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from serve.addr)")

	return cmd
}
