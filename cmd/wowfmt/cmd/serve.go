package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		bind   string
		port   int
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browse API server",
		Long: `Load every known table from the data directory and serve layouts, rows
and exported snapshots over HTTP. Prometheus metrics are exposed on /metrics.

Examples:
  wowfmt serve --port=8080
  wowfmt serve --bind=0.0.0.0 --api-key=mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.container.Config()
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = bind
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Server.APIKey = apiKey
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server, err := a.container.Server(ctx)
			if err != nil {
				return err
			}
			return server.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Address to bind")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Require this X-API-Key on /api/v1 routes")
	return cmd
}
