package commands

import (
	"time"

	"sopaggregator/lib/serviceutil"
	"sopaggregator/lib/telemetry"
	"sopaggregator/services/sopweb"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [--port <port>]",
		Short: "Serves the page over http, fetching the feed on every page load.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := getGlobals(cmd.Context())
			if !cmd.Flags().Changed("port") {
				port = g.config.Port
			}

			ctx, stop := serviceutil.SignalContext(cmd.Context())
			defer stop()

			telemetry.InstrumentPerfStats(ctx, 30*time.Second)

			service := sopweb.NewService(g.client, g.location)
			return serviceutil.StartHttpServer(ctx, port, service.Handler())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "The port to listen on. Defaults to the config's port.")
	return cmd
}
