package commands

import (
	"os/signal"
	"syscall"

	"github.com/samujjwal/rental-sub006/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the discovery HTTP server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, *configFile)
			if err != nil {
				return err
			}
			defer a.close()

			return server.New(a.cfg, a.logger, a.components).Run(ctx)
		},
	}
}
