// Package commands implements the discovery command line.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/samujjwal/rental-sub006/config"
	"github.com/samujjwal/rental-sub006/internal/server"
	"github.com/samujjwal/rental-sub006/logging/logger"
	"github.com/samujjwal/rental-sub006/logging/observes"
	"github.com/samujjwal/rental-sub006/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "discovery",
		Short:         "Rental listing search and discovery service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(
		newServeCommand(&configFile),
		newReindexCommand(&configFile),
		newMigrateCommand(&configFile),
		newVersionCommand(),
	)
	return rootCmd
}

// app is the runtime shared by the commands.
type app struct {
	cfg        *config.Config
	logger     *logger.Logger
	components *server.Components
	cleanup    []func()
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

// bootstrap loads configuration, sets up logging and observability and
// builds the component graph.
func bootstrap(ctx context.Context, configFile string) (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	info := version.GetVersionInfo()
	l.SetVersion(info.Version)
	a := &app{cfg: cfg, logger: l, cleanup: []func(){closeLog}}

	shutdownTracer, err := observes.NewTracer(cfg.Observes.Tracer, info.Version)
	if err != nil {
		l.Warn(ctx, "tracing disabled", "error", err)
	}
	a.cleanup = append(a.cleanup, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	})

	if err := observes.NewSentry(cfg.Observes.Sentry, cfg.AppName); err != nil {
		l.Warn(ctx, "sentry disabled", "error", err)
	}
	a.cleanup = append(a.cleanup, func() { observes.FlushSentry(2 * time.Second) })

	config.Watch(cfg, func(next *config.Config) {
		l.SetLevel(logrus.Level(next.Logger.Level))
		l.Info(context.Background(), "log level reloaded", "level", l.GetLevel().String())
	})

	c, err := server.Build(ctx, cfg, l)
	if err != nil {
		a.close()
		return nil, err
	}
	a.components = c
	a.cleanup = append(a.cleanup, func() {
		for _, err := range c.Close() {
			l.Warn(context.Background(), "close error", "error", err)
		}
	})
	return a, nil
}

func newVersionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetVersionInfo()
			if !asJSON {
				cmd.Println(info.String())
				return nil
			}
			out, err := info.JSON()
			if err != nil {
				return err
			}
			cmd.Println(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
