package commands

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/samujjwal/rental-sub006/listing/indexer"
	"github.com/spf13/cobra"
)

func newReindexCommand(configFile *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reindex [listing-id...]",
		Short: "Project listings from the database into the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass listing ids or --all, not both")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, *configFile)
			if err != nil {
				return err
			}
			defer a.close()

			ix := a.components.Indexer
			if ix == nil {
				return errors.New("reindex requires a database and a search engine")
			}
			if err := ix.EnsureIndex(ctx); err != nil {
				return err
			}

			var report indexer.Report
			if all {
				report, err = ix.ReindexAll(ctx)
			} else {
				report, err = ix.BulkIndexListings(ctx, args)
			}
			cmd.Printf("indexed=%d removed=%d failed=%d\n", report.Indexed, report.Removed, report.Failed)
			return err
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reindex every listing")
	return cmd
}
