package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Aliases: []string{"m"},
		Short:   "Create the listing tables and indexes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer a.close()

			repo := a.components.Repository
			if repo == nil {
				return errors.New("no database configured")
			}
			if err := repo.Migrate(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}
