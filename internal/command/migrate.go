package command

import (
	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-investment-go/pkg/database"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "apply, roll back or inspect the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down), string(database.Status)},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			dir := database.Up
			if len(args) == 1 {
				if dir, err = database.ParseDirection(args[0]); err != nil {
					return err
				}
			}

			db, err := database.Connect(cmd.Context(), e.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.Migrate(cmd.Context(), db.DB, dir, e.logger)
		},
	}
}
