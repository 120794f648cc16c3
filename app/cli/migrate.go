package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lysyi3m/moodlehack/app/backfill"
	"github.com/lysyi3m/moodlehack/app/database"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			version, dirty, err := database.RunMigrations(db)
			if err != nil {
				return err
			}
			if dirty {
				return fmt.Errorf("schema version %d is dirty", version)
			}

			a.ok("Schema is at version %d", version)
			return nil
		},
	}
}

func (a *app) migratePeriodsCmd() *cobra.Command {
	var opts backfill.Options

	cmd := &cobra.Command{
		Use:   "migrate-periods",
		Short: "Copy deprecated period and actual values into month, year and status",
		Long: `Backfill month and year from the deprecated period reference, and status
from the deprecated actual flag.

Existing month, year and status values are overwritten when the deprecated
data disagrees with them. Safe to run multiple times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}

			runner := backfill.NewRunner(database.NewAnswerRepository(db), a.out, a.confirm)
			_, err = runner.Run(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Skip confirmation and execute migration")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would be done without executing")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Limit number of records to process (for testing)")
	cmd.Flags().BoolVar(&opts.SkipPeriods, "skip-periods", false, "Skip migration of period data (only migrate status)")
	cmd.Flags().BoolVar(&opts.SkipStatus, "skip-status", false, "Skip migration of status data (only migrate periods)")

	return cmd
}
