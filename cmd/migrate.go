package main

import (
	"errors"

	"github.com/spf13/cobra"

	"nrro-site/infrastructure"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := infrastructure.Migrate(a.db); err != nil {
			return err
		}
		a.log.Info("migrations applied")

		if !migrateSeed {
			return nil
		}
		if a.cfg.IsProduction() {
			return errors.New("refusing to seed a production database")
		}
		return infrastructure.SeedLandingPages(a.db, a.log)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "insert sample content into an empty database")
}
