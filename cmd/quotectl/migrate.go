package main

import (
	"github.com/spf13/cobra"

	"sink_quoter/internal/database"
	"sink_quoter/internal/migrations"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	defaults := migrations.DefaultSeedOptions()
	seedCmd.Flags().String("company", defaults.CompanyName, "company name")
	seedCmd.Flags().String("admin-user", defaults.AdminUsername, "admin username")
	seedCmd.Flags().String("admin-email", defaults.AdminEmail, "admin email")
	seedCmd.Flags().String("admin-password", defaults.AdminPassword, "admin password")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, logger, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return migrations.RunMigrations(db, logger)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a company, its admin user and a starter catalog",
	Long:  `Seeds default data. Does nothing when the admin user already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, logger, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		opts := migrations.SeedOptions{}
		opts.CompanyName, _ = cmd.Flags().GetString("company")
		opts.AdminUsername, _ = cmd.Flags().GetString("admin-user")
		opts.AdminEmail, _ = cmd.Flags().GetString("admin-email")
		opts.AdminPassword, _ = cmd.Flags().GetString("admin-password")

		if err := migrations.RunMigrations(db, logger); err != nil {
			return err
		}
		return migrations.Seed(commandContext(cmd), db, logger, opts)
	},
}
