package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"storefront-api/internal/config"
	"storefront-api/internal/infra/database"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API server",
	Long: `Storefront API: accounts, catalog, carts and orders over JSON/HTTP.

Commands:
  serve    - Run the HTTP API
  migrate  - Create or update the database schema
  seed     - Load the starter catalog`,
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(config.Load())
		if err != nil {
			return err
		}
		defer database.Close(db)
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// openDatabase connects and migrates. Every command needs the schema in
// place, so migration is not optional.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("db: migrate: %w", err)
	}
	return db, nil
}
