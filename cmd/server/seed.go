package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront-api/internal/config"
	"storefront-api/internal/infra/database"
	"storefront-api/internal/seed"
)

var admin seed.Admin

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter catalog",
	Long: `Insert the starter categories and products. Rows that already exist are
left alone, so the command can be run repeatedly.

Examples:
  storefront seed
  storefront seed --admin-email admin@example.com --admin-password secret123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(config.Load())
		if err != nil {
			return err
		}
		defer database.Close(db)

		res, err := seed.Run(cmd.Context(), db, admin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d categories, %d products", res.Categories, res.Products)
		if res.Admin {
			fmt.Fprintf(cmd.OutOrStdout(), ", admin %s", admin.Email)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&admin.Email, "admin-email", "", "Create an admin account with this email")
	seedCmd.Flags().StringVar(&admin.Password, "admin-password", "", "Password for the admin account")
	seedCmd.Flags().StringVar(&admin.Name, "admin-name", "Administrator", "Display name for the admin account")
}
