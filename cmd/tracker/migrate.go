package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Long:  "Applies pending migrations for the configured driver. Every other command also migrates on start.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		printer(cmd).PrintMessage(true, "Database schema is up to date ("+a.cfg.Driver+").")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
