package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telbook/telbook/cmd/telbook/cmd/users"
	"github.com/telbook/telbook/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "telbook",
	Short: "Telbook per-user phone book API server",
	Long: `Telbook serves a token-authenticated REST API for per-user address books.
Every contact belongs to the user who created it and is invisible to everyone else.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().String("server-addr", "", "Server bind address (env: SERVER_ADDR)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (env: DEBUG)")

	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
