package users

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/telbook/telbook/internal/config"
	"github.com/telbook/telbook/internal/db/bunx"
	"github.com/telbook/telbook/internal/repository"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		userRepo := repository.NewBunUserRepository(db)
		all, err := userRepo.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tSTATUS\tCREATED")
		for _, u := range all {
			status := "active"
			if u.Disabled() {
				status = "disabled"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				u.ID, u.Email, u.Name, status, u.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}
