package commands

import (
	"fmt"

	"gtd-web/internal/config"
	"gtd-web/internal/store"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo tasks into an empty SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Storage.Backend != config.BackendSQLite {
			return fmt.Errorf("seed needs the sqlite backend, got %q", cfg.Storage.Backend)
		}

		st, closeStore, err := store.Open(cfg.Storage, cfg.Logging.SQL)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := store.Seed(cmd.Context(), st, store.SeedTasks())
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already has tasks, nothing to do\n", cfg.Storage.Path)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d demo tasks to %s\n", n, cfg.Storage.Path)
		return nil
	},
}
