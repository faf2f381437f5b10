package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Миграции схемы PostgreSQL",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Применить все миграции",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := withDB(cmd.Context(), postgresql.Migrate); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Миграции применены")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Откатить последнюю миграцию",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := withDB(cmd.Context(), postgresql.MigrateDown); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Последняя миграция откачена")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние миграций",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), postgresql.MigrationStatus)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Миграции есть только у postgres, драйвер хранилища здесь не учитывается.
func withDB(ctx context.Context, fn func(ctx context.Context, db *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := postgresql.Connect(ctx, cfg.Postgres, zap.NewNop())
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}
