package cmd

import (
	"context"
	"fmt"
	"os"

	"toolmove/internal/core/config"
	"toolmove/internal/core/logger"
	"toolmove/internal/database"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadEnv()
		log := logger.NewLogger(cfg.Logger)
		defer log.Sync()

		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			cfg.Postgres.MigrationsDir = dir
		}

		if err := database.RunMigrations(cfg.Postgres, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:          "toolmove",
		Short:        "Tool move and weld touchup tracking service",
		SilenceUsage: true,
		RunE:         ServeCmd.RunE,
	}

	MigrateCmd.Flags().String("dir", "", "Directory containing the migration files (defaults to MIGRATIONS_DIR)")
	ServeCmd.Flags().Bool("skip-migrations", false, "Start without applying pending migrations")
	rootCmd.Flags().AddFlagSet(ServeCmd.Flags())
	SeedAdminCmd.Flags().String("email", "", "Admin email (defaults to SEED_ADMIN_EMAIL)")
	SeedAdminCmd.Flags().String("password", "", "Admin password (defaults to SEED_ADMIN_PASSWORD)")

	rootCmd.AddCommand(ServeCmd, MigrateCmd, SeedAdminCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
