package cmd

import (
	"context"
	"errors"
	"fmt"

	"toolmove/internal/core/config"
	"toolmove/internal/core/logger"
	"toolmove/internal/database"
	"toolmove/internal/repository"
	"toolmove/internal/users"
	"toolmove/pkg/roles"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var SeedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account if it does not exist yet.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadEnv()
		log := logger.NewLogger(cfg.Logger)
		defer log.Sync()

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			email = cfg.Seed.AdminEmail
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = cfg.Seed.AdminPassword
		}

		db, err := database.NewPostgresConnection(cmd.Context(), cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		return seedAdmin(cmd.Context(), users.NewRepository(repository.NewRepository(db)), email, password, log)
	},
}

type adminSeeder interface {
	EnsureUser(ctx context.Context, email string, hashedPassword []byte, role roles.Role) (bool, error)
}

func seedAdmin(ctx context.Context, repo adminSeeder, email, password string, log *zap.Logger) error {
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created, err := repo.EnsureUser(ctx, email, hash, roles.Admin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if created {
		log.Info("admin account created", zap.String("email", email))
	} else {
		log.Debug("admin account already present", zap.String("email", email))
	}
	return nil
}
