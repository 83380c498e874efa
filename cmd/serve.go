package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toolmove/internal/core/config"
	"toolmove/internal/core/container"
	"toolmove/internal/core/logger"
	"toolmove/internal/core/routes"
	"toolmove/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the notification dispatcher.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadEnv()
		log := logger.NewLogger(cfg.Logger)
		defer log.Sync()

		skipMigrations, _ := cmd.Flags().GetBool("skip-migrations")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log, !skipMigrations)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) error {
	if migrate {
		if err := database.RunMigrations(cfg.Postgres, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	db, err := database.NewPostgresConnection(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to the database")

	c, err := container.NewAppContainer(db, cfg, log)
	if err != nil {
		return err
	}

	if cfg.Seed.AdminEmail != "" && cfg.Seed.AdminPassword != "" {
		if err := seedAdmin(ctx, c.UsersRepository, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, log); err != nil {
			return err
		}
	}

	router, err := routes.NewRouter(cfg.Server, c, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Host,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Dispatcher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		c.LoginRateLimiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
