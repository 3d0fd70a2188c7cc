package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appHTTP "github.com/cmlabs-hris/leave-management-go/internal/handler/http"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(ctx context.Context) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, cfg.DatabaseURL(), false); err != nil {
			return err
		}
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newServices(db)
	if err != nil {
		return err
	}
	defer svc.Close()

	router := appHTTP.NewRouter(cfg, logger, svc.jwt, svc.redis, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(svc.jwt, svc.auth),
		Leave:        appHTTP.NewLeaveHandler(svc.leaveTypes, svc.balances, svc.requests),
		Team:         appHTTP.NewTeamHandler(svc.teams),
		User:         appHTTP.NewUserHandler(svc.users),
		Profile:      appHTTP.NewProfileHandler(svc.profiles),
		Dashboard:    appHTTP.NewDashboardHandler(svc.dashboard, svc.holidays),
		Notification: appHTTP.NewNotificationHandler(svc.hub, svc.jwt),
	})

	scheduler := cron.NewScheduler()
	jobs := cron.NewLeaveJobs(postgresql.NewUserRepository(db), svc.balances, postgresql.NewRefreshTokenRepository(db))
	jobs.RegisterJobs(scheduler)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
