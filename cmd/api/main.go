package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	"github.com/go-chi/httplog/v3"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leave-management",
	Short: "Leave Management API",
	Long:  `HR leave management: leave types, balances, requests and their approval workflow.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = newLogger(cfg.App)
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, workerCmd, seedCmd, createAdminCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the JSON logger shared by the process and the request logger.
func newLogger(app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
