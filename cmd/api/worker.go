package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/queue"
	serviceNotification "github.com/cmlabs-hris/leave-management-go/internal/service/notification"
	"github.com/spf13/cobra"
)

const workerPrefetch = 10

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued notification emails from RabbitMQ",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RabbitMQ.URL == "" {
			return fmt.Errorf("RABBITMQ_URL is required for the worker")
		}

		mailer, err := email.NewEmailService(cfg.SMTP, cfg.App.Name)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("notification worker started", "queue", cfg.RabbitMQ.Queue)
		consumer := queue.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, workerPrefetch)
		err = consumer.Run(ctx, serviceNotification.QueueHandler(serviceNotification.NewEmailChannel(mailer)))
		slog.Info("notification worker stopped")
		return err
	},
}
