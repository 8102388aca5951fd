package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nrro-site/domain"
	"nrro-site/infrastructure"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume queued notifications and send them as email",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if a.cfg.RabbitMQURL == "" {
			return errors.New("RABBITMQ_URL is required for the worker")
		}
		rmq, err := infrastructure.NewRabbitMQ(a.cfg.RabbitMQURL, a.cfg.NotificationQueue, a.log)
		if err != nil {
			return err
		}
		defer rmq.Close()

		mailer := a.mailDispatcher()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a.log.WithField("queue", a.cfg.NotificationQueue).Info("worker started")
		err = rmq.Consume(ctx, func(ctx context.Context, n domain.Notification) error {
			return mailer.Dispatch(ctx, n)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
