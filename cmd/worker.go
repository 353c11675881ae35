package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"eventmgt/internal/app"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued notification emails",
		Long: `Consumes notification jobs from the AMQP queue and sends them.
Requires NOTIFICATION_TRANSPORT=amqp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.NotificationTransport != app.TransportAMQP {
				return fmt.Errorf("worker requires NOTIFICATION_TRANSPORT=%s, got %q", app.TransportAMQP, cfg.NotificationTransport)
			}
			ctx := cmd.Context()
			application, err := app.New(ctx, cfg, logger, app.DefaultConnectPolicy)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer application.Close()

			logger.Info("notification worker started", "queue", cfg.AMQPQueue)
			err = application.Queue.Consume(ctx, application.Notifications.Deliver)
			if errors.Is(err, context.Canceled) {
				logger.Info("notification worker stopped")
				return nil
			}
			return err
		},
	}
}
