package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	_ "eventmgt/docs"
	"eventmgt/internal/app"
	"eventmgt/migrations"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var (
		migrate    bool
		withWorker bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the HTTP API on PORT and shuts down gracefully on SIGINT or SIGTERM.

With NOTIFICATION_TRANSPORT=amqp notifications are queued; pass --with-worker
to consume them in the same process instead of running "eventmgt worker".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application, err := app.New(ctx, cfg, logger, app.DefaultConnectPolicy)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer application.Close()

			if migrate {
				if _, err := migrations.Apply(ctx, application.DB, logger); err != nil {
					return err
				}
			}
			if withWorker {
				if application.Queue == nil {
					return errors.New("--with-worker requires NOTIFICATION_TRANSPORT=amqp")
				}
				go func() {
					if err := application.Queue.Consume(ctx, application.Notifications.Deliver); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("notification consumer stopped", "err", err)
					}
				}()
			}

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           application.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(ctx, srv)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending database migrations before serving")
	cmd.Flags().BoolVar(&withWorker, "with-worker", false, "Consume queued notifications in this process")
	return cmd
}

// runServer serves until ctx is done, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment, "transport", cfg.NotificationTransport)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
