package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"eventmgt/config"
)

// Loaded by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd is the base command; every operation is a subcommand.
var rootCmd = &cobra.Command{
	Use:   "eventmgt",
	Short: "Event listings, registrations and notifications",
	Long: `eventmgt serves the public event API, runs the notification worker
and performs maintenance tasks such as migrations and registration cleanup.

Configuration is read from the environment (and a .env file outside production).`,
	// Errors are reported by Execute; usage is only useful for flag mistakes.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		logger = config.NewLogger()
		return nil
	},
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits non-zero on failure. SIGINT and
// SIGTERM cancel the command context.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "eventmgt version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newWorkerCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newAdminCmd())
}
