package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"eventmgt/internal/app"
)

func newCleanupCmd() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Expire unconfirmed registrations past their confirmation window",
		Long: `Marks unconfirmed registrations whose confirmation window has passed as hidden,
or deletes them together with their dependent registrations when --delete is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application, err := app.New(ctx, cfg, logger, app.DefaultConnectPolicy)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer application.Close()

			result, err := application.Registrations.CleanupExpired(ctx, remove)
			if err != nil {
				return err
			}
			action := "hidden"
			if result.Deleted {
				action = "deleted"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d expired registrations %s\n", result.Processed, action)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete expired registrations instead of hiding them")
	return cmd
}
