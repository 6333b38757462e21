package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thecleanest/thecleanest/pkg/core/services"
)

// BoneCmd creates the bone command
func BoneCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bone <worker_id>",
		Short: "Thank a worker for a clean kitchen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := services.Bone(app.Ctx, app.Database, args[0], app.Now(), app.Logger); err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Bone given.")
			return nil
		},
	}
}

// NudgeCmd creates the nudge command
func NudgeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "nudge <worker_id>",
		Short: "Remind a worker about the kitchen (emails them when Gmail is set up)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mailer services.Mailer
			if app.Mailer != nil {
				m, err := app.Mailer()
				if err != nil {
					return fmt.Errorf("failed to set up email: %w", err)
				}
				mailer = m
			}

			if _, err := services.Nudge(app.Ctx, app.Database, mailer, args[0], app.Now(), app.Logger); err != nil {
				return userError(err)
			}

			if mailer != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Nudged and emailed.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Nudged.")
			}
			return nil
		},
	}
}
