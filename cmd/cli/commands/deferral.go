package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/services"
)

// EligiblesCmd creates the eligibles command
func EligiblesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "eligibles <date>",
		Short: "Show who could take over a day, with their deferral weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}

			result, err := services.Eligibles(app.Ctx, app.Ledger, date, app.Now())
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nEligible to cover %s (minimum weight %.3f):\n\n", result.Assignment.Date, result.MinWeight)
			fmt.Fprintf(out, "  %-20s %-36s %8s %10s\n", "Name", "ID", "Weight", "Relative")
			for _, target := range result.Targets {
				fmt.Fprintf(out, "  %-20s %-36s %8.3f %10.2f\n", target.Worker.Name, target.Worker.ID, target.Weight, target.Normalized)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// DeferCmd creates the defer command
func DeferCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defer <defer_code>",
		Short: "Skip your kitchen duty; you will owe a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			confirmed, _ := cmd.Flags().GetBool("confirm")
			out := cmd.OutOrStdout()

			a, err := app.Ledger.LookupDeferCode(app.Ctx, code)
			if err != nil {
				return userError(err)
			}
			names, err := app.workerNames()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%s is on kitchen duty on %s.\n", nameOr(names, a.WorkerID, "(nobody)"), a.Date)
			fmt.Fprintln(out, "Deferring records a debit: you will owe a day.")

			if !confirmed {
				ok, err := confirm(out, app, "Type 'yes' to defer: ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Not deferred.")
					return nil
				}
			}

			app.Logger.Debug("defer command", zap.String("date", a.Date))
			result, err := app.Ledger.Defer(app.Ctx, code, app.Now())
			if err != nil {
				return userError(err)
			}

			fmt.Fprintf(out, "\n✓ Deferred %s. %s has been asked to cover.\n\n", result.Assignment.Date, result.Proposed.Worker.Name)
			return nil
		},
	}

	cmd.Flags().Bool("confirm", false, "Defer without asking for confirmation")
	return cmd
}

// AcceptCmd creates the accept command
func AcceptCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <date> <worker_id>",
		Short: "Take over a deferred day and earn a credit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}

			result, err := app.Ledger.Accept(app.Ctx, date, args[1], app.Now())
			if err != nil {
				return userError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ %s is now covered by %s.\n\n", result.Assignment.Date, args[1])
			return nil
		},
	}
}

// confirm prompts on out and reads one line from the shared input
func confirm(out io.Writer, app *AppContext, prompt string) (bool, error) {
	if app.Input == nil {
		return false, errors.New("confirmation needed: rerun with --confirm")
	}
	fmt.Fprint(out, prompt)
	line, err := app.Input.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}
