package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/services"
)

// AssignmentCmd creates the assignment command
func AssignmentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assignment <id|date>",
		Short: "Show an assignment with its debits and credits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				detail *services.AssignmentDetail
				err    error
			)
			if date, parseErr := calendar.ParseDate(args[0]); parseErr == nil {
				detail, err = services.AssignmentDetailByDate(app.Ctx, app.Database, app.Ledger, date)
			} else {
				detail, err = services.AssignmentDetailByID(app.Ctx, app.Database, args[0])
			}
			if err != nil {
				return userError(err)
			}

			printAssignmentDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func printAssignmentDetail(out io.Writer, d *services.AssignmentDetail) {
	a := d.Assignment
	fmt.Fprintf(out, "\nAssignment %s\n\n", a.ID)
	fmt.Fprintf(out, "Date:     %s\n", a.Date)
	fmt.Fprintf(out, "Status:   %s%s%s\n", statusColor(a.Status), a.Status, colorReset)
	if d.Worker != nil {
		fmt.Fprintf(out, "Worker:   %s <%s>\n", d.Worker.Name, d.Worker.Email)
	} else {
		fmt.Fprintln(out, "Worker:   (unfilled)")
	}
	if d.DeferredWorker != nil {
		fmt.Fprintf(out, "Deferred: %s <%s>\n", d.DeferredWorker.Name, d.DeferredWorker.Email)
	}
	if d.ProposedWorker != nil {
		fmt.Fprintf(out, "Proposed: %s <%s>\n", d.ProposedWorker.Name, d.ProposedWorker.Email)
	}

	fmt.Fprintf(out, "\nDebits (%d):\n", len(d.Debits))
	for _, debit := range d.Debits {
		fmt.Fprintf(out, "  %s  %s  -%d\n", debit.CreatedAt, debit.WorkerID, debit.Amount)
	}
	fmt.Fprintf(out, "Credits (%d):\n", len(d.Credits))
	for _, credit := range d.Credits {
		fmt.Fprintf(out, "  %s  %s  +%d\n", credit.CreatedAt, credit.WorkerID, credit.Amount)
	}
	fmt.Fprintln(out)
}

// WorkerCmd creates the worker command
func WorkerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worker <worker_id>",
		Short: "Show a worker's balance, debits and credits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := services.GetWorkerDetail(app.Ctx, app.Database, app.Fairness, args[0])
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			w := detail.Worker
			fmt.Fprintf(out, "\n%s <%s>\n", w.Name, w.Email)
			fmt.Fprintf(out, "ID:      %s\n", w.ID)
			fmt.Fprintf(out, "Balance: %s%+d%s\n", balanceColor(detail.Balance), detail.Balance, colorReset)
			fmt.Fprintf(out, "Bones:   %d\n", detail.Bones)
			fmt.Fprintf(out, "Nudges:  %d\n", detail.Nudges)

			fmt.Fprintf(out, "\nDebits (%d):\n", len(detail.Debits))
			for _, debit := range detail.Debits {
				fmt.Fprintf(out, "  %s  assignment %s  -%d\n", debit.CreatedAt, debit.SkippedAssignmentID, debit.Amount)
			}
			fmt.Fprintf(out, "Credits (%d):\n", len(detail.Credits))
			for _, credit := range detail.Credits {
				fmt.Fprintf(out, "  %s  covered %s  +%d\n", credit.CreatedAt, credit.SkippedDate, credit.Amount)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
