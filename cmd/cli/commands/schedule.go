package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/core/services"
)

// CurrentCmd creates the current command
func CurrentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the assignment currently in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			a, err := app.Ledger.CurrentAssignment(app.Ctx, app.Today())
			if errors.Is(err, ledger.ErrNoAssignment) {
				fmt.Fprintln(out, "Nothing has been scheduled yet.")
				return nil
			}
			if err != nil {
				return userError(err)
			}

			names, err := app.workerNames()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nCurrent assignment:")
			printAssignmentLine(out, *a, names)
			fmt.Fprintln(out)
			return nil
		},
	}
}

// ScheduleCmd creates the schedule command
func ScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show this week's and next week's kitchen duty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			today := app.Today()

			result, err := services.Schedule(app.Ctx, app.Database, app.Calendar, app.Ledger, today, app.Location, app.Logger)
			if err != nil {
				return userError(err)
			}
			names, err := app.workerNames()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nKitchen duty from %s\n\n", calendar.FormatDate(calendar.MondayOf(today)))
			for i, day := range result.Days {
				if i == 5 {
					fmt.Fprintln(out)
				}

				marker := "  "
				if day.Date.Equal(today) {
					marker = "> "
				}

				switch {
				case day.Holiday != "":
					fmt.Fprintf(out, "%s%s  %s%s%s\n", marker, formatDay(day.Date), colorDim, day.Holiday, colorReset)
				case day.Assignment == nil:
					fmt.Fprintf(out, "%s%s  %s-%s\n", marker, formatDay(day.Date), colorDim, colorReset)
				default:
					fmt.Fprintf(out, "%s%s  %-20s %s%s%s\n", marker, formatDay(day.Date),
						nameOr(names, day.Assignment.WorkerID, "(unfilled)"),
						statusColor(day.Assignment.Status), day.Assignment.Status, colorReset)
				}
			}

			fmt.Fprintln(out)
			if result.Current != nil {
				fmt.Fprintf(out, "Current: %s (%s)\n", nameOr(names, result.Current.WorkerID, "(unfilled)"), result.Current.Date)
			}
			fmt.Fprintf(out, "Today: %s, %s\n\n",
				plural(result.BonesToday, "bone", "bones"),
				plural(result.NudgesToday, "nudge", "nudges"))

			app.Logger.Debug("Schedule shown", zap.Int("days", len(result.Days)))
			return nil
		},
	}
}

// FullScheduleCmd creates the fullSchedule command
func FullScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fullSchedule",
		Short: "Show every assignment from a week ago onwards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			assignments, err := services.FullSchedule(app.Ctx, app.Database, app.Today(), app.Logger)
			if err != nil {
				return userError(err)
			}
			if len(assignments) == 0 {
				fmt.Fprintln(out, "No assignments scheduled.")
				return nil
			}

			names, err := app.workerNames()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d assignments:\n\n", len(assignments))
			for _, a := range assignments {
				printAssignmentLine(out, a, names)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// KitchenCmd creates the kitchen command
func KitchenCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "kitchen",
		Short: "Show who is on kitchen duty today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			result, err := services.Kitchen(app.Ctx, app.Database, app.Calendar, app.Ledger, app.Today())
			if err != nil {
				return userError(err)
			}

			if !result.IsWorkday {
				fmt.Fprintf(out, "%s is not a workday.\n", formatDay(result.Date))
			}

			switch {
			case result.Assignment == nil:
				fmt.Fprintln(out, "Nobody is scheduled yet.")
			case result.Worker == nil:
				fmt.Fprintf(out, "%s is %sunfilled%s, waiting for someone to accept it.\n", result.Assignment.Date, colorYellow, colorReset)
			case result.OnDutyToday():
				fmt.Fprintf(out, "%s is on kitchen duty today.\n", result.Worker.Name)
			default:
				fmt.Fprintf(out, "%s has had kitchen duty since %s.\n", result.Worker.Name, result.Assignment.Date)
			}
			return nil
		},
	}
}

// NonWorkdayCmd creates the nonWorkday command
func NonWorkdayCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "nonWorkday <date>",
		Short: "Explain why a date has no kitchen duty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}

			result, err := services.NonWorkday(app.Calendar, date)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is not a workday:\n", formatDay(result.Date))
			if result.IsWeekend {
				fmt.Fprintln(out, "  - it is a weekend")
			}
			if result.IsHoliday {
				fmt.Fprintf(out, "  - it is a holiday (%s)\n", result.HolidayName)
			}
			return nil
		},
	}
}
