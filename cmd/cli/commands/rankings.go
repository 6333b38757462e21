package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thecleanest/thecleanest/pkg/core/fairness"
	"github.com/thecleanest/thecleanest/pkg/core/services"
)

// FrequencyCmd creates the frequency command
func FrequencyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "frequency",
		Short: "Show how many assignments each worker holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			frequencies, err := services.Frequency(app.Ctx, app.Database)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nAssignments per worker:")
			for _, f := range frequencies {
				fmt.Fprintf(out, "  %-20s %3d\n", f.Worker.Name, f.Count)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// HallOfFameCmd creates the hallOfFame command
func HallOfFameCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hallOfFame",
		Short: "Show the most boned workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			boned, err := app.Fairness.MostBoned(app.Ctx)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nHall of fame (most boned):")
			printTallies(cmd, boned, colorGreen)
			fmt.Fprintln(out)
			return nil
		},
	}
}

// HallOfShameCmd creates the hallOfShame command
func HallOfShameCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hallOfShame",
		Short: "Show who owes the most days and who gets nudged the most",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deferred, err := app.Fairness.MostDeferred(app.Ctx)
			if err != nil {
				return userError(err)
			}
			nudged, err := app.Fairness.MostNudged(app.Ctx)
			if err != nil {
				return userError(err)
			}
			excused, err := app.Fairness.Excused(app.Ctx)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nMost deferred:")
			if len(deferred) == 0 {
				fmt.Fprintf(out, "  %snobody owes a day%s\n", colorDim, colorReset)
			}
			for _, s := range deferred {
				fmt.Fprintf(out, "  %-20s %s%+d%s\n", s.Worker.Name, balanceColor(s.Balance), s.Balance, colorReset)
			}

			fmt.Fprintln(out, "\nMost nudged:")
			printTallies(cmd, nudged, colorRed)

			if len(excused) > 0 {
				fmt.Fprintln(out, "\nExcused:")
				for _, w := range excused {
					fmt.Fprintf(out, "  %s\n", w.Name)
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func printTallies(cmd *cobra.Command, tallies []fairness.EventTally, color string) {
	out := cmd.OutOrStdout()
	if len(tallies) == 0 {
		fmt.Fprintf(out, "  %snone yet%s\n", colorDim, colorReset)
		return
	}
	for i, t := range tallies {
		fmt.Fprintf(out, "  %2d. %-20s %s%d%s\n", i+1, t.Worker.Name, color, t.Count, colorReset)
	}
}
