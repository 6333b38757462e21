package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/services"
)

// AddWorkerCmd creates the addWorker command
func AddWorkerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addWorker <name> <email>",
		Short: "Add a worker to the kitchen rotation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			worker, err := services.AddWorker(app.Ctx, app.Database, args[0], args[1], app.Logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s <%s> with ID %s\n", worker.Name, worker.Email, worker.ID)
			return nil
		},
	}
}

// ScheduleAssignmentsCmd creates the scheduleAssignments command
func ScheduleAssignmentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scheduleAssignments <from> <to>",
		Short: "Schedule every unscheduled workday between two dates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			to, err := calendar.ParseDate(args[1])
			if err != nil {
				return err
			}
			if to.Before(from) {
				return fmt.Errorf("%s is before %s", args[1], args[0])
			}

			created, err := services.ScheduleAssignments(app.Ctx, app.Database, app.Calendar, from, to, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "Every workday in that range is already scheduled.")
				return nil
			}

			names, err := app.workerNames()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n✓ Scheduled %d days:\n\n", len(created))
			for _, a := range created {
				printAssignmentLine(out, a, names)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Info("Running migrations", zap.String("driver", app.Cfg.DatabaseDriver))
			if err := app.Database.RunMigrations(app.Ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Database is up to date.")
			return nil
		},
	}
}

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:       "export <" + strings.Join(services.ExportKinds, "|") + ">",
		Short:     "Print every record of one kind as YAML",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: slices.Clone(services.ExportKinds),
		RunE: func(cmd *cobra.Command, args []string) error {
			return services.Export(app.Ctx, app.Database, args[0], cmd.OutOrStdout(), app.Logger)
		},
	}
}
