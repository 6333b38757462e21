package commands

import "github.com/spf13/cobra"

// Register adds every command to root
func Register(root *cobra.Command, app *AppContext) {
	root.AddCommand(
		CurrentCmd(app),
		ScheduleCmd(app),
		FullScheduleCmd(app),
		KitchenCmd(app),
		NonWorkdayCmd(app),
		AssignmentCmd(app),
		WorkerCmd(app),
		EligiblesCmd(app),
		DeferCmd(app),
		AcceptCmd(app),
		FrequencyCmd(app),
		HallOfFameCmd(app),
		HallOfShameCmd(app),
		BoneCmd(app),
		NudgeCmd(app),
		AddWorkerCmd(app),
		ScheduleAssignmentsCmd(app),
		MigrateCmd(app),
		ExportCmd(app),
		InteractiveCmd(app),
	)
}
