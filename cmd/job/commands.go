package job

import (
	"github.com/spf13/cobra"
)

// NewJobCommand creates the main job command
func NewJobCommand(factory *ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage course translation jobs",
		Long:  `Enqueue, run and inspect batch translation jobs for a course`,
	}

	// Add subcommands
	cmd.AddCommand(NewEnqueueCommand(factory))
	cmd.AddCommand(NewRunCommand(factory))
	cmd.AddCommand(NewStatusCommand(factory))
	cmd.AddCommand(NewItemsCommand(factory))
	cmd.AddCommand(NewMissingCommand(factory))

	return cmd
}
