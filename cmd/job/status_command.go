package job

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status job command
func NewStatusCommand(factory *ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [JOB_ID]",
		Short: "Show the progress of a translation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id: %s", args[0])
			}

			ctx := context.Background()
			services, cleanup, err := factory.CreateServices(ctx, NewDeferredQueue())
			if err != nil {
				return err
			}
			defer cleanup()

			progress, err := services.Progress.JobProgress(ctx, jobID)
			if err != nil {
				return fmt.Errorf("failed to get job status: %w", err)
			}

			cmd.Printf("Job %d: %s\n", progress.JobID, progress.Status)
			cmd.Printf("Progress: %d/%d keys (%.1f%%)\n", progress.Processed, progress.Total, progress.Percent)
			cmd.Printf("Failed language batches: %d\n", progress.Failures)
			if progress.LastError != "" {
				cmd.Printf("Last error: %s\n", progress.LastError)
			}
			return nil
		},
	}

	return cmd
}
