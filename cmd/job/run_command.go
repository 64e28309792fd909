package job

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRunCommand creates the run job command
func NewRunCommand(factory *ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [JOB_ID]",
		Short: "Run a job's batches until it reaches a terminal state",
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

			// Each invocation consumes one page; drive the job to a
			// terminal state by re-invoking until it gets there
			for {
				progress, err := services.Progress.JobProgress(ctx, jobID)
				if err != nil {
					return err
				}
				if progress.Status == "complete" || progress.Status == "failed" {
					cmd.Printf("Job %d %s: %d/%d keys processed, %d failed language batches\n",
						jobID, progress.Status, progress.Processed, progress.Total, progress.Failures)
					if progress.LastError != "" {
						cmd.Printf("Last error: %s\n", progress.LastError)
					}
					return nil
				}

				if err := services.Jobs.RunBatch(ctx, jobID); err != nil {
					return fmt.Errorf("batch failed: %w", err)
				}
				after, err := services.Progress.JobProgress(ctx, jobID)
				if err != nil {
					return err
				}
				cmd.Printf("Batch done (%d/%d)\n", after.Processed, after.Total)
			}
		},
	}

	return cmd
}
