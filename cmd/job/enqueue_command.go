package job

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coursetrans/coursetrans/internal/model"
)

// NewEnqueueCommand creates the enqueue job command
func NewEnqueueCommand(factory *ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue [COURSE_ID]",
		Short: "Enqueue a translation job for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid course id: %s", args[0])
			}

			// Get flags
			sourceLang, _ := cmd.Flags().GetString("source-lang")
			targetLangs, _ := cmd.Flags().GetStringSlice("target-lang")
			batchSize, _ := cmd.Flags().GetInt("batch-size")
			userID, _ := cmd.Flags().GetInt64("user-id")

			ctx := context.Background()
			services, cleanup, err := factory.CreateServices(ctx, NewDeferredQueue())
			if err != nil {
				return err
			}
			defer cleanup()

			// Fall back to configured defaults
			if sourceLang == "" {
				sourceLang = services.Defaults.SourceLang
			}
			if len(targetLangs) == 0 {
				targetLangs = services.Defaults.TargetLangs
			}
			if batchSize <= 0 {
				batchSize = services.Defaults.BatchSize
			}

			job, err := services.Jobs.Enqueue(ctx, courseID, userID, &model.JobOptions{
				SourceLang:  sourceLang,
				TargetLangs: targetLangs,
				BatchSize:   batchSize,
			})
			if err != nil {
				return fmt.Errorf("failed to enqueue job: %w", err)
			}

			cmd.Printf("Job enqueued (ID: %d, course: %d, %d keys, %d target languages)\n",
				job.ID, job.CourseID, job.Total, len(targetLangs))
			cmd.Println("Run it with: coursetrans job run", job.ID)
			return nil
		},
	}

	// Add flags
	cmd.Flags().String("source-lang", "", "Source language (defaults to configuration)")
	cmd.Flags().StringSlice("target-lang", nil, "Target language, repeatable (defaults to configuration)")
	cmd.Flags().Int("batch-size", 0, "Keys per batch (defaults to configuration)")
	cmd.Flags().Int64("user-id", 0, "User the job is attributed to")

	return cmd
}
