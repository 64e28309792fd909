package cmd

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	jobcmd "github.com/coursetrans/coursetrans/cmd/job"
	"github.com/coursetrans/coursetrans/internal/service/translation"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the batch worker",
}

// workerRunCmd represents the worker run command
var workerRunCmd = &cobra.Command{
	Use:   "run [JOB_ID...]",
	Short: "Drain the in-process job queue until interrupted",
	Long: `Start a worker that runs course job batches one at a time.
Any job ids given as arguments are enqueued before draining starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		buffer, _ := cmd.Flags().GetInt("queue-size")
		queue := translation.NewChannelQueue(buffer)

		services, cleanup, err := jobcmd.NewServiceFactory().CreateServices(ctx, queue)
		if err != nil {
			return err
		}
		defer cleanup()

		for _, arg := range args {
			jobID, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id: %s", arg)
			}
			if err := queue.Enqueue(ctx, jobID); err != nil {
				return err
			}
		}

		cmd.Println("Worker started; press Ctrl+C to stop")
		queue.Run(ctx, services.Jobs)
		cmd.Println("Worker stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.AddCommand(workerRunCmd)

	workerRunCmd.Flags().Int("queue-size", 64, "In-process queue buffer size")
}
