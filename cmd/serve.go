package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	jobcmd "github.com/coursetrans/coursetrans/cmd/job"
	"github.com/coursetrans/coursetrans/internal/api"
	"github.com/coursetrans/coursetrans/internal/service/translation"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with an embedded batch worker",
	Long: `Start the HTTP API. Jobs created through the API are processed by
an in-process worker draining the job queue one batch at a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr, _ := cmd.Flags().GetString("addr")

		queue := translation.NewChannelQueue(0)
		services, cleanup, err := jobcmd.NewServiceFactory().CreateServices(ctx, queue)
		if err != nil {
			return err
		}
		defer cleanup()

		go queue.Run(ctx, services.Jobs)

		handler := api.NewHandler(services.Jobs, services.Progress, services.Translations)
		router := api.NewRouter(handler)

		cmd.Printf("Listening on %s\n", addr)
		return router.Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address for the HTTP API")
}
