package cmd

import (
	jobcmd "github.com/coursetrans/coursetrans/cmd/job"
)

func init() {
	rootCmd.AddCommand(jobcmd.NewJobCommand(jobcmd.NewServiceFactory()))
}
