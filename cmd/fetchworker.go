package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Rui6filipe/Augusta/internal/football"
)

// fetchWorkerCmd is the hidden subcommand the fetcher re-executes this
// binary with. It reads one request from stdin, performs the HTTP call
// and writes the outcome to stdout; the parent kills the whole process
// on its hard deadline.
var fetchWorkerCmd = &cobra.Command{
	Use:    "fetch-worker",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return football.RunWorker(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(fetchWorkerCmd)
}
