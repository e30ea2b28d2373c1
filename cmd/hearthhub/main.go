// Command hearthhub runs the personal automation hub: the agent router, the
// scheduler, the task review loop, and the channel-mode dispatcher, all in
// one process. Just type "hearthhub" to start everything.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raro42/hearthhub/internal/logging"
)

func main() {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:   "hearthhub",
		Short: "Personal automation hub",
		Long: `hearthhub runs a local agent router backed by Ollama, a file-backed
task scheduler and review loop, and a channel-mode dispatcher for Discord and
Slack.

Just type 'hearthhub' to start everything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if quiet {
				logging.Disable()
			}
			logging.SetVerbose(verbose)
			return runAll(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "log per-iteration scheduler/router/dispatcher detail")
	root.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress all logging")

	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hearthhub:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("hearthhub dev")
		},
	}
}
