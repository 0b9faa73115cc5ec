package cmd

import (
	"github.com/huangsam/botscan/core"
	"github.com/spf13/cobra"
)

// batchCmd evaluates submissions held in the scan store.
var batchCmd = &cobra.Command{
	Use:   "batch [url|id]...",
	Short: "Evaluate stored submissions by URL or submission id.",
	Long: `Fetch the scan series of each submission from the scan store and evaluate them in parallel.

Targets come from positional arguments and from --url-file. Duplicates are
evaluated once and results keep the order they were given in.

With --record, every verdict is written to the history store and the reason trail
of flagged submissions is appended to their internal notes in the scan store.

Examples:
  # Evaluate two submissions
  botscan batch https://twitter.com/acme/status/1 tw-2

  # Evaluate a list of URLs with 8 workers and keep the verdicts
  botscan batch --url-file urls.txt --workers 8 --record --history-backend sqlite

  # Gate a campaign payout on the verdicts
  botscan batch --url-file payouts.txt --fail-on-reject --simple`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runExecutor(core.ExecuteBatch, "Cannot run batch evaluation")
	},
}
