package cmd

import (
	"github.com/huangsam/botscan/core"
	"github.com/spf13/cobra"
)

// evaluateCmd evaluates scan series loaded from files.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <series-file>...",
	Short: "Evaluate scan series from JSON or CSV files.",
	Long: `Run the botting detectors over scan series stored in local files.

Each file holds one or more series as JSON (a single object or an array) or
CSV with one scan per row. Series are evaluated without touching the scan store,
so this is the quickest way to check exported data.

Every series ends up with one verdict:
- flagged       - at least one window looked botted
- clean         - every window looked organic
- insufficient  - fewer than two usable scans
- error         - the series could not be evaluated

Examples:
  # Evaluate a single exported series
  botscan evaluate series.json

  # Treat every series as a TikTok submission
  botscan evaluate --platform tiktok scans.csv

  # Fail a pipeline when anything is flagged
  botscan evaluate --fail-on-reject --output json batch-*.json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runExecutor(core.ExecuteEvaluate, "Cannot evaluate series")
	},
}
