package cmd

import (
	"github.com/huangsam/botscan/core"
	"github.com/spf13/cobra"
)

// reportCmd prints the full verdict of a single submission.
var reportCmd = &cobra.Command{
	Use:   "report <url|id>",
	Short: "Show the verdict, reasons and scan table of one submission.",
	Long: `Evaluate one stored submission and print everything behind its verdict.

The report includes:
- Verdict and the reason that decided it
- Every reason and informational note
- A summary of the series
- Each usable scan with the engagement ratios the detectors look at

Examples:
  # Report by URL
  botscan report https://www.instagram.com/p/abc123/

  # Report by submission id and save it as CSV
  botscan report ig-42 --output csv --output-file ig-42.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runExecutor(core.ExecuteReport, "Cannot build report")
	},
}
