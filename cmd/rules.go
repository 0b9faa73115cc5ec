package cmd

import (
	"github.com/huangsam/botscan/core"
	"github.com/spf13/cobra"
)

// rulesCmd lists the detection rules.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the detection rules and the platforms they apply to.",
	Long: `Print every detector with its thresholds and the platforms it runs on.

Examples:
  # Show the rule table
  botscan rules

  # Export rules as JSON
  botscan rules --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runExecutor(core.ExecuteRules, "Cannot list rules")
	},
}
