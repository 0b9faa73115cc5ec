// Package cmd defines the command-line interface for botscan.
package cmd

import (
	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(scansCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the scans subcommands to the parent scans command
	scansCmd.AddCommand(scansImportCmd)
	scansCmd.AddCommand(scansStatusCmd)
	scansCmd.AddCommand(scansClearCmd)
	scansCmd.AddCommand(scansMigrateCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display in tables")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for ratio columns (1-4)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Per-submission fetch timeout")
	rootCmd.PersistentFlags().StringP("platform", "p", "", "Platform override: twitter or facebook or instagram or tiktok or snapchat")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("scan-backend", string(schema.SQLiteBackend), "Scan store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("scan-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Verdict history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for verdict history (must differ from scan-db-connect)")
	rootCmd.PersistentFlags().Bool("simple", false, "Print one line per submission instead of a table")
	rootCmd.PersistentFlags().Bool("fail-on-reject", false, "Exit non-zero when any submission is flagged")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of batchCmd to Viper
	batchCmd.Flags().String("url-file", "", "File with one URL or submission id per line (# starts a comment)")
	batchCmd.Flags().Bool("record", false, "Persist verdicts and append reasons to the internal notes of flagged submissions")
	if err := viper.BindPFlags(batchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding batch flags", err)
	}

	// Migrate flags are read from the command itself since two commands share the name
	scansMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
