package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/internal/store"
	"github.com/huangsam/botscan/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// An unset history backend means tracking is disabled.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeSettings("history-backend", "history-db-connect", schema.NoneBackend)
	if err != nil {
		return err
	}

	// Initialize the history store only (no scan store for history commands)
	if err := store.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}
	storeManager = store.Manager

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyMigrateSetup loads the history backend without opening the store,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeSettings("history-backend", "history-db-connect", schema.NoneBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on verdict history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded evaluation runs and verdicts",
	Long: `Manage the verdict history written by batch --record.

Each recorded run stores:
- Run metadata (start and end time, configuration, totals)
- One verdict per evaluated submission

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  export  - Export runs and verdicts to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check history status
  botscan history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  botscan history export --history-backend sqlite --output-file verdicts`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display verdict history statistics and connection details",
	Long: `Show detailed information about recorded runs.

Displays:
- Backend type and connection status
- Number of runs and verdicts
- Number of flagged verdicts
- Timestamps of the oldest and latest runs

Examples:
  # Check history status
  botscan history status --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		store.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs and verdicts to Parquet for BI tools",
	Long: `Export all recorded runs and verdicts to Parquet files.

Writes two files next to --output-file:
- <output-file>.runs.parquet     - one row per run
- <output-file>.verdicts.parquet - one row per verdict

Requires: --output-file parameter

Examples:
  # Export all data
  botscan history export --history-backend sqlite --output-file verdicts

  # Query with DuckDB
  duckdb -c "SELECT status, count(*) FROM read_parquet('verdicts.verdicts.parquet') GROUP BY 1"`,
	Args:    cobra.NoArgs,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExportHistory(os.Stdout, store.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export verdict history", err)
		}
	},
}

// historyClearCmd clears the verdict history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs and verdicts",
	Long: `Delete all recorded runs and verdicts.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  botscan history export --history-backend sqlite --output-file backup
  botscan history clear --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := sqliteFilePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath())
		if err := store.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear verdict history", err)
		}
		fmt.Println("Verdict history cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run verdict history schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the verdict history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  botscan history migrate --history-backend sqlite

  # Migrate to specific version
  botscan history migrate --history-backend postgresql --target-version 1`,
	Args:    cobra.NoArgs,
	PreRunE: historyMigrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := store.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
