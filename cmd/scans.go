package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/botscan/core"
	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/internal/store"
	"github.com/huangsam/botscan/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSettings reads and validates a backend and its connection string from viper.
// An empty backend falls back to fallback.
func storeSettings(backendKey, connectKey string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString(backendKey))
	if backend == "" {
		backend = fallback
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid %s '%s'. must be sqlite, mysql, postgresql, none", backendKey, backend)
	}
	connStr := viper.GetString(connectKey)
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// sqliteFilePath returns the file a SQLite store lives in.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// scansSetup loads minimal configuration needed for scan store operations.
// This is used by commands that need scan access without full shared setup.
func scansSetup() error {
	backend, connStr, err := storeSettings("scan-backend", "scan-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}

	// Initialize the scan store only (no history tracking for scan commands)
	if err := store.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize scan store: %w", err)
	}
	storeManager = store.Manager

	cfg.ScanBackend = backend
	cfg.ScanDBConnect = connStr
	return nil
}

// scansSetupWrapper wraps scansSetup to provide PreRunE for scan commands.
func scansSetupWrapper(_ *cobra.Command, _ []string) error {
	return scansSetup()
}

// scansMigrateSetup loads the scan backend without opening the store,
// allowing migrations to run on a fresh database.
func scansMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeSettings("scan-backend", "scan-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	cfg.ScanBackend = backend
	cfg.ScanDBConnect = connStr
	return nil
}

// scansCmd focused on scan store management.
//
// Note: status, clear and migrate use minimal initialization (scansSetup) instead of
// the full sharedSetup. Import needs the full setup for --platform.
var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "Manage the scan store that batch and report read from",
	Long: `Manage the store of submissions and their periodic engagement scans.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  import  - Load series from JSON or CSV files
  status  - Show scan store statistics and connection info
  clear   - Remove all submissions and scans
  migrate - Run database schema migrations

Examples:
  # Load exported scans
  botscan scans import export.json

  # Check what is stored
  botscan scans status`,
}

// scansImportCmd imports series files into the scan store.
var scansImportCmd = &cobra.Command{
	Use:   "import <series-file>...",
	Short: "Import scan series from JSON or CSV files",
	Long: `Insert or update submissions and their scans from series files.

Scans are keyed by submission and scan index, so importing the same file twice
updates rows in place. Internal notes already stored are kept.

Examples:
  # Import a JSON export
  botscan scans import export.json

  # Import CSV scans collected for Snapchat
  botscan scans import --platform snapchat snap.csv

  # Import into MySQL (set connection string via env variable)
  BOTSCAN_SCAN_BACKEND=mysql BOTSCAN_SCAN_DB_CONNECT="..." botscan scans import export.json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runExecutor(core.ExecuteImport, "Failed to import scans")
	},
}

// scansStatusCmd shows scan store status.
var scansStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display scan store statistics and connection details",
	Long: `Show detailed information about the scan store.

Displays:
- Backend type and connection status
- Number of submissions and scans
- Timestamps of the oldest and latest scans

Examples:
  # Check scan store status
  botscan scans status`,
	Args:    cobra.NoArgs,
	PreRunE: scansSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Manager.GetScanStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get scan store status", err)
		}
		store.PrintScanStatus(os.Stdout, status)
	},
}

// scansClearCmd clears the scan store.
var scansClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored submissions and scans",
	Long: `Delete all submissions and scans from the configured backend.

WARNING: This also removes internal notes written by --record.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the scan tables

Examples:
  # Clear SQLite scan store (default)
  botscan scans clear`,
	Args:    cobra.NoArgs,
	PreRunE: scansMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := sqliteFilePath(cfg.ScanDBConnect, contract.GetScanDBFilePath())
		if err := store.ClearScans(cfg.ScanBackend, dbFilePath, cfg.ScanDBConnect); err != nil {
			contract.LogFatal("Failed to clear scan store", err)
		}
		fmt.Println("Scan store cleared successfully.")
	},
}

// scansMigrateCmd runs database migrations for the scan store.
var scansMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run scan store schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the scan store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  botscan scans migrate

  # Rollback to initial state
  botscan scans migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: scansMigrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := store.MigrateScans(cfg.ScanBackend, cfg.ScanDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
