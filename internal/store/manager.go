package store

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
)

// StoreManager holds the scan store and the verdict history store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	scans        contract.ScanStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetScanStore returns the scan store.
func (mgr *StoreManager) GetScanStore() contract.ScanStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.scans
}

// GetHistoryStore returns the verdict history store.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the scan and history stores.
// An empty backend leaves the matching store unset.
func InitStores(scanBackend schema.DatabaseBackend, scanConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var scans contract.ScanStore
		if scanBackend != "" {
			s, err := NewScanStore(scanBackend, scanConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize scan store: %w", err)
				return
			}
			scans = s
		}

		var history contract.HistoryStore
		if historyBackend != "" {
			h, err := NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				if scans != nil {
					_ = scans.Close()
				}
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
			history = h
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.scans = scans
		Manager.history = history
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.scans != nil {
			_ = Manager.scans.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearScans removes all stored submissions and scans.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the tables.
func ClearScans(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, []string{scansTable, submissionsTable})
}

// ClearHistory removes all recorded runs and verdicts.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the tables.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, []string{verdictsTable, runsTable})
}

func clearStore(backend schema.DatabaseBackend, dbFilePath, connStr string, tables []string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		dsn, err := mysqlDSN(connStr, false)
		if err != nil {
			return err
		}
		return dropTables("mysql", dsn, backend, tables)

	case schema.PostgreSQLBackend:
		return dropTables("pgx", connStr, backend, tables)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// dropTables connects to the SQL database and drops the tables if they exist.
func dropTables(driverName, connStr string, backend schema.DatabaseBackend, tables []string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range tables {
		if err := validateTableName(table); err != nil {
			return err
		}
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
