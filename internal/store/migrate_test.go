package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
	assert.Error(t, MigrateScans(schema.NoneBackend, "", -1))
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history_migration.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Already at latest
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	// Step down, roll back, then back up
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 2))
}

func TestMigrateScans_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scans_migration.db")
	require.NoError(t, MigrateScans(schema.SQLiteBackend, dbPath, -1))
	assert.NoError(t, MigrateScans(schema.SQLiteBackend, dbPath, 0))
}

func TestMigrate_AfterStoreCreatedTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	h, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
}

func TestMigrateHistory_SQLiteInMemory(t *testing.T) {
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, ":memory:", -1))
}
