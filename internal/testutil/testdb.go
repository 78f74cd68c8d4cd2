package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tinytrail/internal/db"
)

// NewTestDB opens a migrated in-memory client storage database that is
// closed with the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	return openTestDB(t, db.MemoryPath)
}

// NewTestDBFile opens a migrated database file under t.TempDir and returns
// its path, so a test can reopen the same storage as a new process would.
func NewTestDBFile(t testing.TB) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tinytrail.db")
	return openTestDB(t, path), path
}

// ReopenTestDB opens an existing database file written by NewTestDBFile.
func ReopenTestDB(t testing.TB, path string) *sql.DB {
	t.Helper()
	return openTestDB(t, path)
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

func openTestDB(t testing.TB, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database %s", path)
	t.Cleanup(func() { database.Close() })
	return database
}
