package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary SQLite database with a test table.
func setupTestDB(t *testing.T) *DB {
	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "test.db"),
		Profile: ProfileStandard,
		Name:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Conn().Exec(`
		CREATE TABLE IF NOT EXISTS test_table (
			id INTEGER PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *DB) int {
	var n int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM test_table").Scan(&n))
	return n
}

func TestWithTransaction_Success(t *testing.T) {
	db := setupTestDB(t)

	var result int
	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO test_table (value) VALUES (?)", "test-value"); err != nil {
			return err
		}
		return tx.QueryRow("SELECT COUNT(*) FROM test_table WHERE value = ?", "test-value").Scan(&result)
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result, "Row should be visible within the transaction")
	assert.Equal(t, 1, countRows(t, db), "Row should be committed")
}

func TestWithTransaction_ErrorRollsBack(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("boom")

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO test_table (value) VALUES (?)", "rolled-back"); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countRows(t, db))
}

func TestWithTransaction_PanicRollsBack(t *testing.T) {
	db := setupTestDB(t)

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO test_table (value) VALUES (?)", "panicked"); err != nil {
			return err
		}
		panic("unexpected")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in transaction")
	assert.Equal(t, 0, countRows(t, db))
}

func TestWithTransaction_NilDB(t *testing.T) {
	err := WithTransaction(nil, func(tx *sql.Tx) error { return nil })
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := OpenLedger(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())
	require.NoError(t, db.HealthCheck(context.Background()))

	var name string
	err = db.Conn().QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'transactions'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "transactions", name)
}

func TestBuildConnectionString(t *testing.T) {
	ledger := buildConnectionString("/tmp/ledger.db", ProfileLedger)
	assert.Contains(t, ledger, "_pragma=synchronous(FULL)")
	assert.Contains(t, ledger, "_pragma=journal_mode(WAL)")

	standard := buildConnectionString("/tmp/x.db", ProfileStandard)
	assert.Contains(t, standard, "_pragma=synchronous(NORMAL)")
}
