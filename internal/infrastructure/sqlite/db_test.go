package sqlite

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/skillboard/internal/skills"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "skills.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
}

func TestNewDB_RunsMigrations(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"skills", "snapshot_meta"} {
		var name string
		err := db.conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "%s table should exist", table)
	}

	var version int
	require.NoError(t, db.conn.QueryRow("PRAGMA user_version").Scan(&version))
	require.Equal(t, 2, version)
}

func TestNewDB_Pragmas(t *testing.T) {
	db := openTestDB(t)

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 5000, busyTimeout)
}

func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "skills.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.conn.Exec("INSERT INTO skills (id, name, level, position) VALUES ('a', 'Go', 3, 0)")
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	var count int
	require.NoError(t, db2.conn.QueryRow("SELECT count(*) FROM skills").Scan(&count))
	require.Equal(t, 1, count)

	_, err = os.Stat(dbPath + ".bak")
	require.True(t, os.IsNotExist(err), "no backup without pending migrations")
}

func TestNewDB_BacksUpBeforePendingMigration(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "skills.db")

	// Roll the schema back to version 1 with one row in it.
	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.conn.Exec("INSERT INTO skills (id, name, level, position) VALUES ('a', 'Go', 3, 0)")
	require.NoError(t, err)
	_, err = db1.conn.Exec("DROP TABLE snapshot_meta")
	require.NoError(t, err)
	_, err = db1.conn.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	var version int
	require.NoError(t, db2.conn.QueryRow("PRAGMA user_version").Scan(&version))
	require.Equal(t, 2, version)
	require.NoError(t, db2.Close())

	requireBackup := func() {
		t.Helper()
		bak, err := sql.Open("sqlite3", "file:"+dbPath+".bak")
		require.NoError(t, err)
		defer bak.Close()

		var version, count int
		require.NoError(t, bak.QueryRow("PRAGMA user_version").Scan(&version))
		require.Equal(t, 1, version, "backup holds the pre-migration schema")
		require.NoError(t, bak.QueryRow("SELECT count(*) FROM skills").Scan(&count))
		require.Equal(t, 1, count, "backup includes rows still in the WAL")
	}
	requireBackup()

	// A later open with nothing to migrate leaves the backup alone.
	db3, err := NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db3.Close())
	requireBackup()
}

func TestNewDB_GarbageFileIsCorrupt(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "skills.db")
	garbage := bytes.Repeat([]byte("not a database "), 300)
	require.NoError(t, os.WriteFile(dbPath, garbage, 0o600))

	_, err := NewDB(dbPath)
	require.Error(t, err)
	require.ErrorIs(t, err, skills.ErrCorruptSnapshot)

	got, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	require.Equal(t, garbage, got, "the damaged file is left as it was")
	_, err = os.Stat(dbPath + ".bak")
	require.True(t, os.IsNotExist(err), "a damaged file never replaces the backup")
}

func TestSchema_EnforcesLevelRange(t *testing.T) {
	db := openTestDB(t)

	_, err := db.conn.Exec("INSERT INTO skills (id, name, level, position) VALUES ('a', 'Go', 6, 0)")
	require.Error(t, err)
	_, err = db.conn.Exec("INSERT INTO skills (id, name, level, position) VALUES ('a', 'Go', 0, 0)")
	require.Error(t, err)
}

func TestDB_Close(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.Error(t, db.conn.Ping())
}

func TestDB_Connection(t *testing.T) {
	db := openTestDB(t)

	conn := db.Connection()
	require.IsType(t, (*sql.DB)(nil), conn)
	require.NoError(t, conn.Ping())
}
