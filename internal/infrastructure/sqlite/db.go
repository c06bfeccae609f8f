// Package sqlite stores skill snapshots in a local SQLite database.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/skills"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the connection and the repositories built on it.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path and brings its schema
// up to date. A database with pending migrations is first copied to
// path+".bak". A file that is not a readable SQLite database yields an error
// matching skills.ErrCorruptSnapshot.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=foreign_keys(on)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, openError("connecting to database", err)
	}

	if err := migrateUp(conn, path+".bak"); err != nil {
		_ = conn.Close()
		return nil, openError("running migrations", err)
	}

	log.Debug(log.CatDB, "Opened database", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// openError marks damaged database files as corrupt snapshots so callers can
// start empty instead of failing.
func openError(msg string, err error) error {
	if errors.Is(err, sqlite3.NOTADB) || errors.Is(err, sqlite3.CORRUPT) {
		return fmt.Errorf("%s: %w", msg, skills.CorruptError("%v", err))
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection exposes the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// SkillRepository returns the skills.Store backed by this database.
func (db *DB) SkillRepository() *SkillRepository {
	return newSkillRepository(db.conn)
}

// migrateUp applies every embedded migration newer than PRAGMA user_version,
// each in its own transaction. An existing schema is backed up to backupPath
// before the first pending migration runs.
func migrateUp(conn *sql.DB, backupPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	defer src.Close()

	var current uint
	if err := conn.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	var pending []uint
	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		if version > current {
			pending = append(pending, version)
		}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("listing migrations: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	if current > 0 {
		if err := backup(conn, backupPath); err != nil {
			return fmt.Errorf("backing up database: %w", err)
		}
		log.Info(log.CatDB, "Backed up database before migrating", "path", backupPath, "version", current)
	}

	for _, v := range pending {
		if err := apply(conn, src, v); err != nil {
			return err
		}
		log.Info(log.CatDB, "Applied migration", "version", v)
	}
	return nil
}

func apply(conn *sql.DB, src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(string(body)); err != nil {
		return fmt.Errorf("migration %d (%s): %w", version, name, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	return tx.Commit()
}

// backup writes a consistent copy of the live database, WAL content
// included, to dst.
func backup(conn *sql.DB, dst string) error {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	_, err := conn.Exec("VACUUM INTO ?", dst)
	return err
}
