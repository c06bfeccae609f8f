// Package testutil seeds skill snapshots directly into a migrated SQLite
// database so tests can start from a known on-disk state.
package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type skillRow struct {
	id       string
	name     string
	level    int
	position int
}

// Builder accumulates rows and writes them in one transaction.
type Builder struct {
	t        *testing.T
	db       *sql.DB
	rows     []skillRow
	noMeta   bool
	savedAt  time.Time
	override map[string]int
}

// NewBuilder returns a builder that writes to db. The schema must already
// exist (open the database through sqlite.NewDB first).
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db, savedAt: time.Now(), override: map[string]int{}}
}

// WithSkill appends a row. Rows keep the order they were added in.
func (b *Builder) WithSkill(id, name string, level int) *Builder {
	b.rows = append(b.rows, skillRow{id: id, name: name, level: level, position: len(b.rows)})
	return b
}

// WithoutSnapshotMarker skips the snapshot_meta row, which makes the
// database look like it was never saved even though rows exist.
func (b *Builder) WithoutSnapshotMarker() *Builder {
	b.noMeta = true
	return b
}

// WithCorruptLevel stores level for id with CHECK constraints disabled,
// the way a damaged file might look.
func (b *Builder) WithCorruptLevel(id string, level int) *Builder {
	b.override[id] = level
	return b
}

// Build writes all rows. It fails the test on any error.
func (b *Builder) Build() {
	b.t.Helper()

	tx, err := b.db.Begin()
	require.NoError(b.t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec("DELETE FROM skills")
	require.NoError(b.t, err)
	for _, r := range b.rows {
		_, err = tx.Exec(`INSERT INTO skills (id, name, level, position) VALUES (?, ?, ?, ?)`,
			r.id, r.name, r.level, r.position)
		require.NoError(b.t, err, "insert %s", r.id)
	}
	if !b.noMeta {
		_, err = tx.Exec(`INSERT INTO snapshot_meta (id, saved_at) VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`, b.savedAt.Unix())
		require.NoError(b.t, err)
	}
	require.NoError(b.t, tx.Commit())

	if len(b.override) > 0 {
		b.corrupt()
	}
}

func (b *Builder) corrupt() {
	b.t.Helper()

	// The pragma is per connection, so pin one.
	conn, err := b.db.Conn(b.t.Context())
	require.NoError(b.t, err)
	defer func() { _ = conn.Close() }()

	_, err = conn.ExecContext(b.t.Context(), "PRAGMA ignore_check_constraints = ON")
	require.NoError(b.t, err)
	for id, level := range b.override {
		_, err = conn.ExecContext(b.t.Context(),
			fmt.Sprintf("UPDATE skills SET level = %d WHERE id = ?", level), id)
		require.NoError(b.t, err)
	}
	_, err = conn.ExecContext(b.t.Context(), "PRAGMA ignore_check_constraints = OFF")
	require.NoError(b.t, err)
}
