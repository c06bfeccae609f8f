package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/skills"
)

// SkillRepository implements skills.Store over the skills and snapshot_meta
// tables.
type SkillRepository struct {
	db     *sql.DB
	now    func() time.Time
	closer func() error
}

var _ skills.Store = (*SkillRepository)(nil)

func newSkillRepository(db *sql.DB) *SkillRepository {
	return &SkillRepository{db: db, now: time.Now}
}

// Load returns the saved skills ordered by position.
func (r *SkillRepository) Load(ctx context.Context) ([]skills.Skill, error) {
	var savedAt int64
	err := r.db.QueryRowContext(ctx, `SELECT saved_at FROM snapshot_meta WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, skills.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot meta: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, level, position FROM skills ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying skills: %w", err)
	}
	defer rows.Close()

	out := []skills.Skill{}
	for rows.Next() {
		var m SkillModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Level, &m.Position); err != nil {
			return nil, skills.CorruptError("scanning row: %v", err)
		}
		s, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skills: %w", err)
	}

	log.Debug(log.CatStore, "Loaded snapshot", "backend", "sqlite", "count", len(out), "savedAt", time.Unix(savedAt, 0))
	return out, nil
}

// Save replaces the stored snapshot in a single transaction.
func (r *SkillRepository) Save(ctx context.Context, list []skills.Skill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM skills`); err != nil {
		return fmt.Errorf("clearing skills: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO skills (id, name, level, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range list {
		m := toSkillModel(s, i)
		if _, err := stmt.ExecContext(ctx, m.ID, m.Name, m.Level, m.Position); err != nil {
			return fmt.Errorf("inserting skill %q: %w", s.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, saved_at) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`,
		r.now().Unix(),
	); err != nil {
		return fmt.Errorf("updating snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	log.Debug(log.CatStore, "Saved snapshot", "backend", "sqlite", "count", len(list))
	return nil
}

// Open opens the database at path and returns a repository that owns it.
func Open(path string) (*SkillRepository, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	repo := db.SkillRepository()
	repo.closer = db.Close
	return repo, nil
}

// Close releases the database when the repository owns it.
func (r *SkillRepository) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
