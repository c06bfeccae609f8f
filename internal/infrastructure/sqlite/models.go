package sqlite

import (
	"database/sql"

	"github.com/zjrosen/skillboard/internal/skills"
)

// SkillModel is a row of the skills table. Columns are nullable at the scan
// level so that damaged rows surface as corruption instead of scan errors.
type SkillModel struct {
	ID       sql.NullString
	Name     sql.NullString
	Level    sql.NullInt64
	Position int64
}

func toSkillModel(s skills.Skill, position int) SkillModel {
	return SkillModel{
		ID:       sql.NullString{String: s.ID, Valid: true},
		Name:     sql.NullString{String: s.Name, Valid: true},
		Level:    sql.NullInt64{Int64: int64(s.Level), Valid: true},
		Position: int64(position),
	}
}

func (m SkillModel) toDomain() (skills.Skill, error) {
	if !m.ID.Valid || m.ID.String == "" {
		return skills.Skill{}, skills.CorruptError("row at position %d: missing id", m.Position)
	}
	if !m.Name.Valid {
		return skills.Skill{}, skills.CorruptError("row %q: missing name", m.ID.String)
	}
	if !m.Level.Valid || !skills.ValidLevel(int(m.Level.Int64)) {
		return skills.Skill{}, skills.CorruptError("row %q: bad level", m.ID.String)
	}
	return skills.Skill{ID: m.ID.String, Name: m.Name.String, Level: int(m.Level.Int64)}, nil
}
