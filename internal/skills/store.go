package skills

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Store persists full snapshots of the skill list.
//
// Load returns ErrNoSnapshot when nothing was saved yet and an error wrapping
// ErrCorruptSnapshot when saved data is malformed. Save overwrites the whole
// snapshot.
type Store interface {
	Load(ctx context.Context) ([]Skill, error)
	Save(ctx context.Context, skills []Skill) error
	Close() error
}

// ValidateSnapshot checks a loaded snapshot against the record contract and
// the registry invariants. Names outside the catalog are allowed.
func ValidateSnapshot(snapshot []Skill) error {
	ids := make(map[string]struct{}, len(snapshot))
	names := make(map[string]int, len(snapshot))
	fold := cases.Fold()
	for i, s := range snapshot {
		if s.ID == "" {
			return CorruptError("record %d: missing id", i)
		}
		if strings.TrimSpace(s.Name) == "" {
			return CorruptError("record %d: missing name", i)
		}
		if !ValidLevel(s.Level) {
			return CorruptError("record %d: level %d out of range", i, s.Level)
		}
		if _, dup := ids[s.ID]; dup {
			return CorruptError("record %d: duplicate id %q", i, s.ID)
		}
		key := fold.String(s.Name)
		if prev, dup := names[key]; dup {
			return CorruptError("record %d: name %q duplicates record %d", i, s.Name, prev)
		}
		ids[s.ID] = struct{}{}
		names[key] = i
	}
	return nil
}

func describe(skills []Skill) string {
	parts := make([]string, len(skills))
	for i, s := range skills {
		parts[i] = s.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
