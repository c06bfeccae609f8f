package skills

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Add for blank input. Callers ignore it.
	ErrEmptyInput = errors.New("skill name is empty")
	// ErrInvalidCatalogEntry means the name is not in the catalog.
	ErrInvalidCatalogEntry = errors.New("enter a valid entry from the catalog")
	// ErrDuplicateSkill means a skill with the same name already exists.
	ErrDuplicateSkill = errors.New("skill already present")
	// ErrPersistenceWrite means a mutation succeeded in memory but the store
	// rejected the snapshot.
	ErrPersistenceWrite = errors.New("failed to save skills")
	// ErrNoSnapshot is returned by Store.Load when nothing was ever saved.
	ErrNoSnapshot = errors.New("no saved skills")
	// ErrCorruptSnapshot means saved data exists but cannot be trusted.
	ErrCorruptSnapshot = errors.New("saved skills are corrupt")
)

// InvalidCatalogEntryError reports a name outside the catalog.
type InvalidCatalogEntryError struct {
	Name string
}

func (e *InvalidCatalogEntryError) Error() string {
	return fmt.Sprintf("%q is not in the catalog: %v", e.Name, ErrInvalidCatalogEntry)
}

func (e *InvalidCatalogEntryError) Is(target error) bool {
	return target == ErrInvalidCatalogEntry
}

// DuplicateSkillError reports an add that collides with Existing.
type DuplicateSkillError struct {
	Name     string
	Existing Skill
}

func (e *DuplicateSkillError) Error() string {
	return fmt.Sprintf("%s is already present", e.Name)
}

func (e *DuplicateSkillError) Is(target error) bool {
	return target == ErrDuplicateSkill
}

// PersistError wraps a store failure after a mutation. The mutation itself
// has been applied.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersistenceWrite, e.Err)
}

func (e *PersistError) Is(target error) bool {
	return target == ErrPersistenceWrite
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// CorruptError builds an error wrapping ErrCorruptSnapshot.
func CorruptError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}
