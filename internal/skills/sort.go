package skills

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortCriterion selects an ordering for Sort.
type SortCriterion string

const (
	LevelAscending  SortCriterion = "level-asc"
	LevelDescending SortCriterion = "level-desc"
	NameAscending   SortCriterion = "name-asc"
	NameDescending  SortCriterion = "name-desc"
)

// SortCriteria lists every criterion in menu order.
var SortCriteria = []SortCriterion{LevelAscending, LevelDescending, NameAscending, NameDescending}

// ParseSortCriterion parses the string form of a criterion.
func ParseSortCriterion(s string) (SortCriterion, error) {
	c := SortCriterion(s)
	if !slices.Contains(SortCriteria, c) {
		return "", fmt.Errorf("unknown sort criterion %q (want one of level-asc, level-desc, name-asc, name-desc)", s)
	}
	return c, nil
}

// Label is the human-readable menu text.
func (c SortCriterion) Label() string {
	switch c {
	case LevelAscending:
		return "Level (low to high)"
	case LevelDescending:
		return "Level (high to low)"
	case NameAscending:
		return "Name (A to Z)"
	case NameDescending:
		return "Name (Z to A)"
	default:
		return string(c)
	}
}

// NewCollator returns a collator for locale, falling back to the root locale
// when locale is empty or unparsable.
func NewCollator(locale string) *collate.Collator {
	tag := language.Und
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return collate.New(tag)
}

// sortSkills stably reorders list in place.
func sortSkills(list []Skill, c SortCriterion, col *collate.Collator) {
	var cmpFn func(a, b Skill) int
	switch c {
	case LevelAscending:
		cmpFn = func(a, b Skill) int { return cmp.Compare(a.Level, b.Level) }
	case LevelDescending:
		cmpFn = func(a, b Skill) int { return cmp.Compare(b.Level, a.Level) }
	case NameAscending:
		cmpFn = func(a, b Skill) int { return col.CompareString(a.Name, b.Name) }
	case NameDescending:
		cmpFn = func(a, b Skill) int { return col.CompareString(b.Name, a.Name) }
	default:
		return
	}
	slices.SortStableFunc(list, cmpFn)
}
