// Package skills owns the in-memory skill inventory and its invariants.
//
// A Registry holds an ordered list of Skills whose names are unique under case
// folding and whose levels stay within [MinLevel, MaxLevel]. Every successful
// mutation writes the full list through to a Store.
package skills

import "fmt"

// Level bounds and the level given to newly added skills.
const (
	MinLevel     = 1
	MaxLevel     = 5
	DefaultLevel = 3
)

var levelLabels = [...]string{
	1: "Aware of it",
	2: "Have tried it",
	3: "Can use it with references",
	4: "Delivered it on multiple projects",
	5: "Can teach others",
}

// Skill is one recorded competency.
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// ValidLevel reports whether level is within bounds.
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// LevelLabel describes a level in words, or "" when out of range.
func LevelLabel(level int) string {
	if !ValidLevel(level) {
		return ""
	}
	return levelLabels[level]
}

// Label describes the skill's level in words.
func (s Skill) Label() string {
	return LevelLabel(s.Level)
}

func (s Skill) String() string {
	return fmt.Sprintf("%s (%d)", s.Name, s.Level)
}
