package presentation

import (
	"github.com/zjrosen/skillboard/internal/skills"
)

// SkillDTO is the scripting view of a skill.
type SkillDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	Label string `json:"label"`
}

// FromSkill converts a skill to a DTO.
func FromSkill(s skills.Skill) SkillDTO {
	return SkillDTO{
		ID:    s.ID,
		Name:  s.Name,
		Level: s.Level,
		Label: s.Label(),
	}
}

// FromSkills converts a list of skills, keeping order. The result is never
// nil so it encodes as [].
func FromSkills(list []skills.Skill) []SkillDTO {
	dtos := make([]SkillDTO, len(list))
	for i, s := range list {
		dtos[i] = FromSkill(s)
	}
	return dtos
}
