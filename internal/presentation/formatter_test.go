package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/skillboard/internal/skills"
)

func plain(buf *bytes.Buffer) *Formatter {
	return NewFormatter(buf, termenv.WithProfile(termenv.Ascii))
}

func TestFromSkills_NeverNil(t *testing.T) {
	dtos := FromSkills(nil)
	require.NotNil(t, dtos)
	require.Empty(t, dtos)
}

func TestFromSkill_IncludesLabel(t *testing.T) {
	dto := FromSkill(skills.Skill{ID: "1", Name: "Go", Level: 5})
	require.Equal(t, SkillDTO{ID: "1", Name: "Go", Level: 5, Label: "Can teach others"}, dto)
}

func TestFormatSkillsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := plain(&buf).FormatSkillsJSON(FromSkills([]skills.Skill{{ID: "1", Name: "Go", Level: 3}}))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Go", got[0]["name"])
	require.EqualValues(t, 3, got[0]["level"])
	require.Equal(t, "Can use it with references", got[0]["label"])
}

func TestFormatSkillsJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).FormatSkillsJSON(FromSkills(nil)))
	require.Equal(t, "[]\n", buf.String())
}

func TestFormatSkills_AlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	err := plain(&buf).FormatSkills(FromSkills([]skills.Skill{
		{ID: "a", Name: "Go", Level: 4},
		{ID: "b", Name: "Haskell", Level: 1},
	}))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "a  Go       ■■■■□ 4/5  Delivered it on multiple projects", lines[0])
	require.Equal(t, "b  Haskell  ■□□□□ 1/5  Aware of it", lines[1])
}

func TestFormatSkills_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).FormatSkills(nil))
	require.Equal(t, "no skills\n", buf.String())
}

func TestFormatNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plain(&buf).FormatNames([]string{"Go", "Rust"}))
	require.Equal(t, "Go\nRust\n", buf.String())
}
