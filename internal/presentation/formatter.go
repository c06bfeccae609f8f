package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/termenv"

	"github.com/zjrosen/skillboard/internal/skills"
)

const (
	highlightHex = "#7D56F4"
	mutedHex     = "#696969"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	out    *termenv.Output
}

// NewFormatter creates a new formatter. Colors follow the terminal behind
// writer unless opts say otherwise.
func NewFormatter(writer io.Writer, opts ...termenv.OutputOption) *Formatter {
	return &Formatter{
		writer: writer,
		out:    termenv.NewOutput(writer, opts...),
	}
}

// FormatSkillsJSON writes skills as an indented JSON array.
func (f *Formatter) FormatSkillsJSON(list []SkillDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(list)
}

// FormatSkills writes one aligned line per skill: id, name, level bar and
// label.
func (f *Formatter) FormatSkills(list []SkillDTO) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(f.writer, f.muted("no skills"))
		return err
	}

	nameWidth := 0
	for _, s := range list {
		nameWidth = max(nameWidth, runewidth.StringWidth(s.Name))
	}

	for _, s := range list {
		name := padding.String(s.Name, uint(nameWidth)) //nolint:gosec // G115: width is non-negative
		line := fmt.Sprintf("%s  %s  %s %d/%d  %s",
			f.muted(s.ID), f.out.String(name).Bold(), f.levelBar(s.Level), s.Level, skills.MaxLevel, f.muted(s.Label))
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames writes one name per line.
func (f *Formatter) FormatNames(names []string) error {
	for _, n := range names {
		if _, err := fmt.Fprintln(f.writer, n); err != nil {
			return err
		}
	}
	return nil
}

// FormatResult writes an arbitrary result as JSON.
func (f *Formatter) FormatResult(result any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func (f *Formatter) levelBar(level int) string {
	filled := strings.Repeat("■", max(min(level, skills.MaxLevel), 0))
	empty := strings.Repeat("□", skills.MaxLevel-len([]rune(filled)))
	return f.out.String(filled).Foreground(f.out.Color(highlightHex)).String() +
		f.out.String(empty).Foreground(f.out.Color(mutedHex)).String()
}

func (f *Formatter) muted(s string) string {
	return f.out.String(s).Foreground(f.out.Color(mutedHex)).String()
}
