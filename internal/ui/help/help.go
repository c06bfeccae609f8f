// Package help renders the key and level reference overlay.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/zjrosen/skillboard/internal/keys"
	"github.com/zjrosen/skillboard/internal/skills"
	"github.com/zjrosen/skillboard/internal/ui/markdown"
	"github.com/zjrosen/skillboard/internal/ui/overlay"
	"github.com/zjrosen/skillboard/internal/ui/styles"
)

const boxWidth = 56

// Model is the help overlay. It renders once and caches the result.
type Model struct {
	rendered string
}

// New builds the overlay. mdStyle is passed to the markdown renderer.
func New(mdStyle string) Model {
	md := Markdown()
	r, err := markdown.New(boxWidth, mdStyle)
	if err != nil {
		return Model{rendered: md}
	}
	out, err := r.Render(md)
	if err != nil {
		return Model{rendered: md}
	}
	return Model{rendered: strings.TrimRight(out, "\n")}
}

// Markdown returns the help text source.
func Markdown() string {
	var b strings.Builder
	b.WriteString("# Skillboard\n\n")

	b.WriteString("## Skills\n\n")
	writeBindings(&b, keys.Board.FullHelp())

	b.WriteString("## Adding\n\n")
	b.WriteString("Type to search the catalog; only listed names are accepted.\n\n")
	writeBindings(&b, keys.Input.FullHelp())

	b.WriteString("## Levels\n\n")
	for level := skills.MinLevel; level <= skills.MaxLevel; level++ {
		fmt.Fprintf(&b, "%d. %s\n", level, skills.LevelLabel(level))
	}
	return b.String()
}

func writeBindings(b *strings.Builder, groups [][]key.Binding) {
	for _, group := range groups {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(b, "- `%s` %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n")
}

// View returns the boxed help text.
func (m Model) View() string {
	return styles.OverlayBoxStyle.Render(m.rendered + "\n\n" + styles.MutedStyle.Render("? or esc to close"))
}

// Overlay draws the help box centered over bg.
func (m Model) Overlay(bg string, width, height int) string {
	return overlay.Place(overlay.Config{Width: width, Height: height, Position: overlay.Center}, m.View(), bg)
}
