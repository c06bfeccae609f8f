// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	// Text hierarchy
	TextPrimaryColor lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#DDDDDD"}
	TextMutedColor   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#696969"}

	HighlightColor lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#5A3FD6", Dark: "#7D56F4"}
	SubtleColor    lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}

	// Status
	StatusSuccessColor lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#C49A00", Dark: "#FECA57"}
	StatusErrorColor   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
)

var (
	TitleStyle              lipgloss.Style
	MutedStyle              lipgloss.Style
	SelectionIndicatorStyle lipgloss.Style
	SelectedRowStyle        lipgloss.Style
	LevelFilledStyle        lipgloss.Style
	LevelEmptyStyle         lipgloss.Style
	ErrorTextStyle          lipgloss.Style
	OverlayBoxStyle         lipgloss.Style
	StatusBarStyle          lipgloss.Style
)

func init() {
	rebuild()
}

// rebuild derives every style from the current colors.
func rebuild() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(HighlightColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(HighlightColor)
	SelectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	LevelFilledStyle = lipgloss.NewStyle().Foreground(HighlightColor)
	LevelEmptyStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	OverlayBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(HighlightColor).
		Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
}

// Theme holds color overrides as hex strings. Empty fields keep the defaults.
type Theme struct {
	Highlight string
	Subtle    string
	Error     string
	Success   string
}

// ApplyTheme overrides colors and rebuilds all styles.
func ApplyTheme(t Theme) {
	set := func(dst *lipgloss.TerminalColor, hex string) {
		if hex != "" {
			*dst = lipgloss.Color(hex)
		}
	}
	set(&HighlightColor, t.Highlight)
	set(&SubtleColor, t.Subtle)
	set(&StatusErrorColor, t.Error)
	set(&StatusSuccessColor, t.Success)
	rebuild()
}

// TruncateString shortens s to maxWidth cells, ending with an ellipsis when
// anything was cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
