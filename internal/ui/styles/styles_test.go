package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	require.Equal(t, "Go", TruncateString("Go", 10))
	require.Equal(t, "JavaSc…", TruncateString("JavaScript", 7))
	require.Equal(t, "", TruncateString("Go", 0))
	// Wide runes count as two cells.
	require.Equal(t, "日本…", TruncateString("日本語テキスト", 5))
}

func TestApplyTheme(t *testing.T) {
	saved := HighlightColor
	t.Cleanup(func() {
		HighlightColor = saved
		rebuild()
	})

	ApplyTheme(Theme{Highlight: "#FF00FF"})

	require.Equal(t, lipgloss.Color("#FF00FF"), HighlightColor)
	require.Equal(t, lipgloss.Color("#FF00FF"), TitleStyle.GetForeground())
}

func TestApplyTheme_EmptyKeepsDefaults(t *testing.T) {
	before := SubtleColor
	ApplyTheme(Theme{})
	require.Equal(t, before, SubtleColor)
}
