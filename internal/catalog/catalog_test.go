package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefault_ContainsCommonLanguages(t *testing.T) {
	c := Default()

	require.Greater(t, c.Len(), 100)
	for _, name := range []string{"Go", "Python", "Rust", "C", "C++", "C#", "TypeScript"} {
		require.True(t, c.Contains(name), name)
	}
	require.False(t, c.Contains("Fortranish"))
	require.False(t, c.Contains(""))
}

func TestContains_CaseInsensitive(t *testing.T) {
	c := Default()

	require.True(t, c.Contains("python"))
	require.True(t, c.Contains("PYTHON"))
	require.True(t, c.Contains("javascript"))
	require.False(t, c.Contains("java script"))
}

func TestCanonical(t *testing.T) {
	c := Default()

	name, ok := c.Canonical("typescript")
	require.True(t, ok)
	require.Equal(t, "TypeScript", name)

	_, ok = c.Canonical("nope")
	require.False(t, ok)
}

func TestSearch_SubstringInCatalogOrder(t *testing.T) {
	c, err := New([]string{"Java", "JavaScript", "Go", "TypeScript", "CoffeeScript"})
	require.NoError(t, err)

	require.Equal(t, []string{"JavaScript", "TypeScript", "CoffeeScript"}, c.Search("script", 10))
	require.Equal(t, []string{"Java", "JavaScript"}, c.Search("JAVA", 10))
	require.Equal(t, []string{"JavaScript"}, c.Search("  vasc ", 10))
}

func TestSearch_Limit(t *testing.T) {
	names := make([]string, 15)
	for i := range names {
		names[i] = "Lang" + string(rune('A'+i))
	}
	c, err := New(names)
	require.NoError(t, err)

	require.Len(t, c.Search("lang", 10), 10)
	require.Equal(t, names[:10], c.Search("lang", 10))
	require.Len(t, c.Search("lang", 20), 15)
}

func TestSearch_EmptyQueryOrLimit(t *testing.T) {
	c := Default()

	require.Nil(t, c.Search("", 10))
	require.Nil(t, c.Search("   ", 10))
	require.Nil(t, c.Search("go", 0))
	require.Nil(t, c.Search("zzzzzz", 10))
}

func TestSearch_ResultIsACopy(t *testing.T) {
	c, err := New([]string{"Go", "Gleam"})
	require.NoError(t, err)

	first := c.Search("g", 10)
	first[0] = "mutated"

	require.Equal(t, []string{"Go", "Gleam"}, c.Search("g", 10))
}

func TestNew_RejectsBlankAndDuplicates(t *testing.T) {
	_, err := New([]string{"Go", " "})
	require.Error(t, err)
	require.Contains(t, err.Error(), "blank")

	_, err = New([]string{"Go", "GO"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicates")
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("languages:\n  - Go\n  - C#\n  - F#\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"Go", "C#", "F#"}, c.Names())

	_, err = Parse([]byte("languages: []\n"))
	require.Error(t, err)

	_, err = Parse([]byte("languages: [unclosed\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default().Names(), c.Names())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages:\n  - Zig\n  - Odin\n"), 0o600))

	c, err = Load(path)
	require.NoError(t, err)
	require.True(t, c.Contains("zig"))
	require.False(t, c.Contains("Go"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// Every search result must be a catalog member containing the query.
func TestSearch_Properties(t *testing.T) {
	c := Default()
	names := c.Names()

	rapid.Check(t, func(rt *rapid.T) {
		query := rapid.StringMatching(`[a-zA-Z+#]{1,3}`).Draw(rt, "query")
		limit := rapid.IntRange(1, 20).Draw(rt, "limit")

		got := c.Search(query, limit)
		if len(got) > limit {
			rt.Fatalf("got %d results for limit %d", len(got), limit)
		}
		last := -1
		for _, name := range got {
			if !c.Contains(name) {
				rt.Fatalf("%q is not in the catalog", name)
			}
			if !strings.Contains(Fold(name), Fold(query)) {
				rt.Fatalf("%q does not contain %q", name, query)
			}
			idx := indexOf(names, name)
			if idx <= last {
				rt.Fatalf("%q is out of catalog order", name)
			}
			last = idx
		}
	})
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
