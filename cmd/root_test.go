package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/skillboard/internal/config"
	"github.com/zjrosen/skillboard/internal/infrastructure/sqlite"
	"github.com/zjrosen/skillboard/internal/presentation"
	"github.com/zjrosen/skillboard/internal/testutil"
)

// execute runs the root command with args against a config in dir and
// returns stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SKILLBOARD_DEBUG", "")

	cfgFile, storePath, backendName = "", "", ""
	debug, listJSON, saveDefault = false, false, false
	catalogLimit = 10
	resetFlags := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(resetFlags)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(resetFlags)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	body := "store:\n  backend: " + backend + "\n  path: " + filepath.Join(dir, "skills."+backend) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func listSkills(t *testing.T, dir string) []presentation.SkillDTO {
	t.Helper()
	out, err := execute(t, dir, "list", "--json")
	require.NoError(t, err)
	var dtos []presentation.SkillDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dtos), out)
	return dtos
}

func TestCLI_AddListRemove(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendJSON} {
		t.Run(backend, func(t *testing.T) {
			dir := writeConfig(t, backend)

			out, err := execute(t, dir, "add", "  Go ")
			require.NoError(t, err)
			require.Contains(t, out, "Added Go (3)")

			_, err = execute(t, dir, "add", "rust")
			require.NoError(t, err)

			got := listSkills(t, dir)
			require.Len(t, got, 2)
			require.Equal(t, "Go", got[0].Name)
			require.Equal(t, "rust", got[1].Name)
			require.Equal(t, 3, got[1].Level)

			out, err = execute(t, dir, "rm", "RUST")
			require.NoError(t, err)
			require.Contains(t, out, "Removed rust")

			got = listSkills(t, dir)
			require.Len(t, got, 1)

			out, err = execute(t, dir, "rm", got[0].ID)
			require.NoError(t, err)
			require.Contains(t, out, "Removed Go")
			require.Empty(t, listSkills(t, dir))
		})
	}
}

func TestCLI_AddRejections(t *testing.T) {
	dir := writeConfig(t, config.BackendJSON)

	_, err := execute(t, dir, "add", "Fortranish")
	require.ErrorContains(t, err, "enter a valid entry from the catalog")

	_, err = execute(t, dir, "add", "Type")
	require.ErrorContains(t, err, "did you mean TypeScript")

	_, err = execute(t, dir, "add", "Go")
	require.NoError(t, err)
	_, err = execute(t, dir, "add", "go")
	require.ErrorContains(t, err, "go is already present")

	_, err = execute(t, dir, "add", "   ")
	require.ErrorContains(t, err, "empty")

	require.Len(t, listSkills(t, dir), 1)
}

func TestCLI_Level(t *testing.T) {
	dir := writeConfig(t, config.BackendSQLite)
	_, err := execute(t, dir, "add", "Go")
	require.NoError(t, err)

	out, err := execute(t, dir, "level", "go", "5")
	require.NoError(t, err)
	require.Contains(t, out, "Go (5): Can teach others")

	for _, bad := range []string{"0", "6", "three"} {
		_, err = execute(t, dir, "level", "go", bad)
		require.ErrorContains(t, err, "level must be a number from 1 to 5", bad)
	}
	require.Equal(t, 5, listSkills(t, dir)[0].Level)

	_, err = execute(t, dir, "level", "Zig", "2")
	require.ErrorContains(t, err, `no skill matches "Zig"`)
}

func TestCLI_Sort(t *testing.T) {
	dir := writeConfig(t, config.BackendJSON)
	for _, name := range []string{"Go", "C", "Rust"} {
		_, err := execute(t, dir, "add", name)
		require.NoError(t, err)
	}
	_, err := execute(t, dir, "level", "Rust", "2")
	require.NoError(t, err)
	_, err = execute(t, dir, "level", "Go", "4")
	require.NoError(t, err)
	_, err = execute(t, dir, "level", "C", "4")
	require.NoError(t, err)

	_, err = execute(t, dir, "sort", "level-desc")
	require.NoError(t, err)
	require.Equal(t, []string{"Go", "C", "Rust"}, names(listSkills(t, dir)), "stable for equal levels")

	out, err := execute(t, dir, "sort", "name-asc", "--save-default")
	require.NoError(t, err)
	require.Contains(t, out, "Rust")
	require.Equal(t, []string{"C", "Go", "Rust"}, names(listSkills(t, dir)))

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "default_sort: name-asc")
	require.Contains(t, string(data), "backend: json", "existing settings are kept")

	_, err = execute(t, dir, "sort", "sideways")
	require.Error(t, err)
}

func TestCLI_SortSeededSQLite(t *testing.T) {
	dir := writeConfig(t, config.BackendSQLite)
	db, err := sqlite.NewDB(filepath.Join(dir, "skills.sqlite"))
	require.NoError(t, err)
	testutil.NewBuilder(t, db.Connection()).WithStandardSkills().Build()
	require.NoError(t, db.Close())

	_, err = execute(t, dir, "sort", "level-desc")
	require.NoError(t, err)
	require.Equal(t, []string{"Go", "C", "Rust"}, names(listSkills(t, dir)))

	_, err = execute(t, dir, "sort", "name-asc")
	require.NoError(t, err)
	got := listSkills(t, dir)
	require.Equal(t, []string{"C", "Go", "Rust"}, names(got))
	require.Equal(t, "skill-c", got[0].ID, "ids survive sorting")
}

func TestCLI_SortEmptyStillSaves(t *testing.T) {
	dir := writeConfig(t, config.BackendJSON)
	_, err := execute(t, dir, "sort", "name-desc")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "skills.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"skills": []`)
}

func TestCLI_CorruptStoreRefusesWrites(t *testing.T) {
	dir := writeConfig(t, config.BackendJSON)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.json"), []byte(`{"skills":[{"id":"1","name":"Go","level":9}]}`), 0o600))

	_, err := execute(t, dir, "add", "Rust")
	require.ErrorContains(t, err, "corrupt")

	_, err = execute(t, dir, "list")
	require.ErrorContains(t, err, "corrupt")

	data, err := os.ReadFile(filepath.Join(dir, "skills.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"level":9`, "the unreadable file is left alone")
}

func TestCLI_Catalog(t *testing.T) {
	dir := writeConfig(t, config.BackendJSON)

	out, err := execute(t, dir, "catalog")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 100)
	require.Contains(t, lines, "Go")

	out, err = execute(t, dir, "catalog", "script", "--limit", "2")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		require.Contains(t, strings.ToLower(l), "script")
	}
}

func TestCLI_CatalogOverride(t *testing.T) {
	dir := writeConfig(t, config.BackendJSON)
	catPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catPath, []byte("languages:\n  - Brainfish\n  - Go\n"), 0o600))
	f, err := os.OpenFile(filepath.Join(dir, "config.yaml"), os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("catalog:\n  path: " + catPath + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := execute(t, dir, "catalog")
	require.NoError(t, err)
	require.Equal(t, "Brainfish\nGo\n", out)

	_, err = execute(t, dir, "add", "brainfish")
	require.NoError(t, err)
}

func TestCLI_FlagsOverrideConfig(t *testing.T) {
	dir := writeConfig(t, config.BackendSQLite)
	jsonPath := filepath.Join(dir, "other.json")

	_, err := execute(t, dir, "--backend", "json", "--store", jsonPath, "add", "Go")
	require.NoError(t, err)
	require.FileExists(t, jsonPath)
	require.NoFileExists(t, filepath.Join(dir, "skills.sqlite"))

	_, err = execute(t, dir, "--backend", "postgres", "list")
	require.ErrorContains(t, err, "invalid configuration")
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	_, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, config.BackendSQLite)
	t.Setenv("SKILLBOARD_LOCALE", "fr")

	cfg, used, err := loadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "config.yaml"), used)
	require.Equal(t, "fr", cfg.Locale)
	require.Equal(t, config.BackendSQLite, cfg.Store.Backend)
	require.True(t, cfg.UI.ShowLevelLabels, "unset keys keep their defaults")
}

func TestDebugEnabled(t *testing.T) {
	debug = false
	for env, want := range map[string]bool{"": false, "0": false, "false": false, "1": true, "yes": true} {
		t.Setenv("SKILLBOARD_DEBUG", env)
		require.Equal(t, want, debugEnabled(), env)
	}
	debug = true
	t.Setenv("SKILLBOARD_DEBUG", "")
	require.True(t, debugEnabled())
	debug = false
}

func names(dtos []presentation.SkillDTO) []string {
	out := make([]string, len(dtos))
	for i, d := range dtos {
		out[i] = d.Name
	}
	return out
}
