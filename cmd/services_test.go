package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/skillboard/internal/config"
	"github.com/zjrosen/skillboard/internal/skills"
)

func writeGarbageDB(t *testing.T, dir string) (string, []byte) {
	t.Helper()
	path := filepath.Join(dir, "skills.sqlite")
	garbage := bytes.Repeat([]byte("not a database "), 300)
	require.NoError(t, os.WriteFile(path, garbage, 0o600))
	return path, garbage
}

func TestOpenServices_DamagedSQLiteStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path, garbage := writeGarbageDB(t, t.TempDir())

	cfg := config.Defaults()
	cfg.Store.Backend = config.BackendSQLite
	cfg.Store.Path = path

	svc, err := openServices(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close(ctx) }()

	require.ErrorIs(t, svc.loadErr, skills.ErrCorruptSnapshot)
	require.Zero(t, svc.registry.Len())
	require.Error(t, svc.requireLoaded())

	// The session keeps working in memory but nothing reaches the file.
	_, err = svc.registry.Add(ctx, "Go")
	require.ErrorIs(t, err, skills.ErrPersistenceWrite)
	require.Equal(t, 1, svc.registry.Len())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, garbage, got)
}

func TestCLI_DamagedSQLiteRefusesWrites(t *testing.T) {
	dir := writeConfig(t, config.BackendSQLite)
	path, garbage := writeGarbageDB(t, dir)

	_, err := execute(t, dir, "add", "Rust")
	require.ErrorContains(t, err, "corrupt")

	_, err = execute(t, dir, "list")
	require.ErrorContains(t, err, "corrupt")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, garbage, got)
}

func TestAppConfig_CarriesUISettings(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.Store.Backend = config.BackendJSON
	cfg.Store.Path = filepath.Join(t.TempDir(), "skills.json")
	cfg.UI.MarkdownStyle = "notty"
	cfg.UI.ShowStatusBar = false

	svc, err := openServices(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close(ctx) }()

	got := appConfig(cfg, svc, "careful")
	require.Equal(t, "notty", got.MarkdownStyle)
	require.False(t, got.ShowStatusBar)
	require.Equal(t, "careful", got.StartupWarning)
	require.Same(t, svc.registry, got.Registry)
}
