package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/skillboard/internal/pubsub"
)

func setupBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)
	return &buf
}

func TestLog_FormatsFields(t *testing.T) {
	buf := setupBuffer(t)

	Info(CatRegistry, "skill added", "name", "Go", "level", 3)

	line := buf.String()
	require.Contains(t, line, "[INFO] [registry] skill added name=Go level=3")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_OddFieldCount(t *testing.T) {
	buf := setupBuffer(t)

	Warn(CatStore, "odd", "orphan")

	require.Contains(t, buf.String(), "orphan=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	buf := setupBuffer(t)

	ErrorErr(CatDB, "open failed", errors.New("disk full"), "path", "/tmp/x.db")
	ErrorErr(CatDB, "nil error", nil)

	out := buf.String()
	require.Contains(t, out, "path=/tmp/x.db error=disk full")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevelAndDisable(t *testing.T) {
	buf := setupBuffer(t)

	SetMinLevel(LevelWarn)
	Debug(CatUI, "hidden")
	Info(CatUI, "hidden too")
	Error(CatUI, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	buf.Reset()
	SetEnabled(false)
	Error(CatUI, "muted")
	require.Empty(t, buf.String())
}

func TestLog_PublishesEntries(t *testing.T) {
	setupBuffer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := Broker().Subscribe(ctx)

	Info(CatCatalog, "loaded", "entries", 42)

	select {
	case ev := <-ch:
		require.Equal(t, pubsub.CreatedEvent, ev.Type)
		require.Contains(t, ev.Payload, "entries=42")
	case <-time.After(time.Second):
		require.Fail(t, "no log event published")
	}
}

func TestLog_NoopWithoutInit(t *testing.T) {
	Reset()
	require.Nil(t, Broker())
	require.NotPanics(t, func() { Info(CatConfig, "nobody listening") })
}

func TestInit_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(Reset)

	Info(CatConfig, "hello")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] hello")
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(99).String())
}
