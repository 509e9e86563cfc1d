package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)
	return &buf
}

func TestLog_NoopWithoutInit(t *testing.T) {
	Reset()
	require.NotPanics(t, func() {
		Debug(CatTokenize, "ignored", "k", "v")
		ErrorErr(CatStore, "ignored", errors.New("boom"))
	})
	require.Nil(t, Subscribe(context.Background()))
}

func TestLog_FormatsFields(t *testing.T) {
	buf := withBuffer(t)

	Info(CatPage, "processed", "blocks", 3, "file", "index.html")

	line := buf.String()
	require.Contains(t, line, "[INFO] [page] processed")
	require.Contains(t, line, "blocks=3")
	require.Contains(t, line, "file=index.html")
	require.True(t, line[len(line)-1] == '\n')
}

func TestLog_OddFieldCount(t *testing.T) {
	buf := withBuffer(t)

	Warn(CatConfig, "orphan", "lonely")

	require.Contains(t, buf.String(), "lonely=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	buf := withBuffer(t)

	ErrorErr(CatStore, "put failed", errors.New("disk full"), "key", "abc")
	ErrorErr(CatStore, "nil error", nil)

	out := buf.String()
	require.Contains(t, out, "[ERROR] [store] put failed key=abc error=disk full")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevelAndEnabled(t *testing.T) {
	buf := withBuffer(t)

	SetMinLevel(LevelWarn)
	Info(CatRender, "dropped")
	Warn(CatRender, "kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "kept")

	buf.Reset()
	SetEnabled(false)
	Error(CatRender, "silenced")
	require.Empty(t, buf.String())
}

func TestLog_Subscribe(t *testing.T) {
	withBuffer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := Subscribe(ctx)
	require.NotNil(t, ch)

	Debug(CatWatcher, "changed", "path", "a.html")

	select {
	case event := <-ch:
		require.Contains(t, event.Payload, "[DEBUG] [watcher] changed path=a.html")
	case <-time.After(time.Second):
		require.Fail(t, "timeout waiting for log event")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}
