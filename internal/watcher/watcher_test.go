package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glint/internal/watcher"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func resolved(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return filepath.Clean(abs)
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	writeFile(t, page, "<pre><code>x</code></pre>")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{page},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	// Rapid writes should coalesce into a single notification
	for i := 0; i < 10; i++ {
		writeFile(t, page, fmt.Sprintf("<pre><code>%d</code></pre>", i))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case got := <-onChange:
		require.Equal(t, resolved(t, page), got)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case got := <-onChange:
		t.Fatalf("unexpected second notification for %s", got)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_ReportsEachChangedFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.html")
	b := filepath.Join(dir, "b.html")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{a, b},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	writeFile(t, b, "b2")
	writeFile(t, a, "a2")

	var got []string
	timeout := time.After(500 * time.Millisecond)
	for len(got) < 2 {
		select {
		case p := <-onChange:
			got = append(got, p)
		case <-timeout:
			t.Fatalf("expected two notifications, got %v", got)
		}
	}
	require.Equal(t, []string{resolved(t, a), resolved(t, b)}, got, "paths are flushed in sorted order")
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	other := filepath.Join(dir, "other.txt")
	writeFile(t, page, "page")
	// Pre-create the other file so writes to it are just Write events
	writeFile(t, other, "initial")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{page},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	writeFile(t, other, "other content")

	select {
	case got := <-onChange:
		t.Fatalf("should not notify for unrelated file, got %s", got)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_DetectsReplacedFile(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	writeFile(t, page, "v1")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{page},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	// Editors often save by writing a temp file and renaming it over the original.
	tmp := filepath.Join(dir, ".index.html.swp")
	writeFile(t, tmp, "v2")
	require.NoError(t, os.Rename(tmp, page))

	select {
	case got := <-onChange:
		require.Equal(t, resolved(t, page), got)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for replaced file")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	writeFile(t, page, "test")

	w, err := watcher.New(watcher.DefaultConfig(page))
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop(), "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestNew_RequiresPaths(t *testing.T) {
	_, err := watcher.New(watcher.Config{DebounceDur: time.Second})
	require.Error(t, err)
}

func TestStart_MissingDirectory(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "nope", "page.html")))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("a.html", "b.html")

	assert.Equal(t, []string{"a.html", "b.html"}, cfg.Paths)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDur)
}
