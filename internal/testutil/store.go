package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glint/internal/store"
)

// RenderData holds one stored render.
type RenderData struct {
	Key         string
	Fingerprint string
	HTML        string
}

// Render creates a RenderData structure.
func Render(key, fingerprint, html string) RenderData {
	return RenderData{Key: key, Fingerprint: fingerprint, HTML: html}
}

// NewTestStore opens a render store in a temporary directory, seeded with
// renders. It is closed when the test ends.
func NewTestStore(t *testing.T, renders ...RenderData) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "renders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, r := range renders {
		require.NoError(t, s.Put(context.Background(), r.Key, r.Fingerprint, r.HTML))
	}
	return s
}
