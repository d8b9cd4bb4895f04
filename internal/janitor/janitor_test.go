package janitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRemovesTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()
	var paths []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, "f"+string(rune('0'+i)))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		reg.Track(p)
		paths = append(paths, p)
	}

	j := New()
	j.Cleanup(reg)

	assert.True(t, reg.Empty())
	assert.Nil(t, j.LastErrors())
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestCleanupIgnoresMissingFiles(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()
	reg.Track(filepath.Join(dir, "does-not-exist"))

	j := New()
	j.Cleanup(reg)

	assert.True(t, reg.Empty())
	assert.Nil(t, j.LastErrors())
}

func TestCleanupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()
	p := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	reg.Track(p)

	j := New()
	j.Cleanup(reg)
	j.Cleanup(reg) // second call on an already-emptied registry is a no-op

	assert.True(t, reg.Empty())
	assert.Nil(t, j.LastErrors())
}
