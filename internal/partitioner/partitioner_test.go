package partitioner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linesort/internal/janitor"
	"linesort/internal/record"
)

func writeInput(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "input.txt")
	var content string
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readAllLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	if s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func TestRunEmptyInput(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir)
	reg := janitor.NewRegistry()

	res := Run(path, 2, dir, reg)

	require.NoError(t, res.Err)
	assert.Empty(t, res.Paths)
	assert.True(t, reg.Empty())
}

func TestRunProducesSortedChunks(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "3. Three Four", "1. One Two", "2. Two Three")
	reg := janitor.NewRegistry()

	res := Run(path, 2, dir, reg)

	require.NoError(t, res.Err)
	// chunk size 2 over 3 lines -> two chunks
	assert.Len(t, res.Paths, 2)

	var total int
	for _, p := range res.Paths {
		lines := readAllLines(t, p)
		total += len(lines)
		assert.True(t, sort_ok(lines), "chunk %s not sorted: %v", p, lines)
	}
	assert.Equal(t, 3, total)
}

func TestRunRespectsChunkBound(t *testing.T) {
	dir := t.TempDir()
	lines := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		lines = append(lines, "1. word")
	}
	path := writeInput(t, dir, lines...)
	reg := janitor.NewRegistry()

	res := Run(path, 3, dir, reg)

	require.NoError(t, res.Err)
	assert.Len(t, res.Paths, 3) // ceil(7/3)
	for _, p := range res.Paths {
		got := readAllLines(t, p)
		assert.LessOrEqual(t, len(got), 3)
	}
}

func TestRunBlankLineEndsChunkEarly(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "1. a", "2. b", "", "3. c")
	reg := janitor.NewRegistry()

	res := Run(path, 10, dir, reg)

	require.NoError(t, res.Err)
	assert.Len(t, res.Paths, 2)
}

func sort_ok(lines []string) bool {
	for i := 1; i < len(lines); i++ {
		prev := record.Parse(lines[i-1])
		cur := record.Parse(lines[i])
		if record.Less(cur, prev) {
			return false
		}
	}
	return true
}
