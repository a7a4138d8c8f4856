package compare

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func unidiffOptions(ignore ...string) state.Comparison {
	return state.Comparison{Type: TypeUnidiff, Ignore: ignore}
}

// makeTrees builds two trees with a known difference: one changed file,
// one file only present on the second side, one identical file.
func makeTrees(t *testing.T) (string, string) {
	t.Helper()
	first := t.TempDir()
	second := t.TempDir()

	write(t, first, "same.txt", "unchanged\n")
	write(t, second, "same.txt", "unchanged\n")

	write(t, first, "changed.txt", "old line\n")
	write(t, second, "changed.txt", "new line\n")

	write(t, second, "added.txt", "brand new\n")
	return first, second
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestForType(t *testing.T) {
	t.Run("unidiff is registered", func(t *testing.T) {
		c, err := ForType(TypeUnidiff)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ForType("sexpdiff")
		assert.True(t, errors.IsErrorCode(err, errors.ErrComparisonTypeNotSupported))
	})
}

func TestCompare(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git binary not available")
	}
	first, second := makeTrees(t)

	diff, err := Compare(first, second, unidiffOptions())
	require.NoError(t, err)

	assert.False(t, diff.Empty())
	assert.Contains(t, diff.Content, "-old line")
	assert.Contains(t, diff.Content, "+new line")
	assert.Contains(t, diff.Content, "+brand new")
	assert.NotContains(t, diff.Content, "unchanged")

	// Scratch locations must not leak into the diff.
	assert.NotContains(t, diff.Content, first)
	assert.NotContains(t, diff.Content, second)
}

func TestCompare_IdenticalTrees(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git binary not available")
	}
	first := t.TempDir()
	second := t.TempDir()
	write(t, first, "a.txt", "same\n")
	write(t, second, "a.txt", "same\n")

	diff, err := Compare(first, second, unidiffOptions())
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}

func TestCompare_PathIndependence(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git binary not available")
	}
	firstA, secondA := makeTrees(t)
	firstB, secondB := makeTrees(t)

	diffA, err := Compare(firstA, secondA, unidiffOptions())
	require.NoError(t, err)
	diffB, err := Compare(firstB, secondB, unidiffOptions())
	require.NoError(t, err)

	assert.Equal(t, diffA.Content, diffB.Content,
		"identical content must diff identically regardless of tree location")
}

func TestCompare_Ignore(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git binary not available")
	}
	first, second := makeTrees(t)
	write(t, second, "notes.log", "noise\n")

	diff, err := Compare(first, second, unidiffOptions("*.log"))
	require.NoError(t, err)

	assert.NotContains(t, diff.Content, "notes.log")
	assert.Contains(t, diff.Content, "changed.txt")
}

func TestCompareFiles(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git binary not available")
	}
	first, second := makeTrees(t)

	diff, err := CompareFiles(first, second, unidiffOptions())
	require.NoError(t, err)

	names := strings.Split(diff.Content, "\n")
	assert.ElementsMatch(t, []string{"added.txt", "changed.txt"}, names)
}

func TestCompareFiles_Ignore(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git binary not available")
	}
	first, second := makeTrees(t)

	diff, err := CompareFiles(first, second, unidiffOptions("added.txt"))
	require.NoError(t, err)
	assert.Equal(t, "changed.txt", diff.Content)
}

func TestIgnored(t *testing.T) {
	assert.True(t, Ignored("build/output.log", []string{"*.log"}))
	assert.True(t, Ignored("README.md", []string{"README.md"}))
	assert.False(t, Ignored("src/main.go", []string{"*.log"}))
	assert.False(t, Ignored("anything", nil))
}
