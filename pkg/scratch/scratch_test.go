package scratch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	root := t.TempDir()

	s, err := New(root)
	require.NoError(t, err)
	defer s.Close()

	assert.DirExists(t, s.Root())
	assert.True(t, strings.HasPrefix(filepath.Base(s.Root()), "microsync-"))
}

func TestDir(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	first, err := s.Dir("render")
	require.NoError(t, err)
	second, err := s.Dir("render")
	require.NoError(t, err)

	assert.DirExists(t, first)
	assert.DirExists(t, second)
	assert.NotEqual(t, first, second)
}

func TestPath(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	p, err := s.Path("graft")
	require.NoError(t, err)

	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr), "reserved path must not exist yet")
	assert.DirExists(t, filepath.Dir(p))
}

func TestClose(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	sub, err := s.Dir("clone")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "file.txt"), []byte("x"), 0o644))

	s.Close()

	_, statErr := os.Stat(s.Root())
	assert.True(t, os.IsNotExist(statErr), "scratch tree must be removed on close")
}
