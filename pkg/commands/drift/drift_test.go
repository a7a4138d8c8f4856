package drift

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/microsync/microsync/pkg/commands/initialize"
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T) string {
	t.Helper()
	tmpl := testutil.TemplateRepo(t)
	proj := filepath.Join(t.TempDir(), "proj")
	res, err := initialize.Init(initialize.Options{Src: tmpl, Path: proj})
	require.NoError(t, err)
	require.True(t, res.Success)
	return proj
}

func TestDrift_None(t *testing.T) {
	testutil.RequireGit(t)
	proj := setupProject(t)

	res, err := Drift(Options{Path: proj})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "No drift")
}

func TestDrift_ShowsLocalEdits(t *testing.T) {
	testutil.RequireGit(t)
	proj := setupProject(t)
	testutil.WriteFile(t, proj, "README.md", "# my-service\n\nRewritten by hand.\n")

	res, err := Drift(Options{Path: proj})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "README.md")
	assert.Contains(t, res.Stdout, "-Rewritten by hand.", "local edits read as removals relative to the template")
	assert.Contains(t, res.Stdout, "+Generated project.")
}

func TestDrift_IgnoresUnmanagedFiles(t *testing.T) {
	testutil.RequireGit(t)
	proj := setupProject(t)
	testutil.WriteFile(t, proj, "notes.txt", "purely local\n")

	res, err := Drift(Options{Path: proj})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotContains(t, res.Stdout, "notes.txt", "files outside the template layout are not drift")
}

func TestDrift_DeletedFile(t *testing.T) {
	testutil.RequireGit(t)
	proj := setupProject(t)
	require.NoError(t, os.Remove(filepath.Join(proj, "Makefile")))

	res, err := Drift(Options{Path: proj})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "Makefile")
}

func TestDrift_Unlinked(t *testing.T) {
	_, err := Drift(Options{Path: t.TempDir()})
	assert.True(t, errors.IsErrorCode(err, errors.ErrRecordNotFound))
}
