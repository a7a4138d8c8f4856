package diff

import (
	"path/filepath"
	"testing"

	"github.com/microsync/microsync/pkg/commands/initialize"
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T) (string, string) {
	t.Helper()
	tmpl := testutil.TemplateRepo(t)
	proj := filepath.Join(t.TempDir(), "proj")
	res, err := initialize.Init(initialize.Options{Src: tmpl, Path: proj})
	require.NoError(t, err)
	require.True(t, res.Success)
	return tmpl, proj
}

func TestDiff_UpToDate(t *testing.T) {
	testutil.RequireGit(t)
	_, proj := setupProject(t)

	res, err := Diff(Options{Path: proj})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "nothing to diff")
}

func TestDiff_ShowsRenderedChanges(t *testing.T) {
	testutil.RequireGit(t)
	tmpl, proj := setupProject(t)
	testutil.AdvanceTemplate(t, tmpl)

	res, err := Diff(Options{Path: proj})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "README.md")
	assert.Contains(t, res.Stdout, "+Now with docs.")

	// Variables render identically on both sides, so they never diff.
	assert.NotContains(t, res.Stdout, "{{.project}}")
}

func TestDiff_ExplicitRef(t *testing.T) {
	testutil.RequireGit(t)
	tmpl, proj := setupProject(t)
	first := testutil.Git(t, tmpl, "rev-parse", "HEAD")
	testutil.AdvanceTemplate(t, tmpl)

	res, err := Diff(Options{Path: proj, Ref: first})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "nothing to diff", "recorded ref diffed against itself")
}

func TestDiff_Unlinked(t *testing.T) {
	_, err := Diff(Options{Path: t.TempDir()})
	assert.True(t, errors.IsErrorCode(err, errors.ErrRecordNotFound))
}
