package sync

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/microsync/microsync/pkg/commands/initialize"
	"github.com/microsync/microsync/pkg/commands/status"
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/state"
	"github.com/microsync/microsync/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProject initializes a project from a fresh template and commits it
// as a git repository, the shape sync expects.
func setupProject(t *testing.T) (string, string) {
	t.Helper()
	tmpl := testutil.TemplateRepo(t)
	proj := filepath.Join(t.TempDir(), "proj")
	res, err := initialize.Init(initialize.Options{Src: tmpl, Path: proj})
	require.NoError(t, err)
	require.True(t, res.Success)
	testutil.InitRepo(t, proj)
	testutil.CommitAll(t, proj, "Initial project")
	return tmpl, proj
}

func TestSync(t *testing.T) {
	testutil.RequireGit(t)
	tmpl, proj := setupProject(t)
	latest := testutil.AdvanceTemplate(t, tmpl)

	res, err := Sync(Options{Path: proj})
	require.NoError(t, err)
	require.Truef(t, res.Success, "sync failed: %s", res.Stderr)

	assert.Contains(t, testutil.ReadFile(t, proj, "README.md"), "Now with docs.")

	record, err := state.Read(proj)
	require.NoError(t, err)
	assert.Equal(t, latest, record.Template.Ref)

	subject := testutil.Git(t, proj, "log", "--format=%s", "-n", "1")
	assert.Equal(t, "Update to template ref "+latest, subject)
}

func TestSync_ExplicitRef(t *testing.T) {
	testutil.RequireGit(t)
	tmpl, proj := setupProject(t)
	middle := testutil.AdvanceTemplate(t, tmpl)
	testutil.WriteFile(t, tmpl, "CHANGELOG.md", "everything\n")
	testutil.CommitAll(t, tmpl, "Add changelog")

	res, err := Sync(Options{Path: proj, Ref: middle})
	require.NoError(t, err)
	require.Truef(t, res.Success, "sync failed: %s", res.Stderr)

	assert.Contains(t, testutil.ReadFile(t, proj, "README.md"), "Now with docs.")
	assert.NoFileExists(t, filepath.Join(proj, "CHANGELOG.md"), "changes past the target ref stay out")

	record, err := state.Read(proj)
	require.NoError(t, err)
	assert.Equal(t, middle, record.Template.Ref)
}

func TestSync_SymbolicRef(t *testing.T) {
	testutil.RequireGit(t)
	tmpl, proj := setupProject(t)
	latest := testutil.AdvanceTemplate(t, tmpl)

	res, err := Sync(Options{Path: proj, Ref: "master"})
	require.NoError(t, err)
	require.Truef(t, res.Success, "sync failed: %s", res.Stderr)

	record, err := state.Read(proj)
	require.NoError(t, err)
	assert.Equal(t, latest, record.Template.Ref, "record holds the commit id, not the branch name")

	st, err := status.Status(status.Options{Path: proj})
	require.NoError(t, err)
	assert.Truef(t, st.Success, "status after sync must see an up-to-date project: %s", st.Stderr)

	// A second pass against the same branch is a no-op.
	res, err = Sync(Options{Path: proj, Ref: "master"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "already up to date")
}

func TestSync_NoOpWhenLatest(t *testing.T) {
	testutil.RequireGit(t)
	_, proj := setupProject(t)

	res, err := Sync(Options{Path: proj})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "already up to date")

	// Nothing was committed.
	assert.Equal(t, "Initial project", testutil.Git(t, proj, "log", "--format=%s", "-n", "1"))
}

func TestSync_DirtyProject(t *testing.T) {
	testutil.RequireGit(t)
	tmpl, proj := setupProject(t)
	testutil.AdvanceTemplate(t, tmpl)
	testutil.WriteFile(t, proj, "wip.txt", "not committed\n")

	res, err := Sync(Options{Path: proj})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Stderr, "uncommitted changes")
	assert.Contains(t, res.Stderr, "wip.txt")
}

func TestSync_ConflictLeavesRecordUnchanged(t *testing.T) {
	testutil.RequireGit(t)
	tmpl, proj := setupProject(t)
	before, err := state.Read(proj)
	require.NoError(t, err)

	// The project rewrites the same content the template is about to change.
	testutil.WriteFile(t, proj, "README.md", "# my-service\n\nRewritten by hand.\n")
	testutil.CommitAll(t, proj, "Local rewrite")
	testutil.AdvanceTemplate(t, tmpl)

	res, err := Sync(Options{Path: proj})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Stderr, "microsync drift")

	after, err := state.Read(proj)
	require.NoError(t, err)
	assert.Equal(t, before.Template.Ref, after.Template.Ref, "record must not advance on a failed patch")
	assert.Equal(t, "Local rewrite", testutil.Git(t, proj, "log", "--format=%s", "-n", "1"))
}

func TestSync_ProjectNotARepository(t *testing.T) {
	testutil.RequireGit(t)
	tmpl := testutil.TemplateRepo(t)
	proj := filepath.Join(t.TempDir(), "proj")
	res, err := initialize.Init(initialize.Options{Src: tmpl, Path: proj})
	require.NoError(t, err)
	require.True(t, res.Success)

	_, err = Sync(Options{Path: proj})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSync_UnsupportedPatchType(t *testing.T) {
	testutil.RequireGit(t)
	_, proj := setupProject(t)

	record, err := state.Read(proj)
	require.NoError(t, err)
	record.Template.Patch.Type = "quilt"
	require.NoError(t, state.Write(record, proj))

	_, err = Sync(Options{Path: proj})
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatchTypeNotSupported))
}

func TestPatchMessage(t *testing.T) {
	msg := patchMessage("Update to template ref {ref}\n\nMicrosync version: {version}", "abc123")
	assert.True(t, strings.HasPrefix(msg, "Update to template ref abc123"))
	assert.NotContains(t, msg, "{version}")
}
