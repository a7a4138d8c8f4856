// Package testutil provides git-backed fixtures for exercising the
// synchronization operations against real template repositories.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// GitAvailable reports whether the git binary can be found.
func GitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// RequireGit skips the test when the git binary is unavailable.
func RequireGit(t *testing.T) {
	t.Helper()
	if !GitAvailable() {
		t.Skip("git binary not available")
	}
}

// Git runs a git command in dir and returns its trimmed stdout, failing
// the test on a non-zero exit.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// InitRepo turns dir into a git repository with a test identity configured.
func InitRepo(t *testing.T, dir string) {
	t.Helper()
	Git(t, dir, "init")
	Git(t, dir, "config", "user.email", "test@example.com")
	Git(t, dir, "config", "user.name", "Test")
}

// CommitAll stages and commits everything in dir, returning the new head.
func CommitAll(t *testing.T, dir, message string) string {
	t.Helper()
	Git(t, dir, "add", "-A")
	Git(t, dir, "commit", "-m", message)
	return Git(t, dir, "rev-parse", "HEAD")
}

// WriteFile writes content under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// ReadFile returns the content of a file under dir.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

const manifest = `name = "service"

[[variables]]
name = "project"
prompt = "Project name"
default = "my-service"
`

// TemplateRepo creates a template repository with a manifest, a templated
// README, and a plain Makefile, committed on master.
func TemplateRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	InitRepo(t, dir)
	WriteFile(t, dir, "template.toml", manifest)
	WriteFile(t, dir, "README.md", "# {{.project}}\n\nGenerated project.\n")
	WriteFile(t, dir, "Makefile", "build:\n\ttrue\n")
	CommitAll(t, dir, "Initial template")
	Git(t, dir, "branch", "-M", "master")
	return dir
}

// AdvanceTemplate commits a change to the template's README and returns
// the new head commit.
func AdvanceTemplate(t *testing.T, dir string) string {
	t.Helper()
	WriteFile(t, dir, "README.md", "# {{.project}}\n\nGenerated project.\n\nNow with docs.\n")
	return CommitAll(t, dir, "Expand README")
}
