// Package paths provides centralized path handling for microsync: the
// cache root for template checkouts, classification of template source
// locators into cache paths, and small path/string helpers shared by the
// repository and record packages.
package paths

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/microsync/microsync/pkg/errors"
)

// Environment variable names
const (
	// EnvHome overrides where microsync keeps template checkouts and scratch space
	EnvHome = "MICROSYNC_HOME"
)

// Default directories and files
const (
	// RootDirName is the directory name for microsync-specific files
	RootDirName = ".microsync"

	// TruncateLength bounds subject lines shown to the user
	TruncateLength = 80

	// TruncateSuffix marks a subject line that was truncated
	TruncateSuffix = "..."
)

// Home returns the base directory under which the microsync root lives.
// MICROSYNC_HOME takes precedence; otherwise the user home directory is used.
func Home() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Last resort so relative scratch paths still work
		return "."
	}
	return home
}

// Root returns the microsync root directory, e.g. ~/.microsync.
func Root() string {
	return filepath.Join(Home(), RootDirName)
}

// Resolve converts the given path into an absolute path so repeated
// operations are independent of the working directory they run from.
func Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve path %q", path)
	}
	return abs, nil
}

// SrcToPath converts a template src locator into the cache path where its
// checkout belongs, rooted under Root().
//
// Supported formats:
//   - git@github.com:org/template.git
//   - git://github.com/org/template.git
//   - https://github.com/org/template
//   - file:///some/path/to/repo
//
// Locators that do not match a supported scheme fail with
// ErrTemplateSourceInvalid.
func SrcToPath(src string) (string, error) {
	return srcToPath(src, Root())
}

func srcToPath(src, root string) (string, error) {
	u, err := url.Parse(src)
	if err == nil {
		switch {
		case u.Scheme == "file":
			name := trimExt(strings.TrimPrefix(u.Path, "/"))
			return Resolve(filepath.Join(root, "file", name))
		case strings.HasPrefix(u.Scheme, "http") || strings.HasPrefix(u.Scheme, "git"):
			name := trimExt(strings.TrimPrefix(u.Path, "/"))
			return Resolve(filepath.Join(root, u.Host, name))
		}
	}

	// scp-like syntax: git@host:org/repo.git
	if strings.HasPrefix(src, "git@") && strings.Contains(src, ":") {
		trimmed := strings.TrimSuffix(src, ".git")
		parts := strings.SplitN(trimmed, ":", 2)
		host := strings.TrimPrefix(parts[0], "git@")
		return Resolve(filepath.Join(root, host, parts[1]))
	}

	return "", errors.Newf(errors.ErrTemplateSourceInvalid, "template src %q is not a supported repository locator", src)
}

// SrcToName extracts the repository name from a template src locator.
// Ex: https://github.com/org/example-template -> example-template
func SrcToName(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SubjectLine returns the first line of s, truncated to TruncateLength.
func SubjectLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		if idx <= TruncateLength {
			return s[:idx]
		}
	}
	return Truncate(s, TruncateLength)
}

// Truncate shortens s to at most n characters, marking truncation with
// TruncateSuffix.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-len(TruncateSuffix)] + TruncateSuffix
}

func trimExt(s string) string {
	return strings.TrimSuffix(s, filepath.Ext(s))
}
