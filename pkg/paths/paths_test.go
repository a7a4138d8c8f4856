package paths

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv(EnvHome, "/srv/microsync")
		assert.Equal(t, "/srv/microsync", Home())
	})

	t.Run("falls back to user home", func(t *testing.T) {
		t.Setenv(EnvHome, "")
		assert.NotEmpty(t, Home())
	})
}

func TestResolve(t *testing.T) {
	abs, err := Resolve("/tmp/foo/../bar")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bar", abs)

	rel, err := Resolve("some/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(rel))
}

func TestSrcToPath(t *testing.T) {
	root := "/root/.microsync"

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "https",
			src:  "https://github.com/org/example-template",
			want: filepath.Join(root, "github.com", "org", "example-template"),
		},
		{
			name: "https with .git suffix",
			src:  "https://github.com/org/example-template.git",
			want: filepath.Join(root, "github.com", "org", "example-template"),
		},
		{
			name: "git scheme",
			src:  "git://github.com/org/example-template.git",
			want: filepath.Join(root, "github.com", "org", "example-template"),
		},
		{
			name: "scp-like",
			src:  "git@github.com:org/example-template.git",
			want: filepath.Join(root, "github.com", "org", "example-template"),
		},
		{
			name: "file scheme",
			src:  "file:///srv/templates/example",
			want: filepath.Join(root, "file", "srv", "templates", "example"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := srcToPath(tt.src, root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := srcToPath("ftp://example.com/repo", root)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateSourceInvalid))
	})

	t.Run("bare path", func(t *testing.T) {
		_, err := srcToPath("just-a-name", root)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateSourceInvalid))
	})
}

func TestSrcToName(t *testing.T) {
	assert.Equal(t, "example-template", SrcToName("https://github.com/org/example-template"))
	assert.Equal(t, "example-template", SrcToName("git@github.com:org/example-template.git"))
}

func TestSubjectLine(t *testing.T) {
	t.Run("first line", func(t *testing.T) {
		assert.Equal(t, "subject", SubjectLine("subject\n\nbody text"))
	})

	t.Run("single line untouched", func(t *testing.T) {
		assert.Equal(t, "short subject", SubjectLine("short subject"))
	})

	t.Run("long line truncated", func(t *testing.T) {
		long := strings.Repeat("a", 120)
		got := SubjectLine(long)
		assert.Len(t, got, TruncateLength)
		assert.True(t, strings.HasSuffix(got, TruncateSuffix))
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
}
