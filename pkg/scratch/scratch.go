// Package scratch manages per-operation scratch space: temporary
// directories for clones, renders, and grafts that are destroyed when the
// operation ends, regardless of outcome.
package scratch

import (
	"os"
	"path/filepath"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/logging"
)

const (
	prefix = "microsync"
	suffix = ".tmp"
)

// Scratch is a scoped scratch directory. Callers must Close it when the
// enclosing operation ends; Close removes the whole tree.
type Scratch struct {
	root string
}

// New creates a scratch directory under root. An empty root uses the
// system temporary directory.
func New(root string) (*Scratch, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "cannot create scratch root %q", root)
		}
	}
	dir, err := os.MkdirTemp(root, prefix+"-*"+suffix)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create scratch directory")
	}
	return &Scratch{root: dir}, nil
}

// Root returns the scratch directory itself.
func (s *Scratch) Root() string {
	return s.root
}

// Dir creates a new unique subdirectory with the given name prefix.
func (s *Scratch) Dir(name string) (string, error) {
	dir, err := os.MkdirTemp(s.root, name+"-*")
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "cannot create scratch subdirectory %q", name)
	}
	return dir, nil
}

// Path reserves a new unique path inside the scratch directory without
// creating anything at it. Used when the consumer insists on creating the
// destination itself (copy and render targets).
func (s *Scratch) Path(name string) (string, error) {
	dir, err := s.Dir(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Close removes the scratch directory and everything under it.
func (s *Scratch) Close() {
	if err := os.RemoveAll(s.root); err != nil {
		log := logging.GetLogger("scratch")
		log.Warn().Err(err).Str("path", s.root).Msg("Failed to remove scratch directory")
	}
}
