// Package graft copies a live file tree into a scratch location,
// restricted to the paths a reference layout defines. The result is the
// live tree as seen through the layout's shape, which makes it directly
// comparable against a freshly rendered tree.
package graft

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/microsync/microsync/pkg/compare"
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/logging"
)

// Tree copies from src into dst every file that exists under layout,
// skipping paths matching the ignore patterns. Files present in the
// layout but absent from src are left absent in dst, so a later diff
// reports them as removed. Symbolic links are copied as links.
func Tree(layout, src, dst string, ignore []string) error {
	log := logging.GetLogger("graft")
	log.Debug().Str("layout", layout).Str("src", src).Str("dst", dst).Msg("Grafting tree")

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot create graft destination %q", dst)
	}

	return filepath.WalkDir(layout, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot walk layout at %q", path)
		}
		rel, err := filepath.Rel(layout, path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot relativize %q", path)
		}
		if rel == "." {
			return nil
		}
		if compare.Ignored(rel, ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		return copyEntry(filepath.Join(src, rel), filepath.Join(dst, rel))
	})
}

// copyEntry copies one file or symlink from src to dst, creating parent
// directories as needed. A missing source is not an error: the path simply
// does not exist in the live tree.
func copyEntry(src, dst string) error {
	info, err := os.Lstat(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot stat %q", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot create directory for %q", dst)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot read link %q", src)
		}
		if err := os.Symlink(target, dst); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot create link %q", dst)
		}
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot open %q", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot create %q", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrInternal, "cannot copy %q", src)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot finish writing %q", dst)
	}
	return nil
}
