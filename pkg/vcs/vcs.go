// Package vcs abstracts version control systems for template repositories.
// A VersionControl materializes repositories on disk; a Repository is a live
// binding between a source locator, a local working directory, and the
// currently checked-out reference. Implementations register themselves by
// type tag; records select an implementation by that tag.
package vcs

import (
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/registry"
	"github.com/microsync/microsync/pkg/result"
	"github.com/microsync/microsync/pkg/state"
)

// Known version control types.
const (
	TypeGit = "git"
)

// RestoreFunc undoes a temporary reference switch, checking out whatever
// reference was active before the switch. It must be called even when the
// work between switch and restore fails.
type RestoreFunc func() error

// Repository represents a code repository materialized on the local
// file system.
type Repository interface {
	// Src returns the source locator the repository was obtained from.
	Src() string

	// Path returns the local working directory.
	Path() string

	// IsValid reports whether the working directory holds a usable repository.
	IsValid() bool

	// IsDirty reports whether the working tree has uncommitted or untracked
	// changes. The result is successful iff the tree is dirty, with the raw
	// status text attached.
	IsDirty() (result.Result, error)

	// CurrentRef returns the commit identity currently checked out.
	CurrentRef() (string, error)

	// ResolveRef returns the commit identity a reference points at. A
	// commit identity resolves to itself.
	ResolveRef(ref string) (string, error)

	// RemoteLatestRef returns the latest commit identity on the remote
	// tracking branch.
	RemoteLatestRef() (string, error)

	// RefSubject returns the first line of the given reference's commit
	// message, truncated to a bounded length.
	RefSubject(ref string) (string, error)

	// RemoteURL returns the remote origin URL recorded in the repository.
	RemoteURL() (string, error)

	// Checkout switches the working tree to the given reference.
	Checkout(ref string) error

	// Switch checks out ref and returns a RestoreFunc that checks out the
	// reference that was active before the switch.
	Switch(ref string) (RestoreFunc, error)

	// Update pulls down and merges remote modifications on the default branch.
	Update() error

	// Reset discards local modifications and untracked files.
	Reset() error

	// CheckPatch dry-runs patch application without mutating the tree.
	CheckPatch(patch string) result.Result

	// ApplyPatch applies the patch with three-way merge semantics and
	// commits it. On failure the working tree is restored, never left
	// half-patched.
	ApplyPatch(patch, message string) result.Result
}

// VersionControl represents a version control system capable of
// materializing repositories.
type VersionControl interface {
	// Obtain returns a repository for src at dst: an existing valid
	// repository is reused in place (updated, then ref checked out when
	// given); otherwise a fresh copy is fetched at the configured depth.
	Obtain(src, dst, ref string, options state.VCS) (Repository, error)

	// Open binds to an existing repository at path without fetching or
	// checking anything out.
	Open(path string, options state.VCS) (Repository, error)

	// IsRepoPath reports whether path holds a valid repository.
	IsRepoPath(path string) bool

	// RemoteURL returns the remote origin URL for the repository at path.
	RemoteURL(path string) (string, error)
}

// Factory creates a VersionControl implementation.
type Factory func() VersionControl

var registered = registry.New[Factory]()

// Register adds a VersionControl implementation under the given type tag.
func Register(name string, factory Factory) error {
	return registered.Register(name, factory)
}

// ForType returns the VersionControl implementation registered for the
// given type tag.
func ForType(vcsType string) (VersionControl, error) {
	factory, err := registered.Get(vcsType)
	if err != nil {
		return nil, errors.Newf(errors.ErrVCSTypeNotSupported, "vcs type %q is not supported", vcsType)
	}
	return factory(), nil
}

// Obtain materializes a repository using the implementation selected by
// options.Type.
func Obtain(src, dst, ref string, options state.VCS) (Repository, error) {
	vc, err := ForType(options.Type)
	if err != nil {
		return nil, err
	}
	return vc.Obtain(src, dst, ref, options)
}

// Open binds to an existing repository using the implementation selected
// by options.Type.
func Open(path string, options state.VCS) (Repository, error) {
	vc, err := ForType(options.Type)
	if err != nil {
		return nil, err
	}
	return vc.Open(path, options)
}

// RemoteURL returns the remote origin URL for the repository at path using
// the implementation selected by options.Type.
func RemoteURL(path string, options state.VCS) (string, error) {
	vc, err := ForType(options.Type)
	if err != nil {
		return "", err
	}
	return vc.RemoteURL(path)
}
