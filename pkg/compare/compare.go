// Package compare produces diffs between two file trees in a
// patch-formatted, tool-agnostic representation. Implementations register
// by type tag; the diff content they emit must be independent of the
// absolute scratch locations it was computed from.
package compare

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/registry"
	"github.com/microsync/microsync/pkg/state"
)

// Known comparison types.
const (
	TypeUnidiff = "unidiff"
)

// Diff is an immutable value holding formatted change content, tagged with
// the comparison implementation that produced it.
type Diff struct {
	Type    string
	Content string
}

// Empty reports whether the diff holds no changes.
func (d Diff) Empty() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Comparison represents a method of comparing two file trees.
type Comparison interface {
	// Compare computes a full content diff between the trees at first and
	// second.
	Compare(first, second string, options state.Comparison) (Diff, error)

	// CompareFiles computes a names-only summary of changed files.
	CompareFiles(first, second string, options state.Comparison) (Diff, error)
}

// Factory creates a Comparison implementation.
type Factory func() Comparison

var registered = registry.New[Factory]()

// Register adds a Comparison implementation under the given type tag.
func Register(name string, factory Factory) error {
	return registered.Register(name, factory)
}

// ForType returns the Comparison implementation registered for the given
// type tag.
func ForType(comparisonType string) (Comparison, error) {
	factory, err := registered.Get(comparisonType)
	if err != nil {
		return nil, errors.Newf(errors.ErrComparisonTypeNotSupported, "comparison type %q is not supported", comparisonType)
	}
	return factory(), nil
}

// Compare computes a full content diff using the implementation selected
// by options.Type.
func Compare(first, second string, options state.Comparison) (Diff, error) {
	c, err := ForType(options.Type)
	if err != nil {
		return Diff{}, err
	}
	return c.Compare(first, second, options)
}

// CompareFiles computes a names-only diff using the implementation
// selected by options.Type.
func CompareFiles(first, second string, options state.Comparison) (Diff, error) {
	c, err := ForType(options.Type)
	if err != nil {
		return Diff{}, err
	}
	return c.CompareFiles(first, second, options)
}

// Ignored reports whether the given relative path matches any of the
// ignore patterns. Patterns match against the base name and against the
// full relative path.
func Ignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
