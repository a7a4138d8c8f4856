// Package template renders project templates into concrete project trees.
// A template is a repository checkout whose file paths and contents may
// contain substitution expressions; an Engine expands those expressions
// against a set of variable values. Engines register by type tag.
package template

import (
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/registry"
)

// Known template engine types.
const (
	TypeGoTemplate = "gotemplate"
)

// Rendered describes a completed render: where the tree was written and
// the variable values it was expanded with.
type Rendered struct {
	Path      string
	Variables map[string]string
}

// Engine expands a template checkout into a project tree.
type Engine interface {
	// Variables resolves the values for the template's declared variables.
	// Recorded values win; missing ones are prompted for when interactive,
	// and fall back to manifest defaults otherwise.
	Variables(src string, recorded map[string]string, interactive bool) (map[string]string, error)

	// Render expands the template at src into dst. An existing dst is an
	// error unless force is set, in which case it is replaced.
	Render(src, dst string, variables map[string]string, force bool) (Rendered, error)
}

// Factory creates an Engine implementation.
type Factory func() Engine

var registered = registry.New[Factory]()

// Register adds an Engine implementation under the given type tag.
func Register(name string, factory Factory) error {
	return registered.Register(name, factory)
}

// ForType returns the Engine registered for the given type tag.
func ForType(engineType string) (Engine, error) {
	factory, err := registered.Get(engineType)
	if err != nil {
		return nil, errors.Newf(errors.ErrTemplateTypeNotSupported, "template engine type %q is not supported", engineType)
	}
	return factory(), nil
}
