// Package diff shows the full content changes a synchronization would
// bring in: the unified diff between the template rendered at the recorded
// reference and rendered at a target reference, both with the project's
// recorded variables.
package diff

import (
	"github.com/microsync/microsync/pkg/commands/internal/session"
	"github.com/microsync/microsync/pkg/compare"
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/result"
)

// Options defines the options for the Diff command.
type Options struct {
	// Path is the project directory or record file. Empty means the working
	// directory.
	Path string
	// Ref is the target reference to diff against. Empty uses the
	// template's latest.
	Ref string
	// Interactive allows prompting for variables the record does not hold.
	Interactive bool
}

// Diff renders the template at the recorded and target references from a
// single checkout, switching between them, and returns the content diff.
func Diff(opts Options) (result.Result, error) {
	log := logging.GetLogger("commands.diff")
	log.Debug().Str("path", opts.Path).Str("ref", opts.Ref).Msg("Executing diff")

	s, err := session.Open(opts.Path, opts.Interactive)
	if err != nil {
		return result.Result{}, err
	}
	defer s.Close()

	repo, err := s.ObtainTemplate("template", "")
	if err != nil {
		return result.Result{}, err
	}

	target := opts.Ref
	if target == "" {
		if target, err = repo.RemoteLatestRef(); err != nil {
			return result.Result{}, err
		}
	} else {
		// Pin a symbolic target to its commit identity so the up-to-date
		// check compares like with like.
		if target, err = repo.ResolveRef(target); err != nil {
			return result.Result{}, err
		}
	}
	local := s.Record.Template.Ref
	if local == target {
		return result.Successf("Project ref %s already matches the target; nothing to diff.", local), nil
	}

	currentTree, err := s.RenderAt(repo, local, "current")
	if err != nil {
		return result.Result{}, err
	}
	targetTree, err := s.RenderAt(repo, target, "target")
	if err != nil {
		return result.Result{}, err
	}

	d, err := compare.Compare(currentTree, targetTree, s.Record.Template.Comparison)
	if err != nil {
		return result.Result{}, err
	}
	if d.Empty() {
		return result.Successf("No rendered differences between %s and %s.", local, target), nil
	}
	return result.Success(d.Content), nil
}
