// Package drift shows how a project has diverged from its template at the
// recorded reference: local edits to generated files, viewed through the
// template's layout so unrelated project files stay out of the picture.
package drift

import (
	"github.com/microsync/microsync/pkg/commands/internal/session"
	"github.com/microsync/microsync/pkg/compare"
	"github.com/microsync/microsync/pkg/graft"
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/result"
)

// Options defines the options for the Drift command.
type Options struct {
	// Path is the project directory or record file. Empty means the working
	// directory.
	Path string
	// Interactive allows prompting for variables the record does not hold.
	Interactive bool
}

// Drift renders the template at the recorded reference, grafts the live
// project tree onto that layout, and diffs the two.
func Drift(opts Options) (result.Result, error) {
	log := logging.GetLogger("commands.drift")
	log.Debug().Str("path", opts.Path).Msg("Executing drift")

	s, err := session.Open(opts.Path, opts.Interactive)
	if err != nil {
		return result.Result{}, err
	}
	defer s.Close()

	repo, err := s.ObtainTemplate("template", s.Record.Template.Ref)
	if err != nil {
		return result.Result{}, err
	}
	rendered, err := s.Render(repo, "rendered")
	if err != nil {
		return result.Result{}, err
	}

	live, err := s.Scratch.Path("live")
	if err != nil {
		return result.Result{}, err
	}
	if err := graft.Tree(rendered, s.ProjectDir, live, s.Record.Template.Comparison.Ignore); err != nil {
		return result.Result{}, err
	}

	// The grafted live copy comes first: local edits read as removals
	// relative to the template, not additions.
	d, err := compare.Compare(live, rendered, s.Record.Template.Comparison)
	if err != nil {
		return result.Result{}, err
	}
	if d.Empty() {
		return result.Successf("No drift: project matches its template at ref %s.", s.Record.Template.Ref), nil
	}
	return result.Success(d.Content), nil
}
