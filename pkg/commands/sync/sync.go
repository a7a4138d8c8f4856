// Package sync brings a linked project up to date with its template. The
// changes between the recorded and latest references are computed as a
// rendered diff and applied to the project repository as a single commit;
// the linkage record advances only once that commit exists.
package sync

import (
	"strings"

	"github.com/microsync/microsync/internal/version"
	"github.com/microsync/microsync/pkg/commands/internal/session"
	"github.com/microsync/microsync/pkg/compare"
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/result"
	"github.com/microsync/microsync/pkg/state"
	"github.com/microsync/microsync/pkg/vcs"
)

// Options defines the options for the Sync command.
type Options struct {
	// Path is the project directory or record file. Empty means the working
	// directory.
	Path string
	// Ref is the reference to synchronize to. Empty uses the template's
	// latest.
	Ref string
	// Interactive allows prompting for variables the record does not hold.
	Interactive bool
}

// Sync updates the project to the template's latest reference. The project
// repository must be clean; a dirty tree, a non-applying patch, or a failed
// application all leave both the project and the record untouched.
func Sync(opts Options) (result.Result, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Str("path", opts.Path).Msg("Executing sync")

	s, err := session.Open(opts.Path, opts.Interactive)
	if err != nil {
		return result.Result{}, err
	}
	defer s.Close()

	if s.Record.Template.Patch.Type != vcs.TypeGit {
		return result.Result{}, errors.Newf(errors.ErrPatchTypeNotSupported, "patch type %q is not supported", s.Record.Template.Patch.Type)
	}

	project, err := vcs.Open(s.ProjectDir, s.Record.Template.VCS)
	if err != nil {
		return result.Result{}, err
	}
	dirty, err := project.IsDirty()
	if err != nil {
		return result.Result{}, err
	}
	if clean := result.Inverse(dirty); !clean.Ok() {
		return result.Failuref("Project has uncommitted changes:\n\n%s\n\nCommit or stash them, then run sync again.", indent(clean.Stdout)), nil
	}

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
		// The record and every equality check hold commit identities, so a
		// symbolic target is pinned to one before use.
		if target, err = repo.ResolveRef(target); err != nil {
			return result.Result{}, err
		}
	}
	local := s.Record.Template.Ref
	if local == target {
		return result.Successf("Project is already up to date at ref %s.", target), nil
	}

	currentTree, err := s.RenderAt(repo, local, "current")
	if err != nil {
		return result.Result{}, err
	}
	latestTree, err := s.RenderAt(repo, target, "latest")
	if err != nil {
		return result.Result{}, err
	}
	d, err := compare.Compare(currentTree, latestTree, s.Record.Template.Comparison)
	if err != nil {
		return result.Result{}, err
	}

	if d.Empty() {
		// The refs differ but render identically; only the record moves.
		s.Record.SetRef(target)
		if err := state.Write(s.Record, s.RecordPath); err != nil {
			return result.Result{}, err
		}
		return result.Successf("No rendered changes between %s and %s; record advanced to %s.", local, target, target), nil
	}

	if check := project.CheckPatch(d.Content); !check.Success {
		return result.Failuref("Template changes do not apply cleanly:\n\n%s\n\nRun \"microsync drift\" to see local divergence, resolve it, then run sync again.", indent(strings.TrimSpace(check.Stderr))), nil
	}

	message := patchMessage(s.Record.Template.Patch.Message, target)
	applied := project.ApplyPatch(d.Content, message)
	if !applied.Success {
		if applied.Err != nil {
			return result.Result{}, applied.Err
		}
		return result.Failuref("Patch application failed; the project was restored:\n\n%s", indent(applied.Stderr)), nil
	}

	// The commit exists; only now may the record advance.
	s.Record.SetRef(target)
	if err := state.Write(s.Record, s.RecordPath); err != nil {
		return result.Result{}, err
	}

	log.Info().Str("ref", target).Msg("Project synchronized")
	return result.Successf("Synchronized project to template ref %s.\n\nThe linkage record was updated; commit it to finish.", target), nil
}

// patchMessage expands the record's commit message template.
func patchMessage(tmpl, ref string) string {
	return strings.NewReplacer(
		"{ref}", ref,
		"{version}", version.Version,
	).Replace(tmpl)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
