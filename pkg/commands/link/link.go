// Package link attaches an existing project to a template without touching
// any project file except the linkage record. It establishes the context a
// later diff, drift, or sync needs: the template source, the pinned
// reference, and the variable values.
package link

import (
	"os"
	"path/filepath"

	"github.com/microsync/microsync/pkg/commands/initialize"
	"github.com/microsync/microsync/pkg/config"
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/paths"
	"github.com/microsync/microsync/pkg/result"
	"github.com/microsync/microsync/pkg/scratch"
	"github.com/microsync/microsync/pkg/state"
	"github.com/microsync/microsync/pkg/template"
	"github.com/microsync/microsync/pkg/vcs"
)

// Options defines the options for the Link command.
type Options struct {
	// Src is the template repository locator.
	Src string
	// Path is the existing project directory to link. Empty means the
	// working directory.
	Path string
	// Ref is the template reference the project corresponds to. Empty uses
	// the repository default.
	Ref string
	// Interactive enables prompting for template variables.
	Interactive bool
}

// Link writes a linkage record into an existing project directory. Nothing
// is rendered; the project's files are left exactly as they are.
func Link(opts Options) (result.Result, error) {
	log := logging.GetLogger("commands.link")
	log.Debug().Str("src", opts.Src).Str("path", opts.Path).Str("ref", opts.Ref).Msg("Executing link")

	if opts.Src == "" {
		return result.Result{}, errors.New(errors.ErrInvalidInput, "template src cannot be empty")
	}

	dir := opts.Path
	if dir == "" {
		dir = "."
	}
	dir, err := paths.Resolve(dir)
	if err != nil {
		return result.Result{}, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return result.Result{}, errors.Newf(errors.ErrInvalidInput, "project directory %q does not exist", dir)
	}
	recordPath := filepath.Join(dir, state.RecordFileName)
	if _, err := os.Stat(recordPath); err == nil {
		return result.Result{}, errors.Newf(errors.ErrAlreadyExists, "project %q is already linked", dir)
	}

	cfg, err := config.Load()
	if err != nil {
		return result.Result{}, err
	}
	record := initialize.NewRecord(opts.Src, opts.Ref, cfg)

	sc, err := scratch.New("")
	if err != nil {
		return result.Result{}, err
	}
	defer sc.Close()

	checkout, err := sc.Dir("template")
	if err != nil {
		return result.Result{}, err
	}
	repo, err := vcs.Obtain(opts.Src, checkout, opts.Ref, record.Template.VCS)
	if err != nil {
		return result.Result{}, err
	}
	resolved, err := repo.CurrentRef()
	if err != nil {
		return result.Result{}, err
	}
	record.SetRef(resolved)

	engine, err := template.ForType(record.Template.Engine.Type)
	if err != nil {
		return result.Result{}, err
	}
	variables, err := engine.Variables(repo.Path(), nil, opts.Interactive)
	if err != nil {
		return result.Result{}, err
	}
	record.SetVariables(template.Record(variables))

	if err := state.Write(record, recordPath); err != nil {
		return result.Result{}, err
	}

	log.Info().Str("path", dir).Str("ref", resolved).Msg("Project linked")
	return result.Successf("Linked %s to %s at ref %s.", initialize.DisplayPath(dir), opts.Src, resolved), nil
}
