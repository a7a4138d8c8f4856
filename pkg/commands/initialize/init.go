// Package initialize creates a new project from a template: it renders the
// template into a fresh directory and writes the linkage record that later
// synchronization operations depend on.
package initialize

import (
	"os"
	"path/filepath"

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

// Options defines the options for the Init command.
type Options struct {
	// Src is the template repository locator.
	Src string
	// Path is the directory to render into. Empty derives a name from Src.
	Path string
	// Ref is the template reference to initialize from. Empty uses the
	// repository default.
	Ref string
	// Force replaces an existing output directory.
	Force bool
	// Interactive enables prompting for template variables.
	Interactive bool
}

// Init renders a template into a new project directory and links the two
// by writing a linkage record into the output.
func Init(opts Options) (result.Result, error) {
	log := logging.GetLogger("commands.init")
	log.Debug().Str("src", opts.Src).Str("path", opts.Path).Str("ref", opts.Ref).Msg("Executing init")

	if opts.Src == "" {
		return result.Result{}, errors.New(errors.ErrInvalidInput, "template src cannot be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return result.Result{}, err
	}
	record := NewRecord(opts.Src, opts.Ref, cfg)

	out := opts.Path
	if out == "" {
		out = paths.SrcToName(opts.Src)
	}
	out, err = paths.Resolve(out)
	if err != nil {
		return result.Result{}, err
	}

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

	// Pin the record to the commit actually rendered, not a moving name.
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

	rendered, err := engine.Render(repo.Path(), out, variables, opts.Force)
	if err != nil {
		return result.Result{}, err
	}

	record.SetVariables(template.Record(variables))
	if err := state.Write(record, rendered.Path); err != nil {
		return result.Result{}, err
	}

	log.Info().Str("path", rendered.Path).Str("ref", resolved).Msg("Project initialized")
	return result.Successf("Initialized %s from %s at ref %s.", DisplayPath(rendered.Path), opts.Src, resolved), nil
}

// NewRecord builds a record from configured defaults, overriding the
// built-in ones where the user config differs.
func NewRecord(src, ref string, cfg *config.Defaults) *state.State {
	record := state.New(src, ref, cfg.VCSType, cfg.EngineType, cfg.ComparisonType)
	record.Template.VCS.Depth = cfg.VCSDepth
	record.Template.VCS.Branch = cfg.VCSBranch
	record.Template.VCS.Origin = "origin/" + cfg.VCSBranch
	record.Template.Comparison.Ignore = cfg.Ignore
	record.Template.Patch.Type = cfg.PatchType
	record.Template.Patch.Message = cfg.PatchMessage
	return record
}

// DisplayPath prefers a path relative to the working directory for output.
func DisplayPath(abs string) string {
	wd, err := os.Getwd()
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return abs
	}
	return rel
}
