// Package session holds the plumbing shared by the synchronization
// operations: loading the linkage record, scoping scratch space to the
// operation's lifetime, and rendering the template at specific references
// with one shared variable context.
package session

import (
	"path/filepath"

	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/scratch"
	"github.com/microsync/microsync/pkg/state"
	"github.com/microsync/microsync/pkg/template"
	"github.com/microsync/microsync/pkg/vcs"
)

// Session binds one operation to a project's linkage record and a scratch
// area that lives exactly as long as the operation.
type Session struct {
	Record     *state.State
	RecordPath string
	ProjectDir string
	Scratch    *scratch.Scratch

	interactive bool
	context     map[string]string
}

// Open loads the linkage record at path (a project directory or a record
// file) and allocates scratch space. interactive controls whether resolving
// the variable context may prompt for values the record does not hold.
// Close must be called when the operation finishes.
func Open(path string, interactive bool) (*Session, error) {
	recordPath, err := state.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	record, err := state.Read(recordPath)
	if err != nil {
		return nil, err
	}
	sc, err := scratch.New("")
	if err != nil {
		return nil, err
	}
	return &Session{
		Record:      record,
		RecordPath:  recordPath,
		ProjectDir:  filepath.Dir(recordPath),
		Scratch:     sc,
		interactive: interactive,
	}, nil
}

// Close releases the session's scratch space.
func (s *Session) Close() {
	s.Scratch.Close()
}

// ObtainTemplate materializes the template repository into a named scratch
// directory at the given reference.
func (s *Session) ObtainTemplate(name, ref string) (vcs.Repository, error) {
	dst, err := s.Scratch.Dir(name)
	if err != nil {
		return nil, err
	}
	return vcs.Obtain(s.Record.Template.Src, dst, ref, s.Record.Template.VCS)
}

// Context resolves the variable context once per session: recorded values
// first, then manifest defaults or prompts for anything the template added
// since. Every render in the session shares the same context, so a prompt
// is asked at most once and both sides of a diff see identical values.
func (s *Session) Context(repo vcs.Repository) (map[string]string, error) {
	if s.context != nil {
		return s.context, nil
	}
	engine, err := template.ForType(s.Record.Template.Engine.Type)
	if err != nil {
		return nil, err
	}
	resolved, err := engine.Variables(repo.Path(), template.Values(s.Record.Variables), s.interactive)
	if err != nil {
		return nil, err
	}
	s.context = resolved
	return resolved, nil
}

// Render expands the repository's current checkout into a named scratch
// directory using the record's engine and the shared context.
func (s *Session) Render(repo vcs.Repository, name string) (string, error) {
	engine, err := template.ForType(s.Record.Template.Engine.Type)
	if err != nil {
		return "", err
	}
	context, err := s.Context(repo)
	if err != nil {
		return "", err
	}
	dst, err := s.Scratch.Path(name)
	if err != nil {
		return "", err
	}
	rendered, err := engine.Render(repo.Path(), dst, context, false)
	if err != nil {
		return "", err
	}
	return rendered.Path, nil
}

// RenderAt switches the repository to ref, renders it into a named scratch
// directory, and restores the previously checked-out reference before
// returning, whether or not rendering succeeded.
func (s *Session) RenderAt(repo vcs.Repository, ref, name string) (string, error) {
	restore, err := repo.Switch(ref)
	if err != nil {
		return "", err
	}
	defer func() {
		if restoreErr := restore(); restoreErr != nil {
			log := logging.GetLogger("session")
			log.Warn().Err(restoreErr).Str("ref", ref).Msg("Failed to restore reference")
		}
	}()
	return s.Render(repo, name)
}
