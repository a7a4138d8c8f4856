// Package state defines the linkage record: the persisted state binding a
// project directory to the template repository that produced it. The record
// is stored as YAML at a fixed hidden filename inside the project root and
// is the only file microsync ever persists on a project's behalf.
package state

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/microsync/microsync/internal/version"
	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/paths"
)

// RecordFileName is the well-known hidden filename of the linkage record
// within a project directory.
const RecordFileName = ".microsync.yaml"

// Default values for new records.
const (
	DefaultRef            = "HEAD"
	DefaultVCSType        = "git"
	DefaultVCSDepth       = 20
	DefaultVCSBranch      = "master"
	DefaultEngineType     = "gotemplate"
	DefaultComparisonType = "unidiff"
	DefaultPatchType      = "git"
	DefaultPatchMessage   = "Update to template ref {ref}\n\nMicrosync version: {version}"
)

// VCS holds version control options for the template repository.
type VCS struct {
	Type   string `yaml:"type"`
	Depth  int    `yaml:"depth"`
	Branch string `yaml:"branch"`
	Origin string `yaml:"origin"`
}

// Comparison holds comparison options.
type Comparison struct {
	Type   string   `yaml:"type"`
	Ignore []string `yaml:"ignore,omitempty"`
}

// Patch holds patch application options.
type Patch struct {
	Type    string `yaml:"type"`
	Message string `yaml:"message"`
}

// Engine holds template engine options.
type Engine struct {
	Type string `yaml:"type"`
}

// Template describes the template repository a project is linked to.
type Template struct {
	Src        string     `yaml:"src"`
	Ref        string     `yaml:"ref"`
	VCS        VCS        `yaml:"vcs"`
	Comparison Comparison `yaml:"comparison"`
	Engine     Engine     `yaml:"engine"`
	Patch      Patch      `yaml:"patch"`
}

// Meta carries record format metadata.
type Meta struct {
	Version string `yaml:"version"`
}

// State is the linkage record for one project.
type State struct {
	Template  Template               `yaml:"template"`
	Meta      Meta                   `yaml:"meta"`
	Variables map[string]interface{} `yaml:"variables"`
}

// SetRef records the reference the project now reflects.
func (s *State) SetRef(ref string) {
	s.Template.Ref = ref
}

// SetVariables records the variable set used to render the project.
func (s *State) SetVariables(variables map[string]interface{}) {
	s.Variables = variables
}

// Encode serializes the record to YAML. Field order is fixed by the struct
// declarations, so encoding is deterministic and human-diffable.
func (s *State) Encode() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode linkage record")
	}
	return out, nil
}

// Decode parses a record from YAML and validates required fields.
func Decode(content []byte) (*State, error) {
	var s State
	if err := yaml.Unmarshal(content, &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrRecordMalformed, "linkage record malformed")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// validate checks that every required nested field survived decoding. A
// missing field is distinct from malformed content: it signals a record
// written by an incompatible version.
func (s *State) validate() error {
	required := []struct {
		field string
		value string
	}{
		{"template.src", s.Template.Src},
		{"template.ref", s.Template.Ref},
		{"template.vcs.type", s.Template.VCS.Type},
		{"template.comparison.type", s.Template.Comparison.Type},
		{"template.engine.type", s.Template.Engine.Type},
		{"template.patch.type", s.Template.Patch.Type},
		{"meta.version", s.Meta.Version},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.Newf(errors.ErrRecordFieldMissing, "linkage record field %q missing", r.field)
		}
	}
	return nil
}

// New creates a record for the given template source and pluggable types,
// with defaults filled in for everything else.
func New(src, ref, vcsType, templateType, comparisonType string) *State {
	if ref == "" {
		ref = DefaultRef
	}
	return &State{
		Template: Template{
			Src: src,
			Ref: ref,
			VCS: VCS{
				Type:   vcsType,
				Depth:  DefaultVCSDepth,
				Branch: DefaultVCSBranch,
				Origin: "origin/" + DefaultVCSBranch,
			},
			Comparison: Comparison{
				Type: comparisonType,
			},
			Engine: Engine{
				Type: templateType,
			},
			Patch: Patch{
				Type:    DefaultPatchType,
				Message: DefaultPatchMessage,
			},
		},
		Meta: Meta{
			Version: version.Version,
		},
		Variables: map[string]interface{}{},
	}
}

// ResolvePath resolves a user-supplied path to the absolute record file
// path. A directory resolves to the well-known record filename inside it.
func ResolvePath(path string) (string, error) {
	abs, err := paths.Resolve(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		abs = filepath.Join(abs, RecordFileName)
	}
	return abs, nil
}

// Read loads the record at path, which may name the record file or the
// project directory containing it.
func Read(path string) (*State, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrRecordNotFound, "linkage record not found at %q", resolved)
		}
		return nil, errors.Wrapf(err, errors.ErrRecordNotFound, "cannot read linkage record at %q", resolved)
	}
	return Decode(content)
}

// Write persists the record at path, which may name the record file or the
// project directory to place it in.
func Write(s *State, path string) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}
	content, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(resolved, content, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot write linkage record at %q", resolved)
	}
	return nil
}

// Delete removes the record at path.
func Delete(path string) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrRecordNotFound, "linkage record not found at %q", resolved)
		}
		return errors.Wrapf(err, errors.ErrInternal, "cannot delete linkage record at %q", resolved)
	}
	return nil
}
