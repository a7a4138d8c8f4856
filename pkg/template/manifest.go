package template

import (
	"fmt"
	"os"
	"path/filepath"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/microsync/microsync/pkg/errors"
)

// ManifestFileName is the well-known manifest filename at a template
// repository's root. The manifest itself is never part of the rendered
// output.
const ManifestFileName = "template.toml"

// Variable declares one substitutable value a template expects.
type Variable struct {
	Name    string `toml:"name"`
	Prompt  string `toml:"prompt"`
	Default string `toml:"default"`
}

// Manifest describes a template: its identity and the variables it
// substitutes.
type Manifest struct {
	Name        string     `toml:"name"`
	Description string     `toml:"description"`
	Variables   []Variable `toml:"variables"`
}

// ReadManifest loads the manifest from the template checkout at src. A
// template without a manifest is valid and declares no variables.
func ReadManifest(src string) (*Manifest, error) {
	content, err := os.ReadFile(filepath.Join(src, ManifestFileName))
	if os.IsNotExist(err) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "cannot read template manifest in %q", src)
	}
	var m Manifest
	if err := gotoml.Unmarshal(content, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "template manifest in %q is malformed", src)
	}
	for _, v := range m.Variables {
		if v.Name == "" {
			return nil, errors.Newf(errors.ErrTemplateSourceInvalid, "template manifest in %q declares a variable without a name", src)
		}
	}
	return &m, nil
}

// Title returns the text to prompt with for the variable.
func (v Variable) Title() string {
	if v.Prompt != "" {
		return v.Prompt
	}
	return v.Name
}

// Values coerces record variables, which may decode as any scalar type,
// into the string values engines substitute with.
func Values(recorded map[string]interface{}) map[string]string {
	out := make(map[string]string, len(recorded))
	for k, v := range recorded {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

// Record widens engine variables back into the record's value type.
func Record(variables map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(variables))
	for k, v := range variables {
		out[k] = v
	}
	return out
}
