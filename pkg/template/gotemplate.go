package template

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/charmbracelet/huh"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/logging"
)

func init() {
	if err := Register(TypeGoTemplate, func() Engine { return &goTemplate{} }); err != nil {
		panic(err)
	}
}

// goTemplate expands templates with Go's text/template syntax. Both file
// contents and path segments are treated as template text, so a template
// can name files after variable values.
type goTemplate struct{}

func (g *goTemplate) Variables(src string, recorded map[string]string, interactive bool) (map[string]string, error) {
	manifest, err := ReadManifest(src)
	if err != nil {
		return nil, err
	}

	// Recorded values all carry over, declared in the manifest or not, so a
	// template that stops declaring a variable keeps rendering reproducibly.
	resolved := make(map[string]string, len(recorded)+len(manifest.Variables))
	for name, value := range recorded {
		resolved[name] = value
	}

	var fields []huh.Field
	pending := make(map[string]*string)

	for _, v := range manifest.Variables {
		if _, ok := recorded[v.Name]; ok {
			continue
		}
		if !interactive {
			resolved[v.Name] = v.Default
			continue
		}
		value := v.Default
		pending[v.Name] = &value
		fields = append(fields, huh.NewInput().Title(v.Title()).Value(&value))
	}

	if len(fields) > 0 {
		form := huh.NewForm(huh.NewGroup(fields...))
		if err := form.Run(); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "variable prompt aborted")
		}
		for name, value := range pending {
			resolved[name] = *value
		}
	}
	return resolved, nil
}

func (g *goTemplate) Render(src, dst string, variables map[string]string, force bool) (Rendered, error) {
	log := logging.GetLogger("template.gotemplate")

	dst, err := filepath.Abs(dst)
	if err != nil {
		return Rendered{}, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %q", dst)
	}
	if exists(dst) {
		if !force {
			return Rendered{}, errors.Newf(errors.ErrRenderOutputExists, "render output %q already exists", dst)
		}
		if err := os.RemoveAll(dst); err != nil {
			return Rendered{}, errors.Wrapf(err, errors.ErrInternal, "cannot replace render output %q", dst)
		}
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return Rendered{}, errors.Wrapf(err, errors.ErrInternal, "cannot create render output %q", dst)
	}

	log.Debug().Str("src", src).Str("dst", dst).Int("variables", len(variables)).Msg("Rendering template")

	walkErr := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "cannot walk template at %q", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot relativize %q", path)
		}
		if rel == "." {
			return nil
		}
		if skipRendering(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		outRel, err := expand("path:"+rel, rel, variables)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, outRel)

		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		return g.renderEntry(path, out, rel, variables)
	})
	if walkErr != nil {
		return Rendered{}, walkErr
	}
	return Rendered{Path: dst, Variables: variables}, nil
}

// renderEntry writes a single rendered file. Symbolic links are recreated
// as links with an expanded target; binary content is copied verbatim.
func (g *goTemplate) renderEntry(src, dst, rel string, variables map[string]string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "cannot stat %q", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot create directory for %q", dst)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "cannot read link %q", src)
		}
		expanded, err := expand("link:"+rel, target, variables)
		if err != nil {
			return err
		}
		if err := os.Symlink(expanded, dst); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot create link %q", dst)
		}
		return nil
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "cannot read %q", src)
	}

	if !isText(content) {
		if err := os.WriteFile(dst, content, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot write %q", dst)
		}
		return nil
	}

	rendered, err := expand(rel, string(content), variables)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, []byte(rendered), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot write %q", dst)
	}
	return nil
}

// expand runs text through text/template against the variable set. An
// expression referencing an undeclared variable is an error rather than a
// silently empty substitution.
func expand(name, text string, variables map[string]string) (string, error) {
	tmpl, err := texttemplate.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "template expression in %q is malformed", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateSourceInvalid, "cannot expand %q", name)
	}
	return buf.String(), nil
}

// skipRendering lists paths that belong to the template's own machinery
// and never appear in the output.
func skipRendering(rel string) bool {
	if rel == ManifestFileName {
		return true
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	return first == ".git"
}

func isText(content []byte) bool {
	return !bytes.ContainsRune(content, 0)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
