package compare

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/state"
)

func init() {
	if err := Register(TypeUnidiff, func() Comparison { return &unidiff{} }); err != nil {
		panic(err)
	}
}

// unidiff produces unified diffs by shelling out to git's no-index diff
// mode. The two trees do not need to be repositories.
type unidiff struct{}

func (u *unidiff) Compare(first, second string, options state.Comparison) (Diff, error) {
	content, err := u.diff(first, second, nil)
	if err != nil {
		return Diff{}, err
	}
	content = filterSections(content, options.Ignore)
	return Diff{Type: TypeUnidiff, Content: content}, nil
}

func (u *unidiff) CompareFiles(first, second string, options state.Comparison) (Diff, error) {
	content, err := u.diff(first, second, []string{"--name-only"})
	if err != nil {
		return Diff{}, err
	}
	var names []string
	for _, line := range strings.Split(content, "\n") {
		name := strings.TrimPrefix(strings.TrimSpace(line), "/")
		if name == "" || Ignored(name, options.Ignore) {
			continue
		}
		names = append(names, name)
	}
	return Diff{Type: TypeUnidiff, Content: strings.Join(names, "\n")}, nil
}

// diff runs git diff --no-index over the two trees and strips their
// absolute locations from the output, so identical trees produce
// byte-identical diffs no matter where they were materialized.
func (u *unidiff) diff(first, second string, extra []string) (string, error) {
	firstAbs, err := filepath.Abs(first)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %q", first)
	}
	secondAbs, err := filepath.Abs(second)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %q", second)
	}

	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrToolNotFound, "git binary not found")
	}

	args := []string{"--no-pager", "diff", "--no-index", "--no-ext-diff", "--no-color"}
	args = append(args, extra...)
	args = append(args, firstAbs, secondAbs)

	log := logging.GetLogger("compare.unidiff")
	log.Debug().
		Str("first", firstAbs).
		Str("second", secondAbs).
		Msg("Comparing trees")

	cmd := exec.Command(gitPath, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	// Exit code 1 means the trees differ, which is a result, not a failure.
	if runErr := cmd.Run(); runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			return "", errors.Wrap(runErr, errors.ErrToolFailed, "git could not be run")
		}
		if exitErr.ExitCode() > 1 {
			return "", errors.Newf(errors.ErrToolFailed, "git diff failed: %s", strings.TrimSpace(errBuf.String()))
		}
	}

	out := outBuf.String()
	out = strings.ReplaceAll(out, firstAbs, "")
	out = strings.ReplaceAll(out, secondAbs, "")
	return out, nil
}

// filterSections drops per-file sections of a unified diff whose path
// matches an ignore pattern. Sections start at "diff --git" headers.
func filterSections(content string, patterns []string) string {
	if len(patterns) == 0 || strings.TrimSpace(content) == "" {
		return content
	}

	const header = "diff --git "
	var kept []string
	lines := strings.Split(content, "\n")
	skipping := false
	for _, line := range lines {
		if strings.HasPrefix(line, header) {
			skipping = Ignored(sectionPath(line), patterns)
		}
		if !skipping {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// sectionPath extracts the relative file path from a "diff --git a/x b/x"
// header line.
func sectionPath(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return ""
	}
	p := strings.TrimPrefix(fields[len(fields)-1], "b/")
	return strings.TrimPrefix(p, "/")
}
