package vcs

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/paths"
	"github.com/microsync/microsync/pkg/result"
	"github.com/microsync/microsync/pkg/state"
)

func init() {
	if err := Register(TypeGit, func() VersionControl { return &gitVCS{} }); err != nil {
		panic(err)
	}
}

// GitAvailable reports whether the git binary can be found.
func GitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// gitVCS implements VersionControl by shelling out to the git binary.
type gitVCS struct{}

func (v *gitVCS) IsRepoPath(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

func (v *gitVCS) RemoteURL(path string) (string, error) {
	repo := &gitRepository{path: path}
	return repo.RemoteURL()
}

func (v *gitVCS) Open(path string, options state.VCS) (Repository, error) {
	resolved, err := paths.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !v.IsRepoPath(resolved) {
		return nil, errors.Newf(errors.ErrInvalidInput, "%q is not a git repository", resolved)
	}
	repo := newGitRepository("", resolved, options)
	if url, err := repo.RemoteURL(); err == nil {
		repo.src = url
	}
	return repo, nil
}

func (v *gitVCS) Obtain(src, dst, ref string, options state.VCS) (Repository, error) {
	dst, err := paths.Resolve(dst)
	if err != nil {
		return nil, err
	}
	log := logging.GetLogger("vcs.git")

	if v.IsRepoPath(dst) {
		log.Debug().Str("path", dst).Msg("Reusing existing repository")
		repo := newGitRepository(src, dst, options)
		if src == "" {
			if url, err := repo.RemoteURL(); err == nil {
				repo.src = url
			}
		}
		// Update is best-effort on reuse: a project repository may have no
		// reachable remote, which must not block local operations.
		if err := repo.Update(); err != nil {
			log.Debug().Err(err).Str("path", dst).Msg("Update skipped")
		}
		if ref != "" && ref != state.DefaultRef {
			if err := repo.Checkout(ref); err != nil {
				return nil, err
			}
		}
		return repo, nil
	}

	if err := validateSrc(src); err != nil {
		return nil, err
	}

	log.Debug().Str("src", src).Str("dst", dst).Str("ref", ref).Msg("Cloning repository")
	args := []string{"clone"}
	if options.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(options.Depth))
	}
	args = append(args, src, dst)
	if _, stderr, code, err := runGit("", "", args...); err != nil {
		return nil, err
	} else if code != 0 {
		return nil, errors.Newf(errors.ErrToolFailed, "git clone failed: %s", strings.TrimSpace(stderr))
	}

	repo := newGitRepository(src, dst, options)
	if ref != "" && ref != state.DefaultRef {
		if err := repo.Checkout(ref); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// validateSrc accepts any locator the cache-path classifier supports, plus
// existing local directories.
func validateSrc(src string) error {
	if _, err := paths.SrcToPath(src); err == nil {
		return nil
	}
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		return nil
	}
	return errors.Newf(errors.ErrTemplateSourceInvalid, "template src %q is not a supported repository locator", src)
}

// gitRepository implements Repository for git working directories.
type gitRepository struct {
	src     string
	path    string
	options state.VCS
}

func newGitRepository(src, path string, options state.VCS) *gitRepository {
	return &gitRepository{src: src, path: path, options: options}
}

func (r *gitRepository) Src() string {
	return r.src
}

func (r *gitRepository) Path() string {
	return r.path
}

func (r *gitRepository) IsValid() bool {
	_, err := os.Stat(filepath.Join(r.path, ".git"))
	return err == nil
}

func (r *gitRepository) IsDirty() (result.Result, error) {
	stdout, stderr, code, err := r.run("", "status", "--porcelain")
	if err != nil {
		return result.Result{}, err
	}
	if code != 0 {
		return result.Result{}, errors.Newf(errors.ErrToolFailed, "git status failed: %s", strings.TrimSpace(stderr))
	}
	status := strings.TrimSpace(stdout)
	return result.Result{Success: status != "", Stdout: status}, nil
}

func (r *gitRepository) CurrentRef() (string, error) {
	return r.revParse("HEAD")
}

func (r *gitRepository) ResolveRef(ref string) (string, error) {
	return r.revParse(ref)
}

func (r *gitRepository) RemoteLatestRef() (string, error) {
	origin := r.options.Origin
	if origin == "" {
		origin = "origin/" + state.DefaultVCSBranch
	}
	return r.revParse(origin)
}

func (r *gitRepository) RefSubject(ref string) (string, error) {
	stdout, stderr, code, err := r.run("", "log", "--format=%B", "-n", "1", ref)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", errors.Newf(errors.ErrToolFailed, "git log failed for ref %q: %s", ref, strings.TrimSpace(stderr))
	}
	return paths.SubjectLine(strings.TrimSpace(stdout)), nil
}

func (r *gitRepository) RemoteURL() (string, error) {
	stdout, stderr, code, err := r.run("", "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", errors.Newf(errors.ErrToolFailed, "git remote get-url failed: %s", strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout), nil
}

func (r *gitRepository) Checkout(ref string) error {
	log := logging.GetLogger("vcs.git")
	log.Debug().Str("ref", ref).Str("path", r.path).Msg("Checking out ref")
	_, stderr, code, err := r.run("", "checkout", ref)
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.Newf(errors.ErrToolFailed, "git checkout %q failed: %s", ref, strings.TrimSpace(stderr))
	}
	return nil
}

func (r *gitRepository) Switch(ref string) (RestoreFunc, error) {
	prev, err := r.currentSymbolicRef()
	if err != nil {
		return nil, err
	}
	if err := r.Checkout(ref); err != nil {
		return nil, err
	}
	return func() error {
		return r.Checkout(prev)
	}, nil
}

// currentSymbolicRef prefers the branch name so a restore re-attaches HEAD;
// a detached HEAD falls back to the commit id.
func (r *gitRepository) currentSymbolicRef() (string, error) {
	stdout, _, code, err := r.run("", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(stdout)
	if code == 0 && name != "" && name != "HEAD" {
		return name, nil
	}
	return r.CurrentRef()
}

func (r *gitRepository) Update() error {
	branch := r.options.Branch
	if branch == "" {
		branch = state.DefaultVCSBranch
	}
	if err := r.Checkout(branch); err != nil {
		return err
	}
	_, stderr, code, err := r.run("", "pull")
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.Newf(errors.ErrToolFailed, "git pull failed: %s", strings.TrimSpace(stderr))
	}
	return nil
}

func (r *gitRepository) Reset() error {
	if _, stderr, code, err := r.run("", "clean", "--force", "-d", "-x"); err != nil {
		return err
	} else if code != 0 {
		return errors.Newf(errors.ErrToolFailed, "git clean failed: %s", strings.TrimSpace(stderr))
	}
	if _, stderr, code, err := r.run("", "reset", "--hard", "HEAD"); err != nil {
		return err
	} else if code != 0 {
		return errors.Newf(errors.ErrToolFailed, "git reset failed: %s", strings.TrimSpace(stderr))
	}
	return nil
}

func (r *gitRepository) CheckPatch(patch string) result.Result {
	stdout, stderr, code, err := r.run(patch, "apply", "--check")
	if err != nil {
		return result.Error(err)
	}
	return result.Result{Success: code == 0, Stdout: stdout, Stderr: stderr}
}

func (r *gitRepository) ApplyPatch(patch, message string) result.Result {
	log := logging.GetLogger("vcs.git")
	log.Debug().Str("path", r.path).Msg("Applying patch")

	_, stderr, code, err := r.run(patch, "apply", "--3way")
	if err != nil {
		return result.Error(err)
	}
	if code != 0 {
		// Restore the tree so a conflicted patch never leaves it half-applied.
		if resetErr := r.Reset(); resetErr != nil {
			log.Error().Err(resetErr).Str("path", r.path).Msg("Failed to restore tree after patch failure")
		}
		return result.Failure(strings.TrimSpace(stderr))
	}

	stdout, stderr, code, err := r.run("", "commit", "-m", message, "--signoff")
	if err != nil {
		return result.Error(err)
	}
	if code != 0 {
		if resetErr := r.Reset(); resetErr != nil {
			log.Error().Err(resetErr).Str("path", r.path).Msg("Failed to restore tree after commit failure")
		}
		return result.Failure(strings.TrimSpace(stderr))
	}
	return result.Success(strings.TrimSpace(stdout))
}

func (r *gitRepository) revParse(ref string) (string, error) {
	stdout, stderr, code, err := r.run("", "rev-parse", ref)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", errors.Newf(errors.ErrToolFailed, "git rev-parse %q failed: %s", ref, strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout), nil
}

func (r *gitRepository) run(stdin string, args ...string) (string, string, int, error) {
	return runGit(r.path, stdin, args...)
}

// runGit invokes the git binary, capturing exit status and output. A
// non-zero exit is an expected outcome and is returned as data; only a
// missing binary or unstartable process is an error.
func runGit(dir, stdin string, args ...string) (stdout, stderr string, exitCode int, err error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", "", -1, errors.Wrap(err, errors.ErrToolNotFound, "git binary not found")
	}

	full := []string{"--no-pager"}
	if dir != "" {
		full = append(full, "-C", dir)
	}
	full = append(full, args...)

	cmd := exec.Command(gitPath, full...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	runErr := cmd.Run()
	exitCode = 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return "", "", -1, errors.Wrap(runErr, errors.ErrToolFailed, "git could not be run")
		}
	}
	return outBuf.String(), errBuf.String(), exitCode, nil
}
