// Package status reports whether a linked project is up to date with its
// template. It compares the rendered output of the recorded reference
// against the rendered output of the template's latest reference, so only
// changes that would actually reach the project count.
package status

import (
	"fmt"
	"strings"

	"github.com/microsync/microsync/pkg/commands/internal/session"
	"github.com/microsync/microsync/pkg/compare"
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/result"
)

// Options defines the options for the Status command.
type Options struct {
	// Path is the project directory or record file. Empty means the working
	// directory.
	Path string
}

// Status compares the recorded template reference against the template's
// latest. Success means the project is up to date; an out-of-date project
// is a failed result carrying the changed files and guidance.
func Status(opts Options) (result.Result, error) {
	log := logging.GetLogger("commands.status")
	log.Debug().Str("path", opts.Path).Msg("Executing status")

	s, err := session.Open(opts.Path, false)
	if err != nil {
		return result.Result{}, err
	}
	defer s.Close()

	current, err := s.ObtainTemplate("current", s.Record.Template.Ref)
	if err != nil {
		return result.Result{}, err
	}
	// The recorded reference is normally already a commit identity; pinning
	// it keeps the comparison honest for records written by hand.
	local, err := current.ResolveRef(s.Record.Template.Ref)
	if err != nil {
		return result.Result{}, err
	}
	remote, err := current.RemoteLatestRef()
	if err != nil {
		return result.Result{}, err
	}

	if local == remote {
		subject, err := current.RefSubject(local)
		if err != nil {
			return result.Result{}, err
		}
		return result.Successf("Project is up to date with its template.\n\n%s", refBlock("ref", local, subject)), nil
	}

	// Only an out-of-date project needs the second checkout at latest.
	latest, err := s.ObtainTemplate("latest", "")
	if err != nil {
		return result.Result{}, err
	}

	currentTree, err := s.Render(current, "current")
	if err != nil {
		return result.Result{}, err
	}
	latestTree, err := s.Render(latest, "latest")
	if err != nil {
		return result.Result{}, err
	}
	files, err := compare.CompareFiles(currentTree, latestTree, s.Record.Template.Comparison)
	if err != nil {
		return result.Result{}, err
	}

	localSubject, err := current.RefSubject(local)
	if err != nil {
		return result.Result{}, err
	}
	remoteSubject, err := latest.RefSubject(remote)
	if err != nil {
		return result.Result{}, err
	}

	return result.Failure(outOfDateMessage(local, localSubject, remote, remoteSubject, files)), nil
}

func outOfDateMessage(local, localSubject, remote, remoteSubject string, files compare.Diff) string {
	var b strings.Builder
	b.WriteString("Project is out of date with its template.\n\n")
	b.WriteString(refBlock("local", local, localSubject))
	b.WriteString("\n")
	b.WriteString(refBlock("remote", remote, remoteSubject))

	if !files.Empty() {
		b.WriteString("\nFiles changed between refs:\n")
		for _, name := range strings.Split(files.Content, "\n") {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	b.WriteString("\nRun \"microsync diff\" to inspect the changes and \"microsync sync\" to apply them.")
	return b.String()
}

func refBlock(label, ref, subject string) string {
	return fmt.Sprintf("  %-7s %s\n          %s\n", label+":", ref, subject)
}
