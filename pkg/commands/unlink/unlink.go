// Package unlink detaches a project from its template by removing the
// linkage record. Every other project file is left alone.
package unlink

import (
	"github.com/microsync/microsync/pkg/logging"
	"github.com/microsync/microsync/pkg/result"
	"github.com/microsync/microsync/pkg/state"
)

// Options defines the options for the Unlink command.
type Options struct {
	// Path is the project directory or record file. Empty means the working
	// directory.
	Path string
}

// Unlink removes the project's linkage record.
func Unlink(opts Options) (result.Result, error) {
	log := logging.GetLogger("commands.unlink")
	log.Debug().Str("path", opts.Path).Msg("Executing unlink")

	path := opts.Path
	if path == "" {
		path = "."
	}
	record, err := state.Read(path)
	if err != nil {
		return result.Result{}, err
	}
	if err := state.Delete(path); err != nil {
		return result.Result{}, err
	}
	return result.Successf("Unlinked project from %s at ref %s. The linkage record was removed.",
		record.Template.Src, record.Template.Ref), nil
}
