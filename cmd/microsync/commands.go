package main

import (
	"github.com/spf13/cobra"

	"github.com/microsync/microsync/pkg/commands/diff"
	"github.com/microsync/microsync/pkg/commands/drift"
	"github.com/microsync/microsync/pkg/commands/initialize"
	"github.com/microsync/microsync/pkg/commands/link"
	"github.com/microsync/microsync/pkg/commands/status"
	"github.com/microsync/microsync/pkg/commands/sync"
	"github.com/microsync/microsync/pkg/commands/unlink"
)

var (
	initPath   string
	initRef    string
	initForce  bool
	initScript bool

	initCmd = &cobra.Command{
		Use:   "init TEMPLATE",
		Short: MsgInitShort,
		Long:  MsgInitLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := initialize.Init(initialize.Options{
				Src:         args[0],
				Path:        initPath,
				Ref:         initRef,
				Force:       initForce,
				Interactive: interactive(initScript),
			})
			if err != nil {
				return err
			}
			return emit(res)
		},
	}

	linkPath   string
	linkRef    string
	linkScript bool

	linkCmd = &cobra.Command{
		Use:   "link TEMPLATE",
		Short: MsgLinkShort,
		Long:  MsgLinkLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := link.Link(link.Options{
				Src:         args[0],
				Path:        linkPath,
				Ref:         linkRef,
				Interactive: interactive(linkScript),
			})
			if err != nil {
				return err
			}
			return emit(res)
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status [PATH]",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := status.Status(status.Options{Path: pathArg(args)})
			if err != nil {
				return err
			}
			return emit(res)
		},
	}

	diffRef    string
	diffScript bool

	diffCmd = &cobra.Command{
		Use:   "diff [PATH]",
		Short: MsgDiffShort,
		Long:  MsgDiffLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := diff.Diff(diff.Options{
				Path:        pathArg(args),
				Ref:         diffRef,
				Interactive: interactive(diffScript),
			})
			if err != nil {
				return err
			}
			return emit(res)
		},
	}

	driftScript bool

	driftCmd = &cobra.Command{
		Use:   "drift [PATH]",
		Short: MsgDriftShort,
		Long:  MsgDriftLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := drift.Drift(drift.Options{
				Path:        pathArg(args),
				Interactive: interactive(driftScript),
			})
			if err != nil {
				return err
			}
			return emit(res)
		},
	}

	syncRef    string
	syncScript bool

	syncCmd = &cobra.Command{
		Use:   "sync [PATH]",
		Short: MsgSyncShort,
		Long:  MsgSyncLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := sync.Sync(sync.Options{
				Path:        pathArg(args),
				Ref:         syncRef,
				Interactive: interactive(syncScript),
			})
			if err != nil {
				return err
			}
			return emit(res)
		},
	}

	unlinkPath string

	unlinkCmd = &cobra.Command{
		Use:   "unlink",
		Short: MsgUnlinkShort,
		Long:  MsgUnlinkLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := unlink.Unlink(unlink.Options{Path: unlinkPath})
			if err != nil {
				return err
			}
			return emit(res)
		},
	}
)

func init() {
	initCmd.Flags().StringVar(&initPath, "path", "", "Directory to render into (default: derived from TEMPLATE)")
	initCmd.Flags().StringVar(&initRef, "ref", "", "Template reference to initialize from")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Replace the output directory if it exists")
	initCmd.Flags().BoolVar(&initScript, "script", false, "Never prompt; use recorded values and defaults")

	linkCmd.Flags().StringVar(&linkPath, "path", "", "Project directory to link (default: working directory)")
	linkCmd.Flags().StringVar(&linkRef, "ref", "", "Template reference the project corresponds to")
	linkCmd.Flags().BoolVar(&linkScript, "script", false, "Never prompt; use recorded values and defaults")

	diffCmd.Flags().StringVar(&diffRef, "ref", "", "Reference to diff against (default: template latest)")
	diffCmd.Flags().BoolVar(&diffScript, "script", false, "Never prompt; use recorded values and defaults")

	driftCmd.Flags().BoolVar(&driftScript, "script", false, "Never prompt; use recorded values and defaults")

	syncCmd.Flags().StringVar(&syncRef, "ref", "", "Reference to synchronize to (default: template latest)")
	syncCmd.Flags().BoolVar(&syncScript, "script", false, "Never prompt; use recorded values and defaults")

	unlinkCmd.Flags().StringVar(&unlinkPath, "path", "", "Project directory to unlink (default: working directory)")
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
