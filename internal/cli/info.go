package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DBInfo is the payload of the info command.
type DBInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Version string `json:"version"`
	Shared  bool   `json:"shared"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "info",
		Short:         "Show database name, path, and version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	f := formatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	profile, err := loadProfile(opts)
	if err != nil {
		return err
	}
	db, err := opts.Dialer(profile.ProgID)
	if err != nil {
		return WrapExitError(ExitCommandError, "connecting", err)
	}

	var info DBInfo
	if info.Name, err = db.Name(); err != nil {
		return WrapExitError(ExitFailure, "reading database name", err)
	}
	if info.Path, err = db.Path(); err != nil {
		return WrapExitError(ExitFailure, "reading database path", err)
	}
	if info.Version, err = db.VersionExt(); err != nil {
		return WrapExitError(ExitFailure, "reading database version", err)
	}
	if info.Shared, err = db.Shared(); err != nil {
		return WrapExitError(ExitFailure, "reading shared flag", err)
	}

	if opts.Format == "json" {
		return f.Success(info)
	}
	return f.Success(fmt.Sprintf("%s\npath: %s\nversion: %s\nshared: %t",
		info.Name, info.Path, info.Version, info.Shared))
}
