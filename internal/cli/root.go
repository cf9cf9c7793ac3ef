package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pawrequest/gommence/internal/cmc"
	"github.com/pawrequest/gommence/internal/profiles"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Profile      string
	ProfilesPath string
	Verbose      bool
	Format       string // "json" | "text"

	// Dialer opens the database connection. Defaults to cmc.Connect;
	// tests inject a fake-backed dialer.
	Dialer func(progID string) (*cmc.DB, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gommence CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

// newRootCommand wires the command tree around opts. Tests pass opts
// carrying a fake dialer.
func newRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Dialer == nil {
		opts.Dialer = cmc.Connect
	}

	cmd := &cobra.Command{
		Use:   "gommence",
		Short: "gommence - drive a Commence database from the command line",
		Long:  "A client for the Commence desktop database's COM automation interface.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.Profile, "profile", "p", "", "connection profile name")
	cmd.PersistentFlags().StringVar(&opts.ProfilesPath, "profiles", profiles.DefaultPath(), "profiles file path")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewRecordsCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// Execute runs the root command, mapping errors to exit codes.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(GetExitCode(err))
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
