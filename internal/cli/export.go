package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pawrequest/gommence/internal/export"
	"github.com/pawrequest/gommence/internal/records"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	Category string
	Where    []string
	Limit    int
	List     bool
	Show     string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:           "export <file>",
		Short:         "Snapshot category rows into a SQLite file",
		Long:          "Read rows from a category and write them as a snapshot into a local SQLite database.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "category to snapshot")
	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "filter, Field=Value or Field~Value (repeatable)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum rows to snapshot (0 for all)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list snapshots in the file instead of writing one")
	cmd.Flags().StringVar(&opts.Show, "show", "", "print the rows of a snapshot by ID")
	return cmd
}

func runExport(rootOpts *RootOptions, opts *ExportOptions, path string, cmd *cobra.Command) error {
	f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	store, err := export.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening "+path, err)
	}
	defer store.Close()

	if opts.List {
		return listSnapshots(f, store)
	}
	if opts.Show != "" {
		rows, err := store.Rows(opts.Show)
		if err != nil {
			return WrapExitError(ExitFailure, "reading snapshot "+opts.Show, err)
		}
		return f.Rows(rows, 0)
	}

	h, profile, err := openHandler(rootOpts, opts.Category)
	if err != nil {
		return err
	}
	filter, err := parseWhere(opts.Where)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing filters", err)
	}

	db, err := rootOpts.Dialer(profile.ProgID)
	if err != nil {
		return WrapExitError(ExitFailure, "connecting", err)
	}
	dbName, err := db.Name()
	if err != nil {
		return WrapExitError(ExitFailure, "reading database name", err)
	}

	snap, err := store.WriteSnapshot(dbName, h, records.ReadOpts{
		Page:   records.Page{Limit: opts.Limit},
		Filter: filter,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "writing snapshot", err)
	}
	f.VerboseLog("snapshot %s: %d row(s) from %s", snap.ID, snap.RowCount, snap.Category)
	return f.Success(fmt.Sprintf("snapshot %s: %d row(s) of %s from %s", snap.ID, snap.RowCount, snap.Category, snap.Database))
}

func listSnapshots(f *OutputFormatter, store *export.Store) error {
	snaps, err := store.Snapshots()
	if err != nil {
		return WrapExitError(ExitFailure, "listing snapshots", err)
	}
	if f.Format == "json" {
		return f.Success(snaps)
	}
	for _, s := range snaps {
		fmt.Fprintf(f.Writer, "%s  %s/%s  %d row(s)  %s\n",
			s.ID, s.Database, s.Category, s.RowCount, s.TakenAt.Format("2006-01-02 15:04:05"))
	}
	if len(snaps) == 0 {
		fmt.Fprintln(f.Writer, "no snapshots")
	}
	return nil
}
