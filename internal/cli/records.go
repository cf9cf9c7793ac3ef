package cli

import (
	"github.com/spf13/cobra"

	"github.com/pawrequest/gommence/internal/filters"
	"github.com/pawrequest/gommence/internal/records"
)

// RecordsOptions holds flags for the records listing command.
type RecordsOptions struct {
	Category string
	Limit    int
	Offset   int
	Where    []string
	SortBy   string
	Desc     bool
}

// NewRecordsCommand creates the records command.
func NewRecordsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordsOptions{}

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List records of a category",
		Long: `List records of a category, optionally filtered and paged.

Filters are Field=Value for equality or Field~Value for contains, and
may repeat up to the eight slots the product supports.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "category name")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum rows to return (0 = all)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "rows to skip")
	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "filter Field=Value or Field~Value (repeatable)")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "sort column")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")

	return cmd
}

func runRecords(rootOpts *RootOptions, opts *RecordsOptions, cmd *cobra.Command) error {
	f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	h, _, err := openHandler(rootOpts, opts.Category)
	if err != nil {
		return err
	}

	filter, err := parseWhere(opts.Where)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing filters", err)
	}
	if opts.SortBy != "" {
		if filter == nil {
			if filter, err = filters.NewArray(); err != nil {
				return WrapExitError(ExitCommandError, "building filter", err)
			}
		}
		filter.Sorts = append(filter.Sorts, filters.Sort{Column: opts.SortBy, Descending: opts.Desc})
	}

	rows, more, err := h.ReadRows(records.ReadOpts{
		Page:   records.Page{Offset: opts.Offset, Limit: opts.Limit},
		Filter: filter,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "reading rows", err)
	}
	f.VerboseLog("read %d row(s) from %s, %d more", len(rows), h.Category(), more)
	return f.Rows(rows, more)
}
