package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pawrequest/gommence/internal/queries"
	"github.com/pawrequest/gommence/internal/records"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var queriesDir string

	cmd := &cobra.Command{
		Use:           "query <name>",
		Short:         "Run a saved query definition",
		Long:          "Run a named query loaded from the CUE definitions directory.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, queriesDir, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&queriesDir, "queries-dir", "d", "", "directory of .cue query definitions")
	return cmd
}

func runQuery(rootOpts *RootOptions, queriesDir, name string, cmd *cobra.Command) error {
	f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	profile, err := loadProfile(rootOpts)
	if err != nil {
		return err
	}
	if queriesDir == "" {
		queriesDir = profile.QueriesDir
	}
	if queriesDir == "" {
		return NewExitError(ExitCommandError, "no queries directory: set --queries-dir or a profile default")
	}

	defs, loadErrs := queries.Load(queriesDir, queries.LoadModeFailFast)
	if len(loadErrs) > 0 {
		return loadExitError(loadErrs[0])
	}
	def, ok := findDefinition(defs, name)
	if !ok {
		return NewExitError(ExitCommandError, "no query named "+name+" in "+queriesDir)
	}
	f.VerboseLog("query %s: category %s, %d filter(s)", def.Name, def.Category, def.Filters.Len())

	h, _, err := openHandler(rootOpts, def.Category)
	if err != nil {
		return err
	}
	rows, more, err := h.ReadRows(records.ReadOpts{
		Page:   records.Page{Limit: def.Limit},
		Filter: def.Filters,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "running query "+def.Name, err)
	}
	return f.Rows(rows, more)
}

func findDefinition(defs []queries.Definition, name string) (queries.Definition, bool) {
	for _, def := range defs {
		if def.Name == name {
			return def, true
		}
	}
	return queries.Definition{}, false
}

func loadExitError(err error) error {
	var le *queries.LoadError
	if errors.As(err, &le) {
		return WrapExitError(ExitCommandError, le.Code, err)
	}
	return WrapExitError(ExitCommandError, "loading queries", err)
}
