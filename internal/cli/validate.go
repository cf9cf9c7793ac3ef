package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pawrequest/gommence/internal/queries"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate [dir]",
		Short:         "Validate query definitions",
		Long:          "Load every CUE query definition in a directory and report all problems found.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}
	return cmd
}

// ValidationIssue is one problem found while loading a query directory.
type ValidationIssue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

// ValidationResult summarizes a validate run over one directory.
type ValidationResult struct {
	Dir     string            `json:"dir"`
	Queries []string          `json:"queries"`
	Issues  []ValidationIssue `json:"issues"`
}

func runValidate(rootOpts *RootOptions, dir string, cmd *cobra.Command) error {
	f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if dir == "" {
		profile, err := loadProfile(rootOpts)
		if err != nil {
			return err
		}
		dir = profile.QueriesDir
	}
	if dir == "" {
		return NewExitError(ExitCommandError, "no queries directory: pass one or set a profile default")
	}

	defs, loadErrs := queries.Load(dir, queries.LoadModeCollectAll)

	result := ValidationResult{Dir: dir, Queries: make([]string, 0, len(defs))}
	for _, def := range defs {
		result.Queries = append(result.Queries, def.Name)
	}
	for _, err := range loadErrs {
		result.Issues = append(result.Issues, toIssue(err))
	}

	if f.Format == "json" {
		if len(result.Issues) > 0 {
			if err := f.Success(result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d problem(s) in %s", len(result.Issues), dir))
		}
		return f.Success(result)
	}

	for _, q := range result.Queries {
		fmt.Fprintf(f.Writer, "ok: %s\n", q)
	}
	for _, issue := range result.Issues {
		if issue.Position != "" {
			fmt.Fprintf(f.Writer, "%s: %s (%s)\n", issue.Code, issue.Message, issue.Position)
		} else {
			fmt.Fprintf(f.Writer, "%s: %s\n", issue.Code, issue.Message)
		}
	}
	if len(result.Issues) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d problem(s) in %s", len(result.Issues), dir))
	}
	fmt.Fprintf(f.Writer, "%d query definition(s) valid\n", len(result.Queries))
	return nil
}

func toIssue(err error) ValidationIssue {
	var le *queries.LoadError
	if errors.As(err, &le) {
		issue := ValidationIssue{Code: le.Code, Message: le.Message}
		if le.Pos.IsValid() {
			issue.Position = le.Pos.String()
		}
		return issue
	}
	return ValidationIssue{Code: "Q000", Message: err.Error()}
}
