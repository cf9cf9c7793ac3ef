package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pawrequest/gommence/internal/cmc"
	"github.com/pawrequest/gommence/internal/records"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	var category, id string

	cmd := &cobra.Command{
		Use:           "get [pk]",
		Short:         "Show one record by primary key or row ID",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			h, _, err := openHandler(rootOpts, category)
			if err != nil {
				return err
			}
			r, err := ref(args, id)
			if err != nil {
				return WrapExitError(ExitCommandError, "bad row reference", err)
			}
			row, err := h.Read(r, records.ReadOpts{})
			if err != nil {
				return crudError("reading record", err)
			}
			return f.Rows([]map[string]string{row}, 0)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVar(&id, "id", "", "row ID instead of primary key")
	return cmd
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var category, onExisting string
	var set []string

	cmd := &cobra.Command{
		Use:           "add <pk>",
		Short:         "Add a record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			h, _, err := openHandler(rootOpts, category)
			if err != nil {
				return err
			}
			fields, err := parseSet(set)
			if err != nil {
				return WrapExitError(ExitCommandError, "parsing fields", err)
			}
			mode, err := parseOnExisting(onExisting)
			if err != nil {
				return WrapExitError(ExitCommandError, "bad --on-existing", err)
			}
			if err := h.Add(args[0], fields, mode); err != nil {
				return crudError("adding record", err)
			}
			return f.Success(fmt.Sprintf("added %q to %s", args[0], h.Category()))
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "field assignment Field=Value (repeatable)")
	cmd.Flags().StringVar(&onExisting, "on-existing", "fail", "existing-pk behavior (fail|update|replace)")
	return cmd
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var category, id string
	var set []string

	cmd := &cobra.Command{
		Use:           "edit [pk]",
		Short:         "Edit fields of a record",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			h, _, err := openHandler(rootOpts, category)
			if err != nil {
				return err
			}
			r, err := ref(args, id)
			if err != nil {
				return WrapExitError(ExitCommandError, "bad row reference", err)
			}
			fields, err := parseSet(set)
			if err != nil {
				return WrapExitError(ExitCommandError, "parsing fields", err)
			}
			if len(fields) == 0 {
				return NewExitError(ExitCommandError, "nothing to edit: give at least one --set")
			}
			if err := h.Update(r, fields); err != nil {
				return crudError("editing record", err)
			}
			return f.Success(fmt.Sprintf("updated %d field(s) in %s", len(fields), h.Category()))
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVar(&id, "id", "", "row ID instead of primary key")
	cmd.Flags().StringArrayVarP(&set, "set", "s", nil, "field assignment Field=Value (repeatable)")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var category, id string
	var ignoreMissing bool

	cmd := &cobra.Command{
		Use:           "delete [pk]",
		Short:         "Delete a record",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			h, _, err := openHandler(rootOpts, category)
			if err != nil {
				return err
			}
			r, err := ref(args, id)
			if err != nil {
				return WrapExitError(ExitCommandError, "bad row reference", err)
			}
			if ignoreMissing {
				err = h.DeleteIgnoreMissing(r)
			} else {
				err = h.Delete(r)
			}
			if err != nil {
				return crudError("deleting record", err)
			}
			return f.Success("deleted from " + h.Category())
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVar(&id, "id", "", "row ID instead of primary key")
	cmd.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "succeed when the record does not exist")
	return cmd
}

func parseOnExisting(mode string) (records.OnExisting, error) {
	switch mode {
	case "fail", "":
		return records.FailExisting, nil
	case "update":
		return records.UpdateExisting, nil
	case "replace":
		return records.ReplaceExisting, nil
	default:
		return 0, fmt.Errorf("unknown mode %q, want fail, update, or replace", mode)
	}
}

// crudError maps domain errors onto exit codes, keeping the error
// code visible in the message.
func crudError(op string, err error) error {
	var ce *cmc.Error
	if errors.As(err, &ce) {
		return WrapExitError(ExitFailure, op+" ["+string(ce.Code)+"]", err)
	}
	return WrapExitError(ExitFailure, op, err)
}
