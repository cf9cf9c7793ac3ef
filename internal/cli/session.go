package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pawrequest/gommence/internal/cmc"
	"github.com/pawrequest/gommence/internal/filters"
	"github.com/pawrequest/gommence/internal/profiles"
	"github.com/pawrequest/gommence/internal/records"
)

// loadProfile resolves the active connection profile. A missing
// profiles file is only an error when a profile was explicitly named;
// otherwise the zero profile (standard ProgID, no defaults) is used.
func loadProfile(opts *RootOptions) (profiles.Profile, error) {
	file, err := profiles.Load(opts.ProfilesPath)
	if err != nil {
		if os.IsNotExist(underlying(err)) && opts.Profile == "" {
			return profiles.Profile{}, nil
		}
		return profiles.Profile{}, WrapExitError(ExitCommandError, "loading profiles", err)
	}
	p, err := file.Select(opts.Profile)
	if err != nil {
		return profiles.Profile{}, WrapExitError(ExitCommandError, "selecting profile", err)
	}
	return p, nil
}

func underlying(err error) error {
	for {
		unwrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		next := unwrapped.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}

// openHandler connects per the profile and wraps a category cursor.
// The category flag overrides the profile default.
func openHandler(opts *RootOptions, categoryFlag string) (*records.Handler, profiles.Profile, error) {
	profile, err := loadProfile(opts)
	if err != nil {
		return nil, profiles.Profile{}, err
	}
	category := categoryFlag
	if category == "" {
		category = profile.Category
	}
	if category == "" {
		return nil, profile, NewExitError(ExitCommandError, "no category: set --category or a profile default")
	}
	db, err := opts.Dialer(profile.ProgID)
	if err != nil {
		return nil, profile, WrapExitError(ExitCommandError, "connecting", err)
	}
	cursor, err := db.Cursor(category, cmc.CursorCategory)
	if err != nil {
		return nil, profile, WrapExitError(ExitFailure, "opening cursor", err)
	}
	h, err := records.New(cursor)
	if err != nil {
		return nil, profile, WrapExitError(ExitFailure, "wrapping cursor", err)
	}
	return h, profile, nil
}

// parseSet parses repeated Field=Value flags into a field map.
func parseSet(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("bad field assignment %q, want Field=Value", pair)
		}
		fields[field] = value
	}
	return fields, nil
}

// parseWhere turns repeated Field=Value flags into an equality filter
// array, and Field~Value into a contains filter.
func parseWhere(pairs []string) (*filters.Array, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	array, err := filters.NewArray()
	if err != nil {
		return nil, err
	}
	for _, pair := range pairs {
		condition := filters.EqualTo
		sep := "="
		if !strings.Contains(pair, "=") && strings.Contains(pair, "~") {
			condition = filters.Contains
			sep = "~"
		}
		field, value, ok := strings.Cut(pair, sep)
		if !ok || field == "" {
			return nil, fmt.Errorf("bad filter %q, want Field=Value or Field~Value", pair)
		}
		err := array.Add(filters.Field{Column: field, Condition: condition, Value: value})
		if err != nil {
			return nil, err
		}
	}
	return array, nil
}

// ref builds a row Ref from the positional pk and the --id flag.
func ref(args []string, id string) (records.Ref, error) {
	switch {
	case id != "" && len(args) > 0:
		return records.Ref{}, fmt.Errorf("give a primary key or --id, not both")
	case id != "":
		return records.ByID(id), nil
	case len(args) > 0:
		return records.ByPK(args[0]), nil
	default:
		return records.Ref{}, fmt.Errorf("give a primary key or --id")
	}
}
