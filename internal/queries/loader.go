package queries

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/pawrequest/gommence/internal/filters"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Definition is one saved query: a category plus the filter array to
// apply to a cursor over it.
type Definition struct {
	Name     string
	Category string
	Filters  *filters.Array
	Limit    int
}

// LoadError is an error that occurred while loading definitions.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants, shared by CLI commands when reporting.
const (
	ErrCodeGeneric    = "Q001" // Generic/unknown error
	ErrCodeNotFound   = "Q002" // Path not found
	ErrCodeNoFiles    = "Q003" // No CUE files found
	ErrCodeLoadFailed = "Q004" // CUE load/build failed
	ErrCodeBadQuery   = "Q005" // Query definition invalid
)

// Load reads every .cue file in dir and returns the query definitions
// found, sorted by name. In LoadModeFailFast the first error stops the
// load; in LoadModeCollectAll every definition error is gathered.
func Load(dir string, mode LoadMode) ([]Definition, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: "queries directory not found: " + dir}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("accessing queries directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: "not a directory: " + dir}}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found in " + dir}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	queriesVal := value.LookupPath(cue.ParsePath("query"))
	if !queriesVal.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeBadQuery, Message: "no query definitions found"}}
	}
	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating queries: %v", err)}}
	}

	var defs []Definition
	var errs []error
	for iter.Next() {
		def, err := compileDefinition(iter.Label(), iter.Value())
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return defs, errs
			}
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, errs
}

// compileDefinition builds one Definition from its CUE value.
func compileDefinition(name string, v cue.Value) (Definition, error) {
	category, err := stringField(v, "category")
	if err != nil {
		return Definition{}, badQuery(name, v, err)
	}
	if category == "" {
		return Definition{}, badQuery(name, v, fmt.Errorf("category required"))
	}

	array, err := filters.NewArray()
	if err != nil {
		return Definition{}, badQuery(name, v, err)
	}
	filtersVal := v.LookupPath(cue.ParsePath("filters"))
	if filtersVal.Exists() {
		list, err := filtersVal.List()
		if err != nil {
			return Definition{}, badQuery(name, filtersVal, fmt.Errorf("filters must be a list: %w", err))
		}
		for list.Next() {
			filter, err := compileFilter(list.Value())
			if err != nil {
				return Definition{}, badQuery(name, list.Value(), err)
			}
			if err := array.Add(filter); err != nil {
				return Definition{}, badQuery(name, list.Value(), err)
			}
		}
	}

	logicVal := v.LookupPath(cue.ParsePath("logic"))
	if logicVal.Exists() {
		list, err := logicVal.List()
		if err != nil {
			return Definition{}, badQuery(name, logicVal, fmt.Errorf("logic must be a list: %w", err))
		}
		for list.Next() {
			s, err := list.Value().String()
			if err != nil {
				return Definition{}, badQuery(name, list.Value(), fmt.Errorf("conjunction must be a string: %w", err))
			}
			array.Logic = append(array.Logic, filters.Conjunction(s))
		}
	}

	sortVal := v.LookupPath(cue.ParsePath("sort"))
	if sortVal.Exists() {
		list, err := sortVal.List()
		if err != nil {
			return Definition{}, badQuery(name, sortVal, fmt.Errorf("sort must be a list: %w", err))
		}
		for list.Next() {
			column, err := stringField(list.Value(), "column")
			if err != nil || column == "" {
				return Definition{}, badQuery(name, list.Value(), fmt.Errorf("sort entry needs a column"))
			}
			descending, _ := boolField(list.Value(), "descending")
			array.Sorts = append(array.Sorts, filters.Sort{Column: column, Descending: descending})
		}
	}

	limit := 0
	limitVal := v.LookupPath(cue.ParsePath("limit"))
	if limitVal.Exists() {
		n, err := limitVal.Int64()
		if err != nil || n < 0 {
			return Definition{}, badQuery(name, limitVal, fmt.Errorf("limit must be a non-negative integer"))
		}
		limit = int(n)
	}

	// Render once so malformed filters fail at load, not at apply.
	if _, err := array.Clauses(); err != nil {
		return Definition{}, badQuery(name, v, err)
	}
	if _, err := array.LogicClause(); err != nil {
		return Definition{}, badQuery(name, v, err)
	}

	return Definition{Name: name, Category: category, Filters: array, Limit: limit}, nil
}

// compileFilter builds one filter from its CUE struct.
func compileFilter(v cue.Value) (filters.Filter, error) {
	kind, err := stringField(v, "kind")
	if err != nil {
		return nil, err
	}
	if kind == "" {
		kind = string(filters.KindField)
	}
	not, _ := boolField(v, "not")
	condition := filters.EqualTo
	if s, err := stringField(v, "condition"); err == nil && s != "" {
		condition = filters.Condition(s)
	}

	get := func(field string) string {
		s, _ := stringField(v, field)
		return s
	}

	switch filters.Kind(kind) {
	case filters.KindField:
		return filters.Field{
			Column:    get("column"),
			Condition: condition,
			Value:     get("value"),
			Value2:    get("value2"),
			Not:       not,
		}, nil
	case filters.KindConnectedItem:
		return filters.ConnectedItem{
			Connection: get("connection"),
			Category:   get("category"),
			Item:       get("item"),
			Not:        not,
		}, nil
	case filters.KindConnectedField:
		return filters.ConnectedField{
			Connection: get("connection"),
			Category:   get("category"),
			Column:     get("column"),
			Condition:  condition,
			Value:      get("value"),
			Value2:     get("value2"),
			Not:        not,
		}, nil
	case filters.KindConnectedItemField:
		return filters.ConnectedItemField{
			Connection:  get("connection"),
			Category:    get("category"),
			Connection2: get("connection2"),
			Category2:   get("category2"),
			Item:        get("item"),
			Not:         not,
		}, nil
	default:
		return nil, fmt.Errorf("unknown filter kind %q", kind)
	}
}

func stringField(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", fmt.Errorf("%s must be a string: %w", field, err)
	}
	return s, nil
}

func boolField(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	return fv.Bool()
}

func badQuery(name string, v cue.Value, err error) *LoadError {
	return &LoadError{
		Code:    ErrCodeBadQuery,
		Message: fmt.Sprintf("query %s: %v", name, err),
		Pos:     v.Pos(),
	}
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
