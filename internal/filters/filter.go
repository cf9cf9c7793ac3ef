package filters

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Filter is a single ViewFilter clause. Clause renders the vendor
// syntax for the given slot; implementations validate their own fields
// and return an error rather than render a malformed string.
type Filter interface {
	Kind() Kind
	Clause(slot int) (string, error)
}

// Connection names a relationship between two Commence categories, as
// used by the connection filter kinds and by SetRelatedColumn. Column
// is only meaningful where a connected field is addressed.
type Connection struct {
	Name     string
	Category string
	Column   string
}

// Field filters rows on one column of the cursor's own category.
//
// Value2 is the upper bound and is only valid with the Between
// qualifier. An empty Value is rendered without a value argument,
// matching the vendor's "qualifier only" form.
type Field struct {
	Column    string
	Condition Condition
	Value     string
	Value2    string
	Not       bool
}

func (f Field) Kind() Kind { return KindField }

func (f Field) Clause(slot int) (string, error) {
	if f.Column == "" {
		return "", fmt.Errorf("field filter: column required")
	}
	values, err := conditionValues(f.Condition, f.Value, f.Value2)
	if err != nil {
		return "", fmt.Errorf("field filter %q: %w", f.Column, err)
	}
	return renderClause(slot, KindField, f.Not, append([]string{f.Column, string(f.Condition)}, values...))
}

// ConnectedItem filters rows on being connected, via the named
// connection, to the item with the given name in the target category.
type ConnectedItem struct {
	Connection string
	Category   string
	Item       string
	Not        bool
}

func (f ConnectedItem) Kind() Kind { return KindConnectedItem }

func (f ConnectedItem) Clause(slot int) (string, error) {
	if f.Connection == "" || f.Category == "" {
		return "", fmt.Errorf("connected item filter: connection and category required")
	}
	if f.Item == "" {
		return "", fmt.Errorf("connected item filter %s %s: item required", f.Connection, f.Category)
	}
	return renderClause(slot, KindConnectedItem, f.Not, []string{f.Connection, f.Category, quote(f.Item)})
}

// ConnectedField filters rows on a field of the item they are
// connected to.
type ConnectedField struct {
	Connection string
	Category   string
	Column     string
	Condition  Condition
	Value      string
	Value2     string
	Not        bool
}

func (f ConnectedField) Kind() Kind { return KindConnectedField }

func (f ConnectedField) Clause(slot int) (string, error) {
	if f.Connection == "" || f.Category == "" || f.Column == "" {
		return "", fmt.Errorf("connected field filter: connection, category and column required")
	}
	values, err := conditionValues(f.Condition, f.Value, f.Value2)
	if err != nil {
		return "", fmt.Errorf("connected field filter %q: %w", f.Column, err)
	}
	args := append([]string{f.Connection, f.Category, f.Column, string(f.Condition)}, values...)
	return renderClause(slot, KindConnectedField, f.Not, args)
}

// ConnectedItemField filters through a two-hop connection chain: rows
// whose connected item is itself connected to the named item.
type ConnectedItemField struct {
	Connection  string
	Category    string
	Connection2 string
	Category2   string
	Item        string
	Not         bool
}

func (f ConnectedItemField) Kind() Kind { return KindConnectedItemField }

func (f ConnectedItemField) Clause(slot int) (string, error) {
	if f.Connection == "" || f.Category == "" || f.Connection2 == "" || f.Category2 == "" {
		return "", fmt.Errorf("connected item field filter: both connection hops required")
	}
	if f.Item == "" {
		return "", fmt.Errorf("connected item field filter %s %s: item required", f.Connection, f.Connection2)
	}
	args := []string{f.Connection, f.Category, f.Connection2, f.Category2, quote(f.Item)}
	return renderClause(slot, KindConnectedItemField, f.Not, args)
}

// ClearSlot renders the vendor's clear form for one slot.
func ClearSlot(slot int) (string, error) {
	if err := checkSlot(slot); err != nil {
		return "", err
	}
	return fmt.Sprintf("[ViewFilter(%d,Clear)]", slot), nil
}

// conditionValues validates the qualifier/value pairing and returns the
// quoted value arguments for the clause.
func conditionValues(cond Condition, value, value2 string) ([]string, error) {
	if !cond.Valid() {
		return nil, fmt.Errorf("unknown condition %q", string(cond))
	}
	switch {
	case cond.Valueless():
		if value != "" || value2 != "" {
			return nil, fmt.Errorf("condition %q takes no value", string(cond))
		}
		return nil, nil
	case cond == Between:
		if value == "" || value2 == "" {
			return nil, fmt.Errorf("condition %q requires both bounds", string(cond))
		}
		return []string{quote(value), quote(value2)}, nil
	default:
		if value2 != "" {
			return nil, fmt.Errorf("second value only valid with %q", string(Between))
		}
		if value == "" {
			return nil, nil
		}
		return []string{quote(value)}, nil
	}
}

// renderClause assembles the final bracketed string. The slot is
// validated here so every filter kind shares the 1..8 check.
func renderClause(slot int, kind Kind, not bool, args []string) (string, error) {
	if err := checkSlot(slot); err != nil {
		return "", err
	}
	notFlag := ""
	if not {
		notFlag = "Not"
	}
	return fmt.Sprintf("[ViewFilter(%d,%s,%s,%s)]", slot, kind, notFlag, strings.Join(args, ",")), nil
}

func checkSlot(slot int) error {
	if slot < 1 || slot > MaxSlots {
		return fmt.Errorf("filter slot %d out of range 1..%d", slot, MaxSlots)
	}
	return nil
}

// quote double-quotes a value argument, NFC-normalizing it and doubling
// embedded quotes the way the vendor parser expects.
func quote(value string) string {
	v := norm.NFC.String(value)
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
