package filters

import (
	"fmt"
	"sort"
	"strings"
)

// MaxSlots is the vendor's fixed limit on concurrent filter slots per
// cursor.
const MaxSlots = 8

// Conjunction joins adjacent filter slots when rendered as
// [ViewConjunction(...)].
type Conjunction string

const (
	And Conjunction = "And"
	Or  Conjunction = "Or"
)

// Sort is one column of a cursor sort order.
type Sort struct {
	Column     string
	Descending bool
}

// Array is an ordered set of filters occupying the cursor's eight
// slots, with optional conjunction logic and sort order. The zero
// value is an empty array ready for Set or Add.
type Array struct {
	slots map[int]Filter
	Logic []Conjunction
	Sorts []Sort
}

// NewArray assigns the given filters to slots 1..n in order, mirroring
// the vendor's slot numbering. Fails when more than MaxSlots filters
// are given.
func NewArray(fs ...Filter) (*Array, error) {
	if len(fs) > MaxSlots {
		return nil, fmt.Errorf("%d filters exceed the %d-slot limit", len(fs), MaxSlots)
	}
	a := &Array{slots: make(map[int]Filter, len(fs))}
	for i, f := range fs {
		a.slots[i+1] = f
	}
	return a, nil
}

// Set places a filter in an explicit slot, replacing any existing one.
func (a *Array) Set(slot int, f Filter) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if a.slots == nil {
		a.slots = make(map[int]Filter)
	}
	a.slots[slot] = f
	return nil
}

// Add places a filter in the lowest free slot.
func (a *Array) Add(f Filter) error {
	if a.slots == nil {
		a.slots = make(map[int]Filter)
	}
	for slot := 1; slot <= MaxSlots; slot++ {
		if _, taken := a.slots[slot]; !taken {
			a.slots[slot] = f
			return nil
		}
	}
	return fmt.Errorf("all %d filter slots in use", MaxSlots)
}

// Remove clears a slot. Removing an empty slot is not an error.
func (a *Array) Remove(slot int) {
	delete(a.slots, slot)
}

// Len returns the number of occupied slots.
func (a *Array) Len() int { return len(a.slots) }

// Slots returns the occupied slot numbers in ascending order.
func (a *Array) Slots() []int {
	slots := make([]int, 0, len(a.slots))
	for slot := range a.slots {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}

// Filter returns the filter in a slot, if any.
func (a *Array) Filter(slot int) (Filter, bool) {
	f, ok := a.slots[slot]
	return f, ok
}

// Clauses renders every occupied slot in ascending slot order.
func (a *Array) Clauses() ([]string, error) {
	clauses := make([]string, 0, len(a.slots))
	for _, slot := range a.Slots() {
		clause, err := a.slots[slot].Clause(slot)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// LogicClause renders the conjunction logic, or "" when no logic is
// set. The vendor expects one conjunction per adjacent slot pair.
func (a *Array) LogicClause() (string, error) {
	if len(a.Logic) == 0 {
		return "", nil
	}
	if len(a.slots) > 1 && len(a.Logic) != len(a.slots)-1 {
		return "", fmt.Errorf("%d conjunctions for %d filters, want %d", len(a.Logic), len(a.slots), len(a.slots)-1)
	}
	parts := make([]string, len(a.Logic))
	for i, c := range a.Logic {
		if c != And && c != Or {
			return "", fmt.Errorf("unknown conjunction %q", string(c))
		}
		parts[i] = string(c)
	}
	return fmt.Sprintf("[ViewConjunction(%s)]", strings.Join(parts, ",")), nil
}

// SortClause renders the sort order, or "" when no sort is set.
func (a *Array) SortClause() (string, error) {
	if len(a.Sorts) == 0 {
		return "", nil
	}
	parts := make([]string, len(a.Sorts))
	for i, s := range a.Sorts {
		if s.Column == "" {
			return "", fmt.Errorf("sort %d: column required", i+1)
		}
		direction := "Ascending"
		if s.Descending {
			direction = "Descending"
		}
		parts[i] = s.Column + " " + direction
	}
	return fmt.Sprintf("[ViewSort(%s)]", strings.Join(parts, ",")), nil
}

// Clone returns an independent copy. Filters themselves are value
// types and are shared.
func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	clone := &Array{
		slots: make(map[int]Filter, len(a.slots)),
		Logic: append([]Conjunction(nil), a.Logic...),
		Sorts: append([]Sort(nil), a.Sorts...),
	}
	for slot, f := range a.slots {
		clone.slots[slot] = f
	}
	return clone
}

// String joins the rendered clauses for logging. Render errors are
// inlined rather than returned; String is diagnostic only.
func (a *Array) String() string {
	clauses, err := a.Clauses()
	if err != nil {
		return fmt.Sprintf("<invalid filter array: %v>", err)
	}
	return strings.Join(clauses, ", ")
}
