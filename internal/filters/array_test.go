package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArray_AssignsSlotsInOrder(t *testing.T) {
	a, err := NewArray(
		Field{Column: "Name", Condition: EqualTo, Value: "Bob"},
		Field{Column: "City", Condition: Contains, Value: "on"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []int{1, 2}, a.Slots())
}

func TestNewArray_SlotLimit(t *testing.T) {
	fs := make([]Filter, MaxSlots+1)
	for i := range fs {
		fs[i] = Field{Column: "Name", Condition: NotBlank}
	}

	_, err := NewArray(fs...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot limit")
}

func TestArraySetAndRemove(t *testing.T) {
	a, err := NewArray()
	require.NoError(t, err)

	require.NoError(t, a.Set(3, Field{Column: "Name", Condition: NotBlank}))
	assert.Equal(t, []int{3}, a.Slots())

	f, ok := a.Filter(3)
	require.True(t, ok)
	assert.Equal(t, KindField, f.Kind())

	a.Remove(3)
	assert.Equal(t, 0, a.Len())
	a.Remove(3) // removing an empty slot is fine
}

func TestArraySet_RejectsBadSlot(t *testing.T) {
	a, err := NewArray()
	require.NoError(t, err)

	require.Error(t, a.Set(0, Field{Column: "Name", Condition: NotBlank}))
	require.Error(t, a.Set(9, Field{Column: "Name", Condition: NotBlank}))
}

func TestArrayZeroValue(t *testing.T) {
	var a Array

	require.NoError(t, a.Set(2, Field{Column: "City", Condition: EqualTo, Value: "London"}))
	require.NoError(t, a.Add(Field{Column: "Email", Condition: NotBlank}))
	assert.Equal(t, []int{1, 2}, a.Slots())
}

func TestArrayAdd_FillsLowestFreeSlot(t *testing.T) {
	a, err := NewArray(
		Field{Column: "A", Condition: NotBlank},
		Field{Column: "B", Condition: NotBlank},
	)
	require.NoError(t, err)
	a.Remove(1)

	require.NoError(t, a.Add(Field{Column: "C", Condition: NotBlank}))
	assert.Equal(t, []int{1, 2}, a.Slots())
}

func TestArrayAdd_AllSlotsFull(t *testing.T) {
	a, err := NewArray()
	require.NoError(t, err)
	for i := 0; i < MaxSlots; i++ {
		require.NoError(t, a.Add(Field{Column: "X", Condition: NotBlank}))
	}

	err = a.Add(Field{Column: "Y", Condition: NotBlank})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in use")
}

func TestArrayClauses(t *testing.T) {
	a, err := NewArray(
		Field{Column: "Name", Condition: EqualTo, Value: "Bob"},
		Field{Column: "Email", Condition: NotBlank},
	)
	require.NoError(t, err)

	clauses, err := a.Clauses()
	require.NoError(t, err)
	assert.Equal(t, []string{
		`[ViewFilter(1,F,,Name,Equal To,"Bob")]`,
		`[ViewFilter(2,F,,Email,Not Blank)]`,
	}, clauses)
}

func TestArrayClauses_PropagatesRenderError(t *testing.T) {
	a, err := NewArray(Field{Condition: EqualTo, Value: "Bob"})
	require.NoError(t, err)

	_, err = a.Clauses()
	require.Error(t, err)
}

func TestArrayLogicClause(t *testing.T) {
	a, err := NewArray(
		Field{Column: "A", Condition: NotBlank},
		Field{Column: "B", Condition: NotBlank},
		Field{Column: "C", Condition: NotBlank},
	)
	require.NoError(t, err)
	a.Logic = []Conjunction{And, Or}

	clause, err := a.LogicClause()
	require.NoError(t, err)
	assert.Equal(t, `[ViewConjunction(And,Or)]`, clause)
}

func TestArrayLogicClause_Empty(t *testing.T) {
	a, err := NewArray(Field{Column: "A", Condition: NotBlank})
	require.NoError(t, err)

	clause, err := a.LogicClause()
	require.NoError(t, err)
	assert.Empty(t, clause)
}

func TestArrayLogicClause_CountMismatch(t *testing.T) {
	a, err := NewArray(
		Field{Column: "A", Condition: NotBlank},
		Field{Column: "B", Condition: NotBlank},
	)
	require.NoError(t, err)
	a.Logic = []Conjunction{And, Or}

	_, err = a.LogicClause()
	require.Error(t, err)
}

func TestArrayLogicClause_UnknownConjunction(t *testing.T) {
	a, err := NewArray(
		Field{Column: "A", Condition: NotBlank},
		Field{Column: "B", Condition: NotBlank},
	)
	require.NoError(t, err)
	a.Logic = []Conjunction{"Xor"}

	_, err = a.LogicClause()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown conjunction")
}

func TestArraySortClause(t *testing.T) {
	a, err := NewArray()
	require.NoError(t, err)
	a.Sorts = []Sort{
		{Column: "Name"},
		{Column: "Date", Descending: true},
	}

	clause, err := a.SortClause()
	require.NoError(t, err)
	assert.Equal(t, `[ViewSort(Name Ascending,Date Descending)]`, clause)
}

func TestArraySortClause_Empty(t *testing.T) {
	a, err := NewArray()
	require.NoError(t, err)

	clause, err := a.SortClause()
	require.NoError(t, err)
	assert.Empty(t, clause)
}

func TestArraySortClause_ColumnRequired(t *testing.T) {
	a, err := NewArray()
	require.NoError(t, err)
	a.Sorts = []Sort{{}}

	_, err = a.SortClause()
	require.Error(t, err)
}

func TestArrayClone_Independent(t *testing.T) {
	a, err := NewArray(Field{Column: "A", Condition: NotBlank})
	require.NoError(t, err)
	a.Logic = []Conjunction{And}
	a.Sorts = []Sort{{Column: "A"}}

	clone := a.Clone()
	require.NoError(t, clone.Set(2, Field{Column: "B", Condition: NotBlank}))
	clone.Logic = append(clone.Logic, Or)
	clone.Sorts[0].Column = "B"

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, []Conjunction{And}, a.Logic)
	assert.Equal(t, "A", a.Sorts[0].Column)
}

func TestArrayClone_Nil(t *testing.T) {
	var a *Array
	assert.Nil(t, a.Clone())
}

func TestArrayString(t *testing.T) {
	a, err := NewArray(
		Field{Column: "Name", Condition: EqualTo, Value: "Bob"},
		Field{Column: "Email", Condition: NotBlank},
	)
	require.NoError(t, err)

	assert.Equal(t, `[ViewFilter(1,F,,Name,Equal To,"Bob")], [ViewFilter(2,F,,Email,Not Blank)]`, a.String())
}
