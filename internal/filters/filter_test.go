package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldClause_Basic(t *testing.T) {
	f := Field{Column: "Account", Condition: EqualTo, Value: "Bob"}

	clause, err := f.Clause(1)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(1,F,,Account,Equal To,"Bob")]`, clause)
}

func TestFieldClause_Not(t *testing.T) {
	f := Field{Column: "Status", Condition: Contains, Value: "closed", Not: true}

	clause, err := f.Clause(3)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(3,F,Not,Status,Contains,"closed")]`, clause)
}

func TestFieldClause_Between(t *testing.T) {
	f := Field{Column: "Date", Condition: Between, Value: "20240101", Value2: "20241231"}

	clause, err := f.Clause(2)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(2,F,,Date,Is Between,"20240101","20241231")]`, clause)
}

func TestFieldClause_BetweenRequiresBothBounds(t *testing.T) {
	f := Field{Column: "Date", Condition: Between, Value: "20240101"}

	_, err := f.Clause(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both bounds")
}

func TestFieldClause_ValuelessConditions(t *testing.T) {
	testCases := []struct {
		name string
		cond Condition
		want string
	}{
		{name: "blank", cond: Blank, want: `[ViewFilter(1,F,,Email,Blank)]`},
		{name: "not blank", cond: NotBlank, want: `[ViewFilter(1,F,,Email,Not Blank)]`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clause, err := Field{Column: "Email", Condition: tc.cond}.Clause(1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, clause)
		})
	}
}

func TestFieldClause_ValuelessRejectsValue(t *testing.T) {
	f := Field{Column: "Email", Condition: Blank, Value: "x"}

	_, err := f.Clause(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes no value")
}

func TestFieldClause_EmptyValueOmitsArgument(t *testing.T) {
	f := Field{Column: "Notes", Condition: EqualTo}

	clause, err := f.Clause(1)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(1,F,,Notes,Equal To)]`, clause)
}

func TestFieldClause_SecondValueOnlyWithBetween(t *testing.T) {
	f := Field{Column: "Date", Condition: After, Value: "20240101", Value2: "20241231"}

	_, err := f.Clause(1)
	require.Error(t, err)
}

func TestFieldClause_UnknownCondition(t *testing.T) {
	f := Field{Column: "Name", Condition: Condition("Sounds Like"), Value: "Bob"}

	_, err := f.Clause(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown condition")
}

func TestFieldClause_ColumnRequired(t *testing.T) {
	_, err := Field{Condition: EqualTo, Value: "Bob"}.Clause(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column required")
}

func TestFieldClause_SlotRange(t *testing.T) {
	f := Field{Column: "Name", Condition: EqualTo, Value: "Bob"}

	for _, slot := range []int{0, 9, -1} {
		_, err := f.Clause(slot)
		require.Error(t, err, "slot %d", slot)
		assert.Contains(t, err.Error(), "out of range")
	}
	for slot := 1; slot <= MaxSlots; slot++ {
		_, err := f.Clause(slot)
		require.NoError(t, err, "slot %d", slot)
	}
}

func TestFieldClause_QuotesDoubled(t *testing.T) {
	f := Field{Column: "Name", Condition: EqualTo, Value: `the "big" one`}

	clause, err := f.Clause(1)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(1,F,,Name,Equal To,"the ""big"" one")]`, clause)
}

func TestFieldClause_ValueNormalized(t *testing.T) {
	// Decomposed e + combining acute must render as the composed form.
	f := Field{Column: "Name", Condition: EqualTo, Value: "Re\u0301ne\u0301"}

	clause, err := f.Clause(1)
	require.NoError(t, err)
	assert.Equal(t, "[ViewFilter(1,F,,Name,Equal To,\"R\u00e9n\u00e9\")]", clause)
}

func TestConnectedItemClause(t *testing.T) {
	f := ConnectedItem{Connection: "Relates To", Category: "Account", Item: "Acme"}

	clause, err := f.Clause(1)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(1,CTI,,Relates To,Account,"Acme")]`, clause)
}

func TestConnectedItemClause_Not(t *testing.T) {
	f := ConnectedItem{Connection: "Relates To", Category: "Account", Item: "Acme", Not: true}

	clause, err := f.Clause(4)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(4,CTI,Not,Relates To,Account,"Acme")]`, clause)
}

func TestConnectedItemClause_Required(t *testing.T) {
	_, err := ConnectedItem{Category: "Account", Item: "Acme"}.Clause(1)
	require.Error(t, err)

	_, err = ConnectedItem{Connection: "Relates To", Category: "Account"}.Clause(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item required")
}

func TestConnectedFieldClause(t *testing.T) {
	f := ConnectedField{
		Connection: "Relates To",
		Category:   "Account",
		Column:     "City",
		Condition:  EqualTo,
		Value:      "London",
	}

	clause, err := f.Clause(2)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(2,CTCF,,Relates To,Account,City,Equal To,"London")]`, clause)
}

func TestConnectedFieldClause_ValidatesCondition(t *testing.T) {
	f := ConnectedField{
		Connection: "Relates To",
		Category:   "Account",
		Column:     "City",
		Condition:  Between,
		Value:      "A",
	}

	_, err := f.Clause(1)
	require.Error(t, err)
}

func TestConnectedItemFieldClause(t *testing.T) {
	f := ConnectedItemField{
		Connection:  "Relates To",
		Category:    "Account",
		Connection2: "Managed By",
		Category2:   "Employee",
		Item:        "Smith",
	}

	clause, err := f.Clause(1)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(1,CTCTI,,Relates To,Account,Managed By,Employee,"Smith")]`, clause)
}

func TestConnectedItemFieldClause_BothHopsRequired(t *testing.T) {
	f := ConnectedItemField{Connection: "Relates To", Category: "Account", Item: "Smith"}

	_, err := f.Clause(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both connection hops")
}

func TestClearSlot(t *testing.T) {
	clause, err := ClearSlot(5)
	require.NoError(t, err)
	assert.Equal(t, `[ViewFilter(5,Clear)]`, clause)

	_, err = ClearSlot(0)
	require.Error(t, err)
}

func TestConditionValid(t *testing.T) {
	for _, c := range Conditions {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Condition("Nearly").Valid())
}

func TestConditionValueless(t *testing.T) {
	assert.True(t, Blank.Valueless())
	assert.True(t, NotBlank.Valueless())
	assert.False(t, EqualTo.Valueless())
	assert.False(t, Between.Valueless())
}
