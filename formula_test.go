package xlform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abTable() Table {
	return Table{Columns: []Column{
		{Name: "A", Cells: []Value{1.0, 2.0}},
		{Name: "B", Cells: []Value{3.0, 4.0}},
	}}
}

func TestEvaluateFormula_Addition(t *testing.T) {
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=A + B", abTable(), nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{4, 6}, got)
	assert.False(t, diag.HasWarnings())
}

func TestEvaluateFormula_Subtraction(t *testing.T) {
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=A - B", abTable(), nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{-2, -2}, got)
}

func TestEvaluateFormula_MultiWordColumn(t *testing.T) {
	table := Table{Columns: []Column{
		{Name: "Net Pay", Cells: []Value{100.0, 250.5}},
	}}
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=Net Pay * 2", table, nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{200, 501}, got)
}

func TestEvaluateFormula_QuotedColumn(t *testing.T) {
	table := Table{Columns: []Column{
		{Name: "Net Pay", Cells: []Value{100.0}},
	}}
	diag := NewDiagnostics(nil)
	got := EvaluateFormula(`="Net Pay" / 4`, table, nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{25}, got)
}

func TestEvaluateFormula_OutputColumnReference(t *testing.T) {
	table := abTable()
	diag := NewDiagnostics(nil)
	total := EvaluateFormula("=A + B", table, nil, FuzzyMatcher{}, diag)

	outputSoFar := []Column{{Name: "Total", Cells: []Value{total[0], total[1]}}}
	doubled := EvaluateFormula("=Total * 2", table, outputSoFar, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{8, 12}, doubled)
}

func TestEvaluateFormula_StringCellsCoerce(t *testing.T) {
	table := Table{Columns: []Column{
		{Name: "Hours", Cells: []Value{"40", "n/a", nil}},
		{Name: "Rate", Cells: []Value{"10", "10", "10"}},
	}}
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=Hours * Rate", table, nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{400, 0, 0}, got)
}

func TestEvaluateFormula_UnresolvedTokenDegradesToZero(t *testing.T) {
	// Column names must not be substrings of the token, or fuzzy matching
	// would resolve it.
	table := Table{Columns: []Column{
		{Name: "Hours", Cells: []Value{3.0, 4.0}},
		{Name: "Rate", Cells: []Value{10.0, 10.0}},
	}}
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=Bonus * 2", table, nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{0, 0}, got)
	require.True(t, diag.HasWarnings())
	assert.Contains(t, diag.Warnings()[0].Message, "Bonus")
}

func TestEvaluateFormula_FuzzySubstringResolution(t *testing.T) {
	table := Table{Columns: []Column{
		{Name: "Gross Pay", Cells: []Value{500.0}},
	}}
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=Gross / 2", table, nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{250}, got)

	// The strict matcher refuses the same token.
	diag = NewDiagnostics(nil)
	got = EvaluateFormula("=Gross / 2", table, nil, StrictMatcher{}, diag)
	assert.Equal(t, []float64{0}, got)
	assert.True(t, diag.HasWarnings())
}

func TestEvaluateFormula_DivisionByZeroDegradesToZero(t *testing.T) {
	table := Table{Columns: []Column{
		{Name: "A", Cells: []Value{10.0, 10.0}},
		{Name: "B", Cells: []Value{2.0, 0.0}},
	}}
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=A / B", table, nil, FuzzyMatcher{}, diag)
	assert.Equal(t, []float64{5, 0}, got)
	assert.True(t, diag.HasWarnings())
}

func TestEvaluateFormula_ResultLengthAlwaysMatchesRows(t *testing.T) {
	diag := NewDiagnostics(nil)
	got := EvaluateFormula("=nonsense +", abTable(), nil, FuzzyMatcher{}, diag)
	assert.Len(t, got, 2)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestIsSafeExpression(t *testing.T) {
	assert.True(t, isSafeExpression("1 + 2 * (3.5 - 4) / 5"))
	assert.False(t, isSafeExpression("1 + import"))
	assert.False(t, isSafeExpression("__x__"))
	assert.False(t, isSafeExpression(`"5" * 2`))
	assert.False(t, isSafeExpression("open(1)"))
}
