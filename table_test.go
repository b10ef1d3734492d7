package xlform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(nil))
	assert.Equal(t, 1.5, ToNumber(1.5))
	assert.Equal(t, 3.0, ToNumber(3))
	assert.Equal(t, 1.0, ToNumber(true))
	assert.Equal(t, 0.0, ToNumber(false))
	assert.Equal(t, 42.0, ToNumber("42"))
	assert.Equal(t, -0.5, ToNumber(" -0.5 "))
	assert.Equal(t, 0.0, ToNumber("n/a"))
	assert.Equal(t, 0.0, ToNumber(""))
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "", ValueText(nil))
	assert.Equal(t, "hello", ValueText("hello"))
	assert.Equal(t, "1.5", ValueText(1.5))
	assert.Equal(t, "800", ValueText(800.0))
	assert.Equal(t, "true", ValueText(true))
}

func TestTable_ColumnLookup(t *testing.T) {
	table := Table{Columns: []Column{
		{Name: "A", Cells: []Value{1.0}},
		{Name: "B", Cells: []Value{2.0}},
	}}

	col, ok := table.Column("B")
	assert.True(t, ok)
	assert.Equal(t, []Value{2.0}, col.Cells)

	_, ok = table.Column("b")
	assert.False(t, ok, "lookup is exact")

	assert.Equal(t, 1, table.RowCount())
	assert.Equal(t, []string{"A", "B"}, table.ColumnNames())
	assert.Equal(t, 0, Table{}.RowCount())
}
