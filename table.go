// Package xlform transforms tabular spreadsheet data from an arbitrary input
// layout into a fixed output layout, driven by a declarative column-mapping
// configuration. The heart of the package is the mapping engine: direct column
// copies, blank columns, void-row filtering, and a restricted arithmetic
// formula evaluator that can reference input columns or previously computed
// output columns.
package xlform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a single cell value: string, float64, int, bool, time.Time, or nil
// for a missing cell.
type Value = any

// Column is a named, ordered sequence of cell values.
type Column struct {
	Name  string
	Cells []Value
}

// Table is an ordered sequence of named columns. All columns share the same
// row count. Column order is significant for output tables; input lookups are
// by name.
type Table struct {
	Columns []Column
}

// RowCount returns the number of rows in the table (the length of the first
// column, zero for an empty table).
func (t Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Column returns the column with the given name, matched exactly.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in table order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ToNumber coerces a cell value to a number. Missing cells and values that do
// not parse as a number coerce to 0.
func ToNumber(v Value) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ValueText renders a cell value as text. Missing cells render as "".
func ValueText(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", x)
	}
}
