package xlform

import (
	"fmt"
	"strings"
)

// ApplyMapping builds the output table from the input table and a validated
// mapping configuration. The void filter runs first over the input rows, so
// every output column sees the same filtered row set. Output columns are then
// computed in rule order — blank, formula, or direct copy — with each formula
// able to reference output columns computed before it. Finally column_order,
// if present, moves the listed columns to the front.
//
// Per-column and per-row problems (missing source column, unresolved token,
// unsafe expression) degrade to documented fallback values and are recorded
// in the returned Diagnostics; they never fail the mapping. An error is
// returned only for a structurally unusable configuration.
func ApplyMapping(input Table, cfg *MappingConfig, opts ...Option) (Table, *Diagnostics, error) {
	diag, matcher := buildOptions(opts)
	if cfg == nil {
		return Table{}, diag, fmt.Errorf("mapping configuration is missing")
	}

	filtered := FilterVoid(input, cfg.Void, diag)
	rows := filtered.RowCount()

	var built []Column
	for _, rule := range cfg.OutputColumns {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			continue
		}
		switch rule.Kind() {
		case RuleBlank:
			built = append(built, blankColumn(name, rows))
		case RuleFormula:
			values := EvaluateFormula(rule.SourceColumn, filtered, built, matcher, diag)
			cells := make([]Value, len(values))
			for i, v := range values {
				cells[i] = v
			}
			built = append(built, Column{Name: name, Cells: cells})
		case RuleDirect:
			built = append(built, directColumn(name, rule, filtered, diag))
		}
	}

	out := Table{Columns: orderColumns(built, cfg.ColumnOrder)}
	diag.Infof("mapping", "mapping applied: %d columns, %d rows", len(out.Columns), rows)
	return out, diag, nil
}

// blankColumn returns a column of empty strings.
func blankColumn(name string, rows int) Column {
	cells := make([]Value, rows)
	for i := range cells {
		cells[i] = ""
	}
	return Column{Name: name, Cells: cells}
}

// directColumn copies values from the named input column. A missing source
// column yields empty strings for every row and a warning.
func directColumn(name string, rule ColumnRule, input Table, diag *Diagnostics) Column {
	src, ok := input.Column(rule.SourceColumn)
	if !ok {
		diag.Warnf("mapping", "column %q not found in input data", rule.SourceColumn)
		return blankColumn(name, input.RowCount())
	}

	cells := make([]Value, len(src.Cells))
	copy(cells, src.Cells)

	if removeAsterisks(rule.Formatting) {
		for i, v := range cells {
			if v != nil {
				cells[i] = strings.ReplaceAll(ValueText(v), "*", "")
			}
		}
	}
	return Column{Name: name, Cells: cells}
}

// removeAsterisks reports whether the rule's formatting enables the
// remove_asterisks transform.
func removeAsterisks(formatting map[string]any) bool {
	v, ok := formatting["remove_asterisks"].(bool)
	return ok && v
}

// orderColumns applies column_order: listed names that exist come first in
// listed order, the rest keep their relative order.
func orderColumns(cols []Column, order []string) []Column {
	if len(order) == 0 {
		return cols
	}
	taken := make(map[string]bool)
	var ordered []Column
	for _, name := range order {
		for _, c := range cols {
			if c.Name == name && !taken[name] {
				ordered = append(ordered, c)
				taken[name] = true
				break
			}
		}
	}
	for _, c := range cols {
		if !taken[c.Name] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
