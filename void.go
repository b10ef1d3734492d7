package xlform

// FilterVoid removes rows where every configured zero-check column coerces to
// numeric zero. It is a pure function over (table, config): the returned table
// has the same columns, survivor rows in their original order, and the input
// table is never modified.
//
// When the filter is disabled, has no zero columns, or none of the configured
// columns exist in the table, the input table is returned unchanged. Unknown
// column names are reported as warnings but never fail the filter. A nil diag
// discards the warnings.
func FilterVoid(t Table, cfg *VoidConfig, diag *Diagnostics) Table {
	if cfg == nil || !cfg.Enabled || len(cfg.ZeroColumns) == 0 {
		return t
	}
	if diag == nil {
		diag = NewDiagnostics(nil)
	}

	var checked []Column
	for _, name := range cfg.ZeroColumns {
		col, ok := t.Column(name)
		if !ok {
			diag.Warnf("void", "zero-check column %q not found in input data", name)
			continue
		}
		checked = append(checked, col)
	}
	if len(checked) == 0 {
		diag.Warnf("void", "no zero-check columns found in input data: %v", cfg.ZeroColumns)
		return t
	}

	rows := t.RowCount()
	keep := make([]bool, rows)
	removed := 0
	for i := 0; i < rows; i++ {
		void := true
		for _, col := range checked {
			if ToNumber(col.Cells[i]) != 0 {
				void = false
				break
			}
		}
		keep[i] = !void
		if void {
			removed++
		}
	}
	if removed == 0 {
		return t
	}
	diag.Infof("void", "removing %d void rows from input data", removed)

	out := Table{Columns: make([]Column, len(t.Columns))}
	for ci, col := range t.Columns {
		cells := make([]Value, 0, rows-removed)
		for i := 0; i < rows; i++ {
			if keep[i] {
				cells = append(cells, col.Cells[i])
			}
		}
		out.Columns[ci] = Column{Name: col.Name, Cells: cells}
	}
	return out
}
