package xlio

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/xlform"
)

const (
	defaultColumnWidth = 15.0
	autoFitSampleRows  = 100
	autoFitMinWidth    = 8.0
	autoFitMaxWidth    = 50.0
	autoFitPadding     = 2.0
)

// Write writes the table as a styled xlsx workbook: header row styling from
// header_formatting, per-column alignment, width, and number format from the
// matching column rule, and freeze panes from general_settings. Styling
// problems on individual columns are reported as warnings; only workbook
// creation and saving can fail.
func Write(t xlform.Table, path string, cfg *xlform.MappingConfig, diag *xlform.Diagnostics) error {
	if diag == nil {
		diag = xlform.NewDiagnostics(nil)
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := t.RowCount()
	for j, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("header cell for column %d: %w", j+1, err)
		}
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return fmt.Errorf("write header %q: %w", col.Name, err)
		}
		for i, v := range col.Cells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("cell for row %d column %d: %w", i+2, j+1, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if len(t.Columns) > 0 {
		if err := styleHeader(f, sheet, len(t.Columns), cfg.HeaderFormatting); err != nil {
			return err
		}
	}
	for j, col := range t.Columns {
		if err := styleColumn(f, sheet, j, col, rows, cfg, diag); err != nil {
			return err
		}
	}
	if cfg.GeneralSettings != nil && cfg.GeneralSettings.FreezePanes != nil {
		if err := applyFreezePanes(f, sheet, t, cfg.GeneralSettings.FreezePanes); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save output %q: %w", path, err)
	}
	return nil
}

// styleHeader applies font, fill, and alignment to the header row.
func styleHeader(f *excelize.File, sheet string, columns int, hf *xlform.HeaderFormat) error {
	bold := true
	fontColor := "FFFFFF"
	background := "366092"
	alignment := "center"
	if hf != nil {
		if hf.Bold != nil {
			bold = *hf.Bold
		}
		if hf.FontColor != "" {
			fontColor = hf.FontColor
		}
		if hf.BackgroundColor != "" {
			background = hf.BackgroundColor
		}
		if hf.Alignment != "" {
			alignment = hf.Alignment
		}
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: bold, Color: fontColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{background}},
		Alignment: &excelize.Alignment{
			Horizontal: alignment,
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return fmt.Errorf("header range end: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, styleID); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	return nil
}

// styleColumn applies width, alignment, and number format to one data column.
func styleColumn(f *excelize.File, sheet string, idx int, col xlform.Column, rows int, cfg *xlform.MappingConfig, diag *xlform.Diagnostics) error {
	colName, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return fmt.Errorf("column name for index %d: %w", idx+1, err)
	}
	rule := ruleFor(cfg, col.Name)

	width := defaultColumnWidth
	if autoFitEnabled(cfg.GeneralSettings) {
		width = autoFitWidth(col)
	} else if rule != nil && rule.Width != nil {
		width = *rule.Width
	}
	if err := f.SetColWidth(sheet, colName, colName, width); err != nil {
		diag.Warnf("writer", "set width for column %q: %v", col.Name, err)
	}

	if rows == 0 {
		return nil
	}
	style := &excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: columnAlignment(rule), Vertical: "center"},
	}
	if rule != nil {
		if numFmt, ok := rule.Formatting["number_format"].(string); ok && numFmt != "" {
			style.CustomNumFmt = &numFmt
		}
	}
	styleID, err := f.NewStyle(style)
	if err != nil {
		return fmt.Errorf("create style for column %q: %w", col.Name, err)
	}
	first, err := excelize.CoordinatesToCellName(idx+1, 2)
	if err != nil {
		return fmt.Errorf("data range start for column %q: %w", col.Name, err)
	}
	last, err := excelize.CoordinatesToCellName(idx+1, rows+1)
	if err != nil {
		return fmt.Errorf("data range end for column %q: %w", col.Name, err)
	}
	if err := f.SetCellStyle(sheet, first, last, styleID); err != nil {
		return fmt.Errorf("apply style to column %q: %w", col.Name, err)
	}
	return nil
}

// ruleFor finds the column rule matching an output column name.
func ruleFor(cfg *xlform.MappingConfig, name string) *xlform.ColumnRule {
	for i := range cfg.OutputColumns {
		if strings.TrimSpace(cfg.OutputColumns[i].Name) == name {
			return &cfg.OutputColumns[i]
		}
	}
	return nil
}

// columnAlignment returns the rule's alignment, defaulting to left.
func columnAlignment(rule *xlform.ColumnRule) string {
	if rule != nil && rule.Alignment != "" {
		return rule.Alignment
	}
	return "left"
}

// autoFitEnabled reports whether auto-fit widths are on (the default).
func autoFitEnabled(gs *xlform.GeneralSettings) bool {
	if gs == nil || gs.AutoFitColumns == nil {
		return true
	}
	return *gs.AutoFitColumns
}

// autoFitWidth measures a column over a bounded sample of cell text. The
// header counts; the result is clamped to [8, 50] units.
func autoFitWidth(col xlform.Column) float64 {
	maxLen := len(col.Name)
	sample := len(col.Cells)
	if sample > autoFitSampleRows {
		sample = autoFitSampleRows
	}
	for i := 0; i < sample; i++ {
		if n := len(xlform.ValueText(col.Cells[i])); n > maxLen {
			maxLen = n
		}
	}
	width := float64(maxLen) + autoFitPadding
	if width < autoFitMinWidth {
		return autoFitMinWidth
	}
	if width > autoFitMaxWidth {
		return autoFitMaxWidth
	}
	return width
}

// applyFreezePanes freezes the requested panes: either a legacy cell
// reference, or the header row and/or the leading columns through the
// rightmost named frozen column.
func applyFreezePanes(f *excelize.File, sheet string, t xlform.Table, fp *xlform.FreezePanes) error {
	xSplit, ySplit := 0, 0
	if fp.Ref != "" {
		col, row, err := excelize.CellNameToCoordinates(strings.ToUpper(fp.Ref))
		if err != nil {
			return fmt.Errorf("parse freeze_panes reference %q: %w", fp.Ref, err)
		}
		xSplit, ySplit = col-1, row-1
	} else {
		if fp.FreezeHeader {
			ySplit = 1
		}
		for i, c := range t.Columns {
			for _, name := range fp.FreezeColumns {
				if c.Name == name && i+1 > xSplit {
					xSplit = i + 1
				}
			}
		}
	}
	if xSplit == 0 && ySplit == 0 {
		return nil
	}

	topLeft, err := excelize.CoordinatesToCellName(xSplit+1, ySplit+1)
	if err != nil {
		return fmt.Errorf("freeze top-left cell: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      xSplit,
		YSplit:      ySplit,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("set freeze panes: %w", err)
	}
	return nil
}
