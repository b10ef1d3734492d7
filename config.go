package xlform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MappingConfig is the declarative transformation plan: which output columns
// to build, how to order them, the styling intent for the output file, and
// the void-row filter. The core never mutates a config during processing.
type MappingConfig struct {
	OutputColumns    []ColumnRule     `json:"output_columns"`
	ColumnOrder      []string         `json:"column_order,omitempty"`
	HeaderFormatting *HeaderFormat    `json:"header_formatting,omitempty"`
	GeneralSettings  *GeneralSettings `json:"general_settings,omitempty"`
	Void             *VoidConfig      `json:"void,omitempty"`
}

// ColumnRule describes one output column. SourceColumn has three mutually
// exclusive interpretations:
//
//   - "" — blank column, empty for every row
//   - "=..." — formula over column-name tokens
//   - anything else — direct copy from the input column of that exact name
//
// Formatting is a pass-through styling map; the core interprets only
// "remove_asterisks" (mapper) and "number_format" (writer).
type ColumnRule struct {
	Name         string         `json:"name"`
	SourceColumn string         `json:"source_column,omitempty"`
	Alignment    string         `json:"alignment,omitempty"`
	Width        *float64       `json:"width,omitempty"`
	Formatting   map[string]any `json:"formatting,omitempty"`
}

// RuleKind classifies a rule's source-column interpretation.
type RuleKind int

const (
	RuleBlank RuleKind = iota
	RuleFormula
	RuleDirect
)

// Kind returns the rule's source-column interpretation.
func (r ColumnRule) Kind() RuleKind {
	switch {
	case r.SourceColumn == "":
		return RuleBlank
	case strings.HasPrefix(r.SourceColumn, FormulaPrefix):
		return RuleFormula
	default:
		return RuleDirect
	}
}

// HeaderFormat is the styling intent for the output header row, consumed by
// the writer. Colors are 6 hex digits without a "#" prefix.
type HeaderFormat struct {
	Bold            *bool  `json:"bold,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	FontColor       string `json:"font_color,omitempty"`
	Alignment       string `json:"alignment,omitempty"`
}

// GeneralSettings holds worksheet-level styling intent, consumed by the
// writer.
type GeneralSettings struct {
	AutoFitColumns *bool        `json:"auto_fit_columns,omitempty"`
	FreezePanes    *FreezePanes `json:"freeze_panes,omitempty"`
}

// FreezePanes requests a pane freeze. It persists in either of two JSON
// shapes: a legacy cell-reference string ("A2"), or a structured object with
// freeze_header and freeze_columns.
type FreezePanes struct {
	Ref           string   // legacy cell reference; takes precedence when set
	FreezeHeader  bool     // freeze the header row
	FreezeColumns []string // freeze through the rightmost named column
}

// freezePanesJSON is the structured on-disk shape.
type freezePanesJSON struct {
	FreezeHeader  *bool    `json:"freeze_header,omitempty"`
	FreezeColumns []string `json:"freeze_columns,omitempty"`
}

// UnmarshalJSON accepts both the legacy string and the structured object.
func (fp *FreezePanes) UnmarshalJSON(data []byte) error {
	var ref string
	if err := json.Unmarshal(data, &ref); err == nil {
		*fp = FreezePanes{Ref: ref}
		return nil
	}
	var obj freezePanesJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("freeze_panes must be a cell reference string or an object: %w", err)
	}
	*fp = FreezePanes{FreezeColumns: obj.FreezeColumns}
	if obj.FreezeHeader != nil {
		fp.FreezeHeader = *obj.FreezeHeader
	}
	return nil
}

// MarshalJSON writes the legacy string when Ref is set, the structured object
// otherwise, so configs round-trip in their original shape.
func (fp FreezePanes) MarshalJSON() ([]byte, error) {
	if fp.Ref != "" {
		return json.Marshal(fp.Ref)
	}
	obj := freezePanesJSON{FreezeColumns: fp.FreezeColumns}
	if fp.FreezeHeader {
		v := true
		obj.FreezeHeader = &v
	}
	return json.Marshal(obj)
}

// VoidConfig configures the void-row filter.
type VoidConfig struct {
	Enabled     bool     `json:"enabled"`
	ZeroColumns []string `json:"zero_columns"`
}

// LoadConfig reads a mapping configuration from a JSON file and validates it
// before returning.
func LoadConfig(path string) (*MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg MappingConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig validates a mapping configuration and writes it as
// pretty-printed UTF-8 JSON, creating parent directories as needed.
func SaveConfig(cfg *MappingConfig, path string) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// DefaultConfig returns the built-in starting configuration: one blank
// column, a bold blue header, auto-fit widths, and the void filter off.
func DefaultConfig() *MappingConfig {
	bold := true
	autoFit := true
	width := 15.0
	return &MappingConfig{
		OutputColumns: []ColumnRule{
			{Name: "Column 1", SourceColumn: "", Alignment: "left", Width: &width},
		},
		HeaderFormatting: &HeaderFormat{
			Bold:            &bold,
			BackgroundColor: "366092",
			FontColor:       "FFFFFF",
			Alignment:       "center",
		},
		GeneralSettings: &GeneralSettings{AutoFitColumns: &autoFit},
		Void:            &VoidConfig{Enabled: false, ZeroColumns: []string{}},
	}
}

// WriteSampleConfig writes an annotated-by-example configuration a user can
// start from.
func WriteSampleConfig(path string) error {
	bold := true
	autoFit := true
	nameWidth, amountWidth, dateWidth := 20.0, 12.0, 12.0
	sample := &MappingConfig{
		OutputColumns: []ColumnRule{
			{Name: "Employee Name", SourceColumn: "Name", Alignment: "left", Width: &nameWidth},
			{
				Name: "Amount", SourceColumn: "Net Pay", Alignment: "right", Width: &amountWidth,
				Formatting: map[string]any{"number_format": "#,##0.00"},
			},
			{
				Name: "Date", SourceColumn: "Pay Date", Alignment: "center", Width: &dateWidth,
				Formatting: map[string]any{"date_format": "MM/DD/YYYY"},
			},
		},
		HeaderFormatting: &HeaderFormat{
			Bold:            &bold,
			BackgroundColor: "366092",
			FontColor:       "FFFFFF",
			Alignment:       "center",
		},
		GeneralSettings: &GeneralSettings{AutoFitColumns: &autoFit},
		Void:            &VoidConfig{Enabled: false, ZeroColumns: []string{}},
	}
	return SaveConfig(sample, path)
}
