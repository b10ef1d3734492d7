package xlform

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError describes exactly which configuration field is invalid and
// why.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// validAlignments are the accepted horizontal alignment values.
var validAlignments = map[string]struct{}{"left": {}, "center": {}, "right": {}}

// hexColorPattern matches a 6-hex-digit color without a "#" prefix.
var hexColorPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// cellRefPattern matches a legacy freeze-panes cell reference like "A2".
var cellRefPattern = regexp.MustCompile(`^[A-Za-z]+[0-9]+$`)

// ValidateConfig checks the structural shape of a mapping configuration
// before it is used. It fails fast: the first violation found is returned,
// naming the offending field.
func ValidateConfig(cfg *MappingConfig) error {
	if cfg == nil {
		return invalidf("config", "configuration is missing")
	}
	if len(cfg.OutputColumns) == 0 {
		return invalidf("output_columns", "must contain at least one column")
	}
	seen := make(map[string]int)
	for i, rule := range cfg.OutputColumns {
		if err := validateRule(i, rule); err != nil {
			return err
		}
		name := strings.TrimSpace(rule.Name)
		if prev, dup := seen[name]; dup {
			return invalidf(fmt.Sprintf("output_columns[%d].name", i),
				"duplicate column name %q (already used by output_columns[%d])", name, prev)
		}
		seen[name] = i
	}
	if cfg.HeaderFormatting != nil {
		if err := validateHeaderFormat(cfg.HeaderFormatting); err != nil {
			return err
		}
	}
	if cfg.GeneralSettings != nil {
		if err := validateGeneralSettings(cfg.GeneralSettings); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(i int, rule ColumnRule) error {
	field := func(name string) string { return fmt.Sprintf("output_columns[%d].%s", i, name) }

	if strings.TrimSpace(rule.Name) == "" {
		return invalidf(field("name"), "must be a non-empty string")
	}
	if rule.Alignment != "" {
		if _, ok := validAlignments[rule.Alignment]; !ok {
			return invalidf(field("alignment"), "must be one of left, center, right; got %q", rule.Alignment)
		}
	}
	if rule.Width != nil && *rule.Width <= 0 {
		return invalidf(field("width"), "must be a positive number; got %v", *rule.Width)
	}
	return nil
}

func validateHeaderFormat(hf *HeaderFormat) error {
	if hf.BackgroundColor != "" && !hexColorPattern.MatchString(hf.BackgroundColor) {
		return invalidf("header_formatting.background_color",
			"must be 6 hex digits without a # prefix; got %q", hf.BackgroundColor)
	}
	if hf.FontColor != "" && !hexColorPattern.MatchString(hf.FontColor) {
		return invalidf("header_formatting.font_color",
			"must be 6 hex digits without a # prefix; got %q", hf.FontColor)
	}
	if hf.Alignment != "" {
		if _, ok := validAlignments[hf.Alignment]; !ok {
			return invalidf("header_formatting.alignment",
				"must be one of left, center, right; got %q", hf.Alignment)
		}
	}
	return nil
}

func validateGeneralSettings(gs *GeneralSettings) error {
	fp := gs.FreezePanes
	if fp == nil {
		return nil
	}
	if fp.Ref != "" && !cellRefPattern.MatchString(fp.Ref) {
		return invalidf("general_settings.freeze_panes",
			"must be a valid cell reference such as A2; got %q", fp.Ref)
	}
	return nil
}
