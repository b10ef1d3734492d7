package xlform

import (
	"fmt"
	"log/slog"
)

// Warning records a single recoverable problem encountered during processing.
type Warning struct {
	Component string // which stage reported it ("void", "formula", "mapping", "reader", "writer")
	Message   string
}

// String formats the warning as "component: message".
func (w Warning) String() string {
	return w.Component + ": " + w.Message
}

// Diagnostics collects warnings produced during a single processing pass and
// mirrors them to an injected structured logger. Warnings never abort
// processing; they document where a deterministic fallback value was used.
type Diagnostics struct {
	logger   *slog.Logger
	warnings []Warning
}

// NewDiagnostics creates a Diagnostics recorder. A nil logger discards log
// output; warnings are still collected.
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Diagnostics{logger: logger}
}

// Warnf records a warning and logs it at warn level.
func (d *Diagnostics) Warnf(component, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.warnings = append(d.warnings, Warning{Component: component, Message: msg})
	d.logger.Warn(msg, "component", component)
}

// Infof logs an informational message without recording a warning.
func (d *Diagnostics) Infof(component, format string, args ...any) {
	d.logger.Info(fmt.Sprintf(format, args...), "component", component)
}

// Warnings returns all recorded warnings in order.
func (d *Diagnostics) Warnings() []Warning {
	return d.warnings
}

// HasWarnings reports whether any warning was recorded.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.warnings) > 0
}
