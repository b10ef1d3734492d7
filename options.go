package xlform

import "log/slog"

// Options holds per-invocation knobs for the mapping engine.
type Options struct {
	logger  *slog.Logger
	matcher ColumnMatcher
	diag    *Diagnostics
}

func defaultOptions() *Options {
	return &Options{matcher: FuzzyMatcher{}}
}

// Option configures a mapping invocation.
type Option func(*Options)

// WithLogger sets the structured logger warnings are mirrored to. Without it,
// warnings are only collected in the returned Diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

// WithColumnMatcher sets the strategy used to resolve formula tokens to input
// columns (default: FuzzyMatcher).
func WithColumnMatcher(m ColumnMatcher) Option {
	return func(o *Options) { o.matcher = m }
}

// WithDiagnostics reuses an existing recorder so warnings from several stages
// accumulate in one place.
func WithDiagnostics(d *Diagnostics) Option {
	return func(o *Options) { o.diag = d }
}

// build resolves the final option set into a recorder and matcher.
func buildOptions(opts []Option) (*Diagnostics, ColumnMatcher) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	diag := o.diag
	if diag == nil {
		diag = NewDiagnostics(o.logger)
	}
	return diag, o.matcher
}
