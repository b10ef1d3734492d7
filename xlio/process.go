package xlio

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/javajack/xlform"
)

// Processor runs the full pipeline for one file at a time: read, map, write.
// It is stateless across files; a single Processor can process any number of
// files with the same configuration.
type Processor struct {
	cfg            *xlform.MappingConfig
	logger         *slog.Logger
	matcher        xlform.ColumnMatcher
	headerScanRows int
	now            func() time.Time
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the structured logger for all pipeline stages.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = logger }
}

// WithColumnMatcher sets the formula token matching strategy (default:
// xlform.FuzzyMatcher).
func WithColumnMatcher(m xlform.ColumnMatcher) ProcessorOption {
	return func(p *Processor) { p.matcher = m }
}

// WithHeaderScanRows bounds the header-location scan for legacy input files.
func WithHeaderScanRows(n int) ProcessorOption {
	return func(p *Processor) { p.headerScanRows = n }
}

// NewProcessor creates a Processor for the given mapping configuration.
func NewProcessor(cfg *xlform.MappingConfig, opts ...ProcessorOption) *Processor {
	p := &Processor{
		cfg:     cfg,
		matcher: xlform.FuzzyMatcher{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile reads the input spreadsheet, applies the mapping, and writes a
// styled output file into outputDir. The output filename is the input stem
// plus a "_formatted_" timestamp suffix. The returned Diagnostics carries
// every warning from all stages; an error is fatal for this file only.
func (p *Processor) ProcessFile(inputPath, outputDir string) (string, *xlform.Diagnostics, error) {
	diag := xlform.NewDiagnostics(p.logger)
	if err := xlform.ValidateConfig(p.cfg); err != nil {
		return "", diag, err
	}

	reader := &Reader{HeaderScanRows: p.headerScanRows, Diag: diag}
	input, err := reader.Read(inputPath)
	if err != nil {
		return "", diag, err
	}
	diag.Infof("process", "read %d rows, %d columns from %s",
		input.RowCount(), len(input.Columns), filepath.Base(inputPath))

	output, _, err := xlform.ApplyMapping(input, p.cfg,
		xlform.WithDiagnostics(diag),
		xlform.WithColumnMatcher(p.matcher),
	)
	if err != nil {
		return "", diag, err
	}

	outputPath := filepath.Join(outputDir, outputFileName(inputPath, p.now()))
	if err := Write(output, outputPath, p.cfg, diag); err != nil {
		return "", diag, err
	}
	diag.Infof("process", "file processed successfully: %s", filepath.Base(outputPath))
	return outputPath, diag, nil
}

// outputFileName derives the deterministic output name from the input stem
// and a timestamp.
func outputFileName(inputPath string, ts time.Time) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_formatted_%s.xlsx", stem, ts.Format("20060102_150405"))
}

// BatchFailure records one file that could not be processed.
type BatchFailure struct {
	Path string
	Err  error
}

// BatchResult is the outcome of a batch run: which files succeeded (by output
// path) and which failed, in input order.
type BatchResult struct {
	Succeeded []string
	Failed    []BatchFailure
}

// ProcessBatch processes each file in order. One file's failure never
// prevents the remaining files from being attempted.
func (p *Processor) ProcessBatch(paths []string, outputDir string) BatchResult {
	var result BatchResult
	for _, path := range paths {
		outputPath, _, err := p.ProcessFile(path, outputDir)
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{Path: path, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, outputPath)
	}
	return result
}
