// Package main provides the CLI entry point for xlform.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javajack/xlform"
	"github.com/javajack/xlform/xlio"
)

var (
	configPath   string
	outputDir    string
	sampleConfig string
	strictMatch  bool
	scanRows     int
	logLevel     string
	logFormat    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlform [input.xlsx|input.xls|directory]...",
		Short: "Reformat spreadsheets with a declarative column mapping",
		Long: `xlform reads spreadsheets, transforms them according to a JSON
column-mapping configuration (direct copies, blank columns, arithmetic
formulas, void-row filtering), and writes styled xlsx output.

A directory argument is expanded to every supported spreadsheet it contains.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Mapping configuration JSON file")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for output files")
	rootCmd.Flags().StringVar(&sampleConfig, "write-sample", "", "Write a sample configuration to the given path and exit")
	rootCmd.Flags().BoolVar(&strictMatch, "strict-match", false, "Resolve formula tokens by exact/case-insensitive match only")
	rootCmd.Flags().IntVar(&scanRows, "scan-rows", 0, "Header-location scan window for legacy .xls files (0 = default)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger(logLevel, logFormat)

	if sampleConfig != "" {
		if err := xlform.WriteSampleConfig(sampleConfig); err != nil {
			return err
		}
		logger.Info("sample configuration written", "path", sampleConfig)
		return nil
	}

	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	if len(args) == 0 {
		return fmt.Errorf("at least one input file or directory is required")
	}
	cfg, err := xlform.LoadConfig(configPath)
	if err != nil {
		return err
	}

	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}

	opts := []xlio.ProcessorOption{
		xlio.WithLogger(logger),
		xlio.WithHeaderScanRows(scanRows),
	}
	if strictMatch {
		opts = append(opts, xlio.WithColumnMatcher(xlform.StrictMatcher{}))
	}
	processor := xlio.NewProcessor(cfg, opts...)

	result := processor.ProcessBatch(inputs, outputDir)
	for _, path := range result.Succeeded {
		logger.Info("processed", "output", path)
	}
	for _, failure := range result.Failed {
		logger.Error("failed", "input", failure.Path, "error", failure.Err)
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(result.Failed), len(inputs))
	}
	return nil
}

// expandInputs resolves the argument list: directories expand to the
// supported spreadsheets they contain, sorted by name.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", arg, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if isSupported(entry.Name()) {
				found = append(found, filepath.Join(arg, entry.Name()))
			}
		}
		sort.Strings(found)
		inputs = append(inputs, found...)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no supported spreadsheet files found")
	}
	return inputs, nil
}

// isSupported reports whether the filename has a supported input extension.
func isSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range xlio.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// newLogger builds a slog logger from the level and format flags.
func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
