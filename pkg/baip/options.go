// Package baip extracts configured cells from spreadsheet workbooks and
// writes them as a single aliased delimited file per run.
package baip

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Options configures extraction, row assembly and output. It is read-only
// for the duration of a run.
type Options struct {
	// CellsToExtract lists the cell references read from every sheet.
	CellsToExtract []string
	// SkipSheets lists sheet names to ignore, matched case-insensitively.
	SkipSheets []string
	// CellOrder is the output column order.
	CellOrder []string
	// IgnoreIfEmpty drops a row when every listed cell is empty.
	IgnoreIfEmpty []string
	// CellFieldThresholds nulls cell values not longer than the threshold
	// before the IgnoreIfEmpty check.
	CellFieldThresholds map[string]int
	// CellMap maps a cell reference to its header aliases.
	CellMap map[string][]string
	// HeaderFieldLengths maps a header to its maximum output length.
	HeaderFieldLengths map[string]int
	// HeaderFieldThresholds blanks output values not longer than the
	// threshold.
	HeaderFieldThresholds map[string]int
	// WordBoundary truncates on the last full word.
	WordBoundary bool
	// WriteHeaders specifies whether to emit the header line.
	// If nil, defaults to true.
	WriteHeaders *bool
	// Workers is the number of workbooks extracted concurrently.
	// Values below 1 mean 1.
	Workers int
	// OutputDir is where the output file is created. Empty means the OS
	// temporary directory.
	OutputDir string
	// Logger receives progress and per-file failures. If nil, nothing is
	// logged.
	Logger *zerolog.Logger
}

// DefaultOptions returns options with freshly allocated containers.
func DefaultOptions() Options {
	return Options{
		CellsToExtract:        []string{},
		SkipSheets:            []string{},
		CellOrder:             []string{},
		IgnoreIfEmpty:         []string{},
		CellFieldThresholds:   make(map[string]int),
		CellMap:               make(map[string][]string),
		HeaderFieldLengths:    make(map[string]int),
		HeaderFieldThresholds: make(map[string]int),
		WordBoundary:          true,
		Workers:               1,
	}
}

// ShouldWriteHeaders returns whether to emit the header line.
func (o Options) ShouldWriteHeaders() bool {
	if o.WriteHeaders != nil {
		return *o.WriteHeaders
	}
	return true
}

// Concurrency returns the effective worker count.
func (o Options) Concurrency() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

// Validate checks that every ordered and ignore-if-empty cell is extracted.
func (o Options) Validate() error {
	extracted := make(map[string]struct{}, len(o.CellsToExtract))
	for _, cell := range o.CellsToExtract {
		extracted[cell] = struct{}{}
	}
	for _, cell := range o.CellOrder {
		if _, ok := extracted[cell]; !ok {
			return fmt.Errorf("%w: cell_order cell %q is not in cells_to_extract", ErrInvalidOptions, cell)
		}
	}
	for _, cell := range o.IgnoreIfEmpty {
		if _, ok := extracted[cell]; !ok {
			return fmt.Errorf("%w: ignore_if_empty cell %q is not in cells_to_extract", ErrInvalidOptions, cell)
		}
	}
	return nil
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}
