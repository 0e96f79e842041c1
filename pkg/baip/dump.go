package baip

import (
	"os"

	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
	"github.com/ukaji3/baip-parser-go/pkg/baip/rows"
	"github.com/ukaji3/baip-parser-go/pkg/baip/writer"
)

// OutputSuffix is the extension of generated output files.
const OutputSuffix = ".csv"

// DumpResult describes one run's output.
type DumpResult struct {
	// Path is the output file location.
	Path string
	// Headers are the aliased column headers.
	Headers []string
	// Rows are the assembled rows before write-time truncation.
	Rows []models.OutputRow
	// Written is false for dry runs.
	Written bool
}

// NewWriter returns the delimited writer configured by opts.
func NewWriter(opts Options) *writer.Writer {
	w := writer.New(opts.CellOrder)
	w.Aliases = opts.CellMap
	w.FieldLengths = opts.HeaderFieldLengths
	w.FieldThresholds = opts.HeaderFieldThresholds
	w.WordBoundary = opts.WordBoundary
	w.WriteHeaders = opts.ShouldWriteHeaders()
	w.Log = opts.logger()
	return w
}

// Dump assembles rows from results and writes them to a new temporary file
// with a ".csv" suffix in opts.OutputDir. With dry set the path is chosen but
// nothing is written.
func Dump(results *models.Results, opts Options, dry bool) (*DumpResult, error) {
	log := opts.logger()

	assembled, err := rows.Assemble(results, rows.Options{
		CellOrder:           opts.CellOrder,
		IgnoreIfEmpty:       opts.IgnoreIfEmpty,
		CellFieldThresholds: opts.CellFieldThresholds,
	}, log)
	if err != nil {
		return nil, err
	}

	w := NewWriter(opts)
	res := &DumpResult{
		Headers: w.Headers(),
		Rows:    assembled,
	}

	f, err := os.CreateTemp(opts.OutputDir, "baip-*"+OutputSuffix)
	if err != nil {
		return nil, &WriteError{Path: opts.OutputDir, Err: err}
	}
	res.Path = f.Name()
	_ = f.Close()

	if dry {
		_ = os.Remove(res.Path)
		log.Info().Str("path", res.Path).Int("rows", len(assembled)).Msg("skipping dump in dry mode")
		return res, nil
	}

	if err := w.Write(res.Path, assembled); err != nil {
		return nil, &WriteError{Path: res.Path, Err: err}
	}
	res.Written = true
	log.Info().Str("path", res.Path).Int("rows", len(assembled)).Msg("output written")
	return res, nil
}

// Process extracts paths and dumps the merged records. Per-file open
// failures are returned alongside a successful result.
func Process(paths []string, opts Options, dry bool) (*DumpResult, []error, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	results, fileErrs := Collect(paths, opts)
	res, err := Dump(results, opts, dry)
	return res, fileErrs, err
}
