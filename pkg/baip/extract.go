package baip

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
	"github.com/ukaji3/baip-parser-go/pkg/baip/parser"
)

// Extract reads the configured cells from every non-skipped sheet of the
// workbook at path. A workbook that cannot be opened yields an *OpenError.
func Extract(path string, opts Options) (*models.Results, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, &OpenError{Path: path, Err: ErrFileNotFound}
	}

	wb, err := parser.OpenWorkbook(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidFormat, err)}
	}
	defer wb.Close()

	return ExtractWorkbook(wb, filepath.Base(path), opts), nil
}

// ExtractWorkbook reads the configured cells from an already open workbook.
func ExtractWorkbook(wb parser.Workbook, bookName string, opts Options) *models.Results {
	log := opts.logger().With().Str("workbook", bookName).Logger()
	return parser.ParseSheets(wb, bookName, opts.CellsToExtract, opts.SkipSheets, log)
}

// Collect extracts every path and merges the records in path order, so a
// later file wins when two files produce the same key. Files that fail to
// open are logged, reported in the returned error slice and skipped.
func Collect(paths []string, opts Options) (*models.Results, []error) {
	log := opts.logger()

	perFile := make([]*models.Results, len(paths))
	fileErrs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(opts.Concurrency())
	for i, path := range paths {
		g.Go(func() error {
			log.Info().Str("file", path).Msg("processing file")
			res, err := Extract(path, opts)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("skipping file")
				fileErrs[i] = err
				return nil
			}
			perFile[i] = res
			return nil
		})
	}
	_ = g.Wait()

	merged := models.NewResults()
	var errs []error
	for i := range paths {
		if fileErrs[i] != nil {
			errs = append(errs, fileErrs[i])
			continue
		}
		merged.Merge(perFile[i])
	}
	return merged, errs
}
