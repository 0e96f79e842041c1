// Package rows turns extracted sheet records into ordered output rows.
package rows

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
	"github.com/ukaji3/baip-parser-go/pkg/baip/textnorm"
)

// ErrMissingCell indicates a record without a key for an ordered cell.
var ErrMissingCell = errors.New("cell missing from record")

// Options controls row assembly.
type Options struct {
	// CellOrder is the output column order.
	CellOrder []string
	// IgnoreIfEmpty lists the cells of which at least one must hold a value
	// for the row to be kept. Empty disables suppression.
	IgnoreIfEmpty []string
	// CellFieldThresholds nulls values whose length does not exceed the
	// threshold, before the suppression check.
	CellFieldThresholds map[string]int
}

// LengthCheck returns a copy of rec with every thresholded value of length
// less than or equal to its threshold replaced by Null. rec is not modified.
func LengthCheck(rec models.SheetRecord, thresholds map[string]int) models.SheetRecord {
	out := rec.Clone()
	for cell, threshold := range thresholds {
		v, ok := out[cell]
		if !ok || v.IsNull() {
			continue
		}
		if v.Len() <= threshold {
			out[cell] = models.Null
		}
	}
	return out
}

// SkipRow reports whether rec should be dropped: true when ignoreIfEmpty is
// non-empty and every listed cell is Null.
func SkipRow(rec models.SheetRecord, ignoreIfEmpty []string) bool {
	if len(ignoreIfEmpty) == 0 {
		return false
	}
	for _, cell := range ignoreIfEmpty {
		if v, ok := rec[cell]; ok && !v.IsNull() {
			return false
		}
	}
	return true
}

// Assemble builds output rows from results in their iteration order. Text
// values are normalised with textnorm.Normalize.
func Assemble(results *models.Results, opts Options, log zerolog.Logger) ([]models.OutputRow, error) {
	var out []models.OutputRow

	for _, key := range results.Keys() {
		rec, _ := results.Get(key)
		reduced := LengthCheck(rec, opts.CellFieldThresholds)
		if SkipRow(reduced, opts.IgnoreIfEmpty) {
			book, sheet := models.SplitKey(key)
			log.Debug().Str("workbook", book).Str("sheet", sheet).Msg("row skipped, all ignore_if_empty cells empty")
			continue
		}

		row := make(models.OutputRow, 0, len(opts.CellOrder))
		for _, cell := range opts.CellOrder {
			v, ok := reduced[cell]
			if !ok {
				return nil, fmt.Errorf("%w: %s in %s", ErrMissingCell, cell, key)
			}
			row = append(row, textnorm.NormalizeValue(v))
		}
		out = append(out, row)
	}
	return out, nil
}
