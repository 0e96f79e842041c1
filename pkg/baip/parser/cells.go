package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
)

// SkipSheet reports whether sheetName matches an entry of skip, ignoring case.
func SkipSheet(sheetName string, skip []string) bool {
	for _, name := range skip {
		if strings.EqualFold(sheetName, name) {
			return true
		}
	}
	return false
}

// ExtractCells reads every cell in cells from sheetName. Each configured cell
// is present in the returned record; unreadable or empty cells hold Null.
func ExtractCells(wb Workbook, sheetName string, cells []string, log zerolog.Logger) models.SheetRecord {
	record := make(models.SheetRecord, len(cells))
	for _, cell := range cells {
		value, err := wb.CellValue(sheetName, cell)
		if err != nil {
			var accessErr *CellAccessError
			if errors.As(err, &accessErr) {
				log.Warn().Err(err).Str("sheet", sheetName).Str("cell", cell).Msg("cell unreadable, recording empty value")
			} else {
				log.Warn().Err(err).Str("sheet", sheetName).Str("cell", cell).Msg("cell read failed")
			}
			value = models.Null
		}
		log.Debug().Str("cell", cell).Str("value", value.String()).Msg("extracted cell")
		record[cell] = value
	}
	return record
}

// ParseSheets extracts cells from every worksheet of wb not listed in skip.
// Records are keyed by models.ExtractionKey(bookName, sheet) in workbook
// sheet order.
func ParseSheets(wb Workbook, bookName string, cells, skip []string, log zerolog.Logger) *models.Results {
	results := models.NewResults()
	for _, sheetName := range wb.SheetNames() {
		if SkipSheet(sheetName, skip) {
			log.Debug().Str("sheet", sheetName).Msg("sheet set to be skipped")
			continue
		}
		log.Info().Str("sheet", sheetName).Msg("extracting from sheet")
		key := models.ExtractionKey(bookName, sheetName)
		results.Put(key, ExtractCells(wb, sheetName, cells, log))
	}
	return results
}

// parseValue classifies an untyped cell by its displayed text.
func parseValue(s string) models.Value {
	if s == "" {
		return models.Null
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.NumberValue(s)
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, "0123456789") {
		return models.NumberValue(s)
	}
	return models.TextValue(s)
}
