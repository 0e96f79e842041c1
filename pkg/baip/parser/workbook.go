// Package parser reads configured cells out of spreadsheet workbooks.
package parser

import (
	"fmt"

	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
	"github.com/xuri/excelize/v2"
)

// Workbook is an open spreadsheet. Sheet names are returned in the order
// they appear in the source file.
type Workbook interface {
	SheetNames() []string
	CellValue(sheetName, cell string) (models.Value, error)
	Close() error
}

// CellAccessError reports a cell reference that could not be read.
// Extraction records Null for the cell and carries on.
type CellAccessError struct {
	Sheet string
	Cell  string
	Err   error
}

func (e *CellAccessError) Error() string {
	return fmt.Sprintf("read cell %s!%s: %v", e.Sheet, e.Cell, e.Err)
}

func (e *CellAccessError) Unwrap() error {
	return e.Err
}

// ExcelWorkbook is a Workbook backed by excelize.
type ExcelWorkbook struct {
	f *excelize.File
}

// OpenWorkbook opens an xlsx/xlsm workbook.
func OpenWorkbook(path string) (*ExcelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &ExcelWorkbook{f: f}, nil
}

// NewExcelWorkbook wraps an already open excelize file.
func NewExcelWorkbook(f *excelize.File) *ExcelWorkbook {
	return &ExcelWorkbook{f: f}
}

// SheetNames returns the worksheet names in workbook order.
func (w *ExcelWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// CellValue returns the stored value of cell on sheetName. Numbers are read
// without their number format, except dates and times which keep their
// formatted text. Empty cells return models.Null with no error.
func (w *ExcelWorkbook) CellValue(sheetName, cell string) (models.Value, error) {
	if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
		return models.Null, &CellAccessError{Sheet: sheetName, Cell: cell, Err: err}
	}

	raw, err := w.f.GetCellValue(sheetName, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Null, &CellAccessError{Sheet: sheetName, Cell: cell, Err: err}
	}
	if raw == "" {
		return models.Null, nil
	}

	cellType, err := w.f.GetCellType(sheetName, cell)
	if err != nil {
		return parseValue(raw), nil
	}

	switch cellType {
	case excelize.CellTypeBool:
		return models.Value{Kind: models.KindBool, Text: raw}, nil
	case excelize.CellTypeDate:
		return models.TextValue(w.formatted(sheetName, cell, raw)), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return models.TextValue(raw), nil
	}

	// Numeric cells and cached formula results carry no type attribute or
	// the number type.
	v := parseValue(raw)
	if v.Kind == models.KindNumber && w.isDateCell(sheetName, cell) {
		return models.TextValue(w.formatted(sheetName, cell, raw)), nil
	}
	return v, nil
}

func (w *ExcelWorkbook) formatted(sheetName, cell, raw string) string {
	text, err := w.f.GetCellValue(sheetName, cell)
	if err != nil || text == "" {
		return raw
	}
	return text
}

// isDateCell reports whether the cell's number format renders a date or time.
func (w *ExcelWorkbook) isDateCell(sheetName, cell string) bool {
	styleID, err := w.f.GetCellStyle(sheetName, cell)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := w.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isDateNumFmt(style.NumFmt)
}

// isDateNumFmt reports whether a built-in number format id is a date or time
// format.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or
// time tokens outside quoted literals, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

// Close releases the underlying file.
func (w *ExcelWorkbook) Close() error {
	return w.f.Close()
}
