package models

import "strings"

// KeySeparator joins the workbook base name and the worksheet name.
const KeySeparator = "|"

// ExtractionKey returns the record key for a worksheet of a workbook.
func ExtractionKey(bookName, sheetName string) string {
	return bookName + KeySeparator + sheetName
}

// SplitKey splits an extraction key into its workbook and worksheet parts.
// Worksheet names may not contain "|", but file names can, so the split is
// made on the last separator.
func SplitKey(key string) (bookName, sheetName string) {
	idx := strings.LastIndex(key, KeySeparator)
	if idx < 0 {
		return "", key
	}
	return key[:idx], key[idx+1:]
}

// SheetRecord maps a cell reference to the value extracted from one worksheet.
// Every configured cell is present as a key; empty cells hold Null.
type SheetRecord map[string]Value

// Clone returns a private copy of the record.
func (r SheetRecord) Clone() SheetRecord {
	out := make(SheetRecord, len(r))
	for cell, v := range r {
		out[cell] = v
	}
	return out
}
