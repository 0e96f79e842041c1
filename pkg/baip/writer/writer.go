// Package writer serialises output rows to a delimited text file.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
)

// Writer writes rows under a header line. Columns are the raw header names,
// positionally aligned to the row values.
type Writer struct {
	// Columns are the raw header names.
	Columns []string
	// Aliases maps a raw header to its display names, consumed in order per
	// occurrence of the header in Columns.
	Aliases map[string][]string
	// FieldLengths maps a header to its maximum value length.
	FieldLengths map[string]int
	// FieldThresholds maps a header to a minimum length; values not longer
	// than it are written as "".
	FieldThresholds map[string]int
	// WordBoundary drops the trailing partial word of truncated values.
	WordBoundary bool
	// WriteHeaders emits the header line.
	WriteHeaders bool
	// Comma is the field delimiter. Defaults to ','.
	Comma rune

	Log zerolog.Logger
}

// New returns a Writer for columns with header output enabled.
func New(columns []string) *Writer {
	return &Writer{
		Columns:         append([]string(nil), columns...),
		Aliases:         make(map[string][]string),
		FieldLengths:    make(map[string]int),
		FieldThresholds: make(map[string]int),
		WriteHeaders:    true,
		Comma:           ',',
		Log:             zerolog.Nop(),
	}
}

// Headers returns the display headers with aliases substituted.
func (w *Writer) Headers() []string {
	return HeaderAliases(w.Columns, w.Aliases, w.Log)
}

// HeaderAliases substitutes each header with the next unused alias from its
// alias list. The first occurrence of a header takes the first alias, the
// second occurrence the second, and so on. Headers without aliases, or whose
// aliases are used up, are kept as is. aliases is not modified.
func HeaderAliases(headers []string, aliases map[string][]string, log zerolog.Logger) []string {
	used := make(map[string]int)
	out := make([]string, 0, len(headers))
	for _, header := range headers {
		key := header
		list, ok := aliases[key]
		if !ok {
			key = strings.ToUpper(header)
			list, ok = aliases[key]
		}
		if !ok || used[key] >= len(list) {
			log.Debug().Str("header", header).Msg("header has no alias")
			out = append(out, header)
			continue
		}
		alias := list[used[key]]
		used[key]++
		log.Debug().Str("header", header).Str("alias", alias).Msg("header alias substituted")
		out = append(out, alias)
	}
	return out
}

// Truncate cuts s to max runes when it is longer. With wordBoundary the
// text after the last space of the cut value is dropped as well.
func Truncate(s string, max int, wordBoundary bool) string {
	r := []rune(s)
	if max < 0 || len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if wordBoundary {
		if idx := strings.LastIndex(cut, " "); idx >= 0 {
			cut = cut[:idx]
		}
	}
	return cut
}

// lookup finds the setting for column i by display header, then raw header.
func (w *Writer) lookup(m map[string]int, headers []string, i int) (int, bool) {
	if i < len(headers) {
		if v, ok := m[headers[i]]; ok {
			return v, true
		}
	}
	if i < len(w.Columns) {
		if v, ok := m[w.Columns[i]]; ok {
			return v, true
		}
	}
	return 0, false
}

// TruncateRow applies FieldLengths to row.
func (w *Writer) TruncateRow(row []string, headers []string) []string {
	out := make([]string, len(row))
	for i, value := range row {
		if max, ok := w.lookup(w.FieldLengths, headers, i); ok {
			truncated := Truncate(value, max, w.WordBoundary)
			if truncated != value {
				w.Log.Debug().Int("column", i).Int("max", max).Str("value", truncated).Msg("value truncated")
			}
			value = truncated
		}
		out[i] = value
	}
	return out
}

// ThresholdRow blanks values whose length does not exceed the FieldThresholds
// entry of their header.
func (w *Writer) ThresholdRow(row []string, headers []string) []string {
	out := make([]string, len(row))
	for i, value := range row {
		if threshold, ok := w.lookup(w.FieldThresholds, headers, i); ok {
			if len([]rune(value)) <= threshold {
				value = ""
			}
		}
		out[i] = value
	}
	return out
}

// WriteTo serialises rows to out.
func (w *Writer) WriteTo(out io.Writer, rows []models.OutputRow) error {
	headers := w.Headers()

	cw := csv.NewWriter(out)
	if w.Comma != 0 {
		cw.Comma = w.Comma
	}
	cw.UseCRLF = runtime.GOOS == "windows"

	if w.WriteHeaders {
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for _, row := range rows {
		record := w.ThresholdRow(w.TruncateRow(row.Strings(), headers), headers)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Write serialises rows to the file at path, replacing any existing content.
func (w *Writer) Write(path string, rows []models.OutputRow) error {
	w.Log.Debug().Str("path", path).Int("rows", len(rows)).Msg("preparing output")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if err := w.WriteTo(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
