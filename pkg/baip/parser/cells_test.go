package parser

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook with the given sheets, each holding cells.
func writeWorkbook(t *testing.T, name string, sheets []string, cells map[string]map[string]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheetName := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheetName); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			t.Fatalf("Failed to add sheet %q: %v", sheetName, err)
		}
		for cell, value := range cells[sheetName] {
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				t.Fatalf("Failed to set %s!%s: %v", sheetName, cell, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func crdPathwayWorkbook(t *testing.T) string {
	t.Helper()
	sheets := []string{"AAA-000-001", "CLM-121-001", "ControlSheet", "Instructions", "WorkbookLog"}
	cells := map[string]map[string]interface{}{
		"AAA-000-001": {"B1": "AAA-000-001"},
		"CLM-121-001": {"B1": "CLM-121-001"},
		"WorkbookLog": {"B1": "Date"},
	}
	return writeWorkbook(t, "BA-CLM-CLM-121-CRDPathway-v04.xlsx", sheets, cells)
}

func TestSkipSheet(t *testing.T) {
	tests := []struct {
		name     string
		skip     []string
		expected bool
	}{
		{"CLM-122-006", nil, false},
		{"CLM-122-006", []string{}, false},
		{"CLM-122-006", []string{"CLM-122-006", "apple"}, true},
		{"controlsheet", []string{"ControlSheet"}, true},
		{"CONTROLSHEET", []string{"controlSheet"}, true},
		{"ControlSheet2", []string{"ControlSheet"}, false},
	}

	for _, tt := range tests {
		result := SkipSheet(tt.name, tt.skip)
		if result != tt.expected {
			t.Errorf("SkipSheet(%q, %v) = %v, expected %v", tt.name, tt.skip, result, tt.expected)
		}
	}
}

func TestParseSheetsAllSheets(t *testing.T) {
	wb, err := OpenWorkbook(crdPathwayWorkbook(t))
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	results := ParseSheets(wb, "BA-CLM-CLM-121-CRDPathway-v04.xlsx", []string{"B1"}, nil, zerolog.Nop())

	if results.Len() != 5 {
		t.Fatalf("Expected 5 records, got %d", results.Len())
	}

	rec, ok := results.Get("BA-CLM-CLM-121-CRDPathway-v04.xlsx|ControlSheet")
	if !ok {
		t.Fatalf("Expected ControlSheet record")
	}
	if v, ok := rec["B1"]; !ok || !v.IsNull() {
		t.Errorf("Expected ControlSheet B1 present and null, got %v (present: %v)", v, ok)
	}

	rec, _ = results.Get("BA-CLM-CLM-121-CRDPathway-v04.xlsx|WorkbookLog")
	if rec["B1"] != models.TextValue("Date") {
		t.Errorf("Expected 'Date', got %v", rec["B1"])
	}
}

func TestParseSheetsSkipSheets(t *testing.T) {
	wb, err := OpenWorkbook(crdPathwayWorkbook(t))
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	skip := []string{"ControlSheet", "Instructions", "WorkbookLog"}
	results := ParseSheets(wb, "BA-CLM-CLM-121-CRDPathway-v04.xlsx", []string{"B1"}, skip, zerolog.Nop())

	expectedKeys := []string{
		"BA-CLM-CLM-121-CRDPathway-v04.xlsx|AAA-000-001",
		"BA-CLM-CLM-121-CRDPathway-v04.xlsx|CLM-121-001",
	}
	keys := results.Keys()
	if len(keys) != len(expectedKeys) {
		t.Fatalf("Expected keys %v, got %v", expectedKeys, keys)
	}
	for i, key := range expectedKeys {
		if keys[i] != key {
			t.Errorf("Key %d: expected %q, got %q", i, key, keys[i])
		}
		rec, _ := results.Get(key)
		_, sheet := models.SplitKey(key)
		if rec["B1"] != models.TextValue(sheet) {
			t.Errorf("Expected B1 %q, got %v", sheet, rec["B1"])
		}
	}
}

func TestExtractCells(t *testing.T) {
	path := writeWorkbook(t, "values.xlsx", []string{"Sheet1"}, map[string]map[string]interface{}{
		"Sheet1": {
			"A1": "Header1",
			"A2": 100,
			"B2": 200.5,
			"C2": true,
		},
	})

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	cells := []string{"A1", "A2", "B2", "C2", "Z99", "1B"}
	rec := ExtractCells(wb, "Sheet1", cells, zerolog.Nop())

	if len(rec) != len(cells) {
		t.Fatalf("Expected %d cells, got %d", len(cells), len(rec))
	}
	if rec["A1"] != models.TextValue("Header1") {
		t.Errorf("Expected text 'Header1', got %v", rec["A1"])
	}
	if rec["A2"] != models.NumberValue("100") {
		t.Errorf("Expected number 100, got %v (kind: %s)", rec["A2"], rec["A2"].Kind)
	}
	if rec["B2"] != models.NumberValue("200.5") {
		t.Errorf("Expected number 200.5, got %v", rec["B2"])
	}
	if rec["C2"].Kind != models.KindBool {
		t.Errorf("Expected bool, got %s", rec["C2"].Kind)
	}
	// Out of range and malformed references read as empty.
	if !rec["Z99"].IsNull() {
		t.Errorf("Expected Z99 null, got %v", rec["Z99"])
	}
	if !rec["1B"].IsNull() {
		t.Errorf("Expected 1B null, got %v", rec["1B"])
	}
}

func TestCellValueMalformedReference(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	wb := NewExcelWorkbook(f)
	_, err := wb.CellValue("Sheet1", "not-a-cell")
	if err == nil {
		t.Fatal("Expected error for malformed reference")
	}
	if _, ok := err.(*CellAccessError); !ok {
		t.Errorf("Expected *CellAccessError, got %T", err)
	}
}

func TestCellValueIgnoresNumberFormat(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	dateFmt := "yyyy-mm-dd"
	styles := map[string]*excelize.Style{
		"A1": {NumFmt: 10},
		"A2": {NumFmt: 3},
		"A3": {CustomNumFmt: &dateFmt},
		"A4": {NumFmt: 14},
	}
	values := map[string]interface{}{
		"A1": 0.125,
		"A2": 1234567.891,
		"A3": 45356,
		"A4": 45356,
	}
	for cell, style := range styles {
		id, err := f.NewStyle(style)
		if err != nil {
			t.Fatalf("Failed to create style: %v", err)
		}
		if err := f.SetCellValue("Sheet1", cell, values[cell]); err != nil {
			t.Fatalf("Failed to set %s: %v", cell, err)
		}
		if err := f.SetCellStyle("Sheet1", cell, cell, id); err != nil {
			t.Fatalf("Failed to style %s: %v", cell, err)
		}
	}

	rec := ExtractCells(NewExcelWorkbook(f), "Sheet1", []string{"A1", "A2", "A3", "A4"}, zerolog.Nop())

	if rec["A1"] != models.NumberValue("0.125") {
		t.Errorf("Expected stored percentage 0.125, got %v", rec["A1"])
	}
	if rec["A2"] != models.NumberValue("1234567.891") {
		t.Errorf("Expected stored number 1234567.891, got %v", rec["A2"])
	}
	if rec["A3"] != models.TextValue("2024-03-05") {
		t.Errorf("Expected formatted date, got %v", rec["A3"])
	}
	if rec["A4"].Kind != models.KindText || rec["A4"].Text == "45356" {
		t.Errorf("Expected built-in date format to be kept, got %v", rec["A4"])
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"yyyy-mm-dd", true},
		{"h:mm AM/PM", true},
		{"[$-409]d-mmm", true},
		{"0.00%", false},
		{"#,##0", false},
		{"General", false},
		{`0 "days"`, false},
		{`#,##0[Red]`, false},
		{`0\h`, false},
	}

	for _, tt := range tests {
		if got := isDateFormatCode(tt.code); got != tt.expected {
			t.Errorf("isDateFormatCode(%q) = %v, expected %v", tt.code, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Value
	}{
		{"123", models.NumberValue("123")},
		{"123.45", models.NumberValue("123.45")},
		{"-100", models.NumberValue("-100")},
		{"hello", models.TextValue("hello")},
		{"NaN", models.TextValue("NaN")},
		{"", models.Null},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (kind: %s), expected %v (kind: %s)",
				tt.input, result, result.Kind, tt.expected, tt.expected.Kind)
		}
	}
}
