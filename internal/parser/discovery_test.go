package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadTable_CSVComma(t *testing.T) {
	t.Parallel()

	input := "Bokun ID,Product Name,Net Adult\n912345,City Walking Tour,65.00\n"
	rows, err := ReadTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows want=2 got=%d", len(rows))
	}
	if rows[1][1] != "City Walking Tour" {
		t.Fatalf("cell got=%q", rows[1][1])
	}
}

func TestReadTable_CSVSemicolonWithBOM(t *testing.T) {
	t.Parallel()

	input := "\xEF\xBB\xBFBokun ID;Product Name;Net Adult\n912345;City Walking Tour;65,00\n"
	rows, err := ReadTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	if rows[0][0] != "Bokun ID" {
		t.Fatalf("BOM must be stripped, header got=%q", rows[0][0])
	}
	if len(rows[1]) != 3 || rows[1][2] != "65,00" {
		t.Fatalf("semicolon split got=%v", rows[1])
	}
}

func TestReadTable_RaggedCSV(t *testing.T) {
	t.Parallel()

	input := "a,b,c\n1,2\n1,2,3,4\n"
	rows, err := ReadTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ragged csv must be tolerated: %v", err)
	}
	if len(rows) != 3 || len(rows[1]) != 2 || len(rows[2]) != 4 {
		t.Fatalf("unexpected shape: %v", rows)
	}
}

func TestReadTable_Workbook(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	_ = f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Bokun ID", "Product Name"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]interface{}{912345, "City Walking Tour"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rows, err := ReadTable(&buf)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "City Walking Tour" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestReadTable_Empty(t *testing.T) {
	t.Parallel()

	if _, err := ReadTable(strings.NewReader("")); err == nil {
		t.Fatalf("empty input must error")
	}
}

func TestDiscover_HeadersAndPreview(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"export generated 2026-08-01"},
		{" Bokun ID ", "Product Name"},
		{"1", "Tour A"},
		{"", ""},
		{"2", "Tour B"},
		{"3", "Tour C"},
	}

	result, err := Discover(rows, 1, 2)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if result.Headers[0] != "Bokun ID" {
		t.Fatalf("headers must be trimmed, got=%q", result.Headers[0])
	}
	if len(result.Preview) != 2 {
		t.Fatalf("preview want=2 got=%d", len(result.Preview))
	}
	if result.Preview[1][1] != "Tour B" {
		t.Fatalf("blank rows must be skipped in preview, got=%v", result.Preview)
	}
}

func TestDiscover_HeaderRowOutOfRange(t *testing.T) {
	t.Parallel()

	if _, err := Discover([][]string{{"a"}}, 5, 3); err == nil {
		t.Fatalf("out-of-range header row must error")
	}
}

func TestDataRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"h"}, {"1"}, {""}, {"2"}}
	data := DataRows(rows, 0)
	if len(data) != 3 {
		t.Fatalf("data rows want=3 got=%d", len(data))
	}
	if DataRows(rows, 3) != nil {
		t.Fatalf("no data after last row")
	}
}
