package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is the raw decoded content of an upload: the trimmed header row plus
// every data row keyed by its actual column label. No normalization beyond
// header trimming has happened yet.
type Sheet struct {
	Headers []string
	Rows    []map[string]string
}

var (
	// ErrEmptySheet is returned when the first worksheet has no rows at all.
	ErrEmptySheet = errors.New("no rows found in the first sheet")

	// ErrNoDataRows is returned when the worksheet holds a header but nothing
	// under it.
	ErrNoDataRows = errors.New("no data rows found after header")

	// ErrUnsupportedFormat is returned for file types no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx, .xlsm or .csv")
)

// Load decodes an upload by file extension. The name is only used to pick
// the decoder; all bytes come from r.
func Load(name string, r io.Reader) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return LoadWorkbook(r)
	case ".csv":
		return LoadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// LoadWorkbook decodes the first worksheet of an Excel workbook. Only the
// first sheet is read; row 1 is the header.
func LoadWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return sheetFromRows(rows)
}

// LoadCSV decodes a comma-separated upload with the same row-1-is-header
// contract as the workbook path.
func LoadCSV(r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return sheetFromRows(records)
}

// sheetFromRows builds a Sheet from a raw row matrix. Blank header cells are
// skipped; when two headers collide, the leftmost column keeps the label.
func sheetFromRows(rows [][]string) (*Sheet, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	type column struct {
		label string
		index int
	}
	var columns []column
	seen := make(map[string]bool)
	var headers []string
	for i, h := range rows[0] {
		label := strings.TrimSpace(h)
		if label == "" {
			continue
		}
		headers = append(headers, label)
		if seen[label] {
			continue
		}
		seen[label] = true
		columns = append(columns, column{label: label, index: i})
	}

	sheet := &Sheet{Headers: headers}
	for _, row := range rows[1:] {
		m := make(map[string]string, len(columns))
		for _, c := range columns {
			if c.index < len(row) {
				m[c.label] = row[c.index]
			} else {
				m[c.label] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, m)
	}
	return sheet, nil
}
