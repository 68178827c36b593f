package sheet

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/JakeFAU/sheetbridge/internal/bridge"
)

// ContentType is the MIME type of every workbook produced here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultSheet       = "Sheet1"
	defaultResultSheet = "Results"
	templateSheet      = "Template"
	templateColWidth   = 50
)

// TemplateRows is the content of the import template: a header cell followed
// by two example URLs. The header does not start with "http" and is skipped
// when the template is uploaded back.
var TemplateRows = [][]string{
	{"URL (必填)"},
	{"https://www.carrefour.fr/p/sample-product-id"},
	{"https://www.carrefour.fr/r/sample-category"},
}

// Encoder writes result records into a single-sheet workbook.
type Encoder struct {
	sheetName string
}

// NewEncoder returns an Encoder writing to a sheet with the given name.
func NewEncoder(sheetName string) *Encoder {
	if sheetName == "" {
		sheetName = defaultResultSheet
	}
	return &Encoder{sheetName: sheetName}
}

// Columns returns the union of record keys in first-seen order.
func Columns(records []bridge.Record) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			cols = append(cols, key)
		}
	}
	return cols
}

// Encode renders records as a header row of column names followed by one row
// per record. Fields a record lacks are left blank.
func (e *Encoder) Encode(records []bridge.Record) ([]byte, error) {
	f, err := newWorkbook(e.sheetName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cols := Columns(records)
	if len(cols) > 0 {
		header := make([]any, len(cols))
		for i, c := range cols {
			header[i] = c
		}
		if err := checkCellLength(0, header); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(e.sheetName, "A1", &header); err != nil {
			return nil, fmt.Errorf("%w: write header: %w", bridge.ErrSerialization, err)
		}
	}
	for i, rec := range records {
		row := make([]any, len(cols))
		for j, key := range cols {
			if v, ok := rec.Value(key); ok {
				row[j] = cellValue(v)
			}
		}
		if err := checkCellLength(i+1, row); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
		}
		if err := f.SetSheetRow(e.sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("%w: write row %d: %w", bridge.ErrSerialization, i+1, err)
		}
	}
	return writeWorkbook(f)
}

// EncodeTemplate renders the static import template.
func EncodeTemplate() ([]byte, error) {
	f, err := newWorkbook(templateSheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	for i, values := range TemplateRows {
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
		}
		if err := f.SetSheetRow(templateSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("%w: write template row: %w", bridge.ErrSerialization, err)
		}
	}
	if err := f.SetColWidth(templateSheet, "A", "A", templateColWidth); err != nil {
		return nil, fmt.Errorf("%w: set column width: %w", bridge.ErrSerialization, err)
	}
	return writeWorkbook(f)
}

// checkCellLength rejects text excelize would otherwise truncate to
// excelize.TotalCellChars characters.
func checkCellLength(row int, values []any) error {
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if n := utf8.RuneCountInString(s); n > excelize.TotalCellChars {
			return fmt.Errorf("%w: row %d: cell has %d characters, limit is %d",
				bridge.ErrSerialization, row, n, excelize.TotalCellChars)
		}
	}
	return nil
}

func newWorkbook(sheetName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: name sheet %q: %w", bridge.ErrSerialization, sheetName, err)
	}
	return f, nil
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: write workbook: %w", bridge.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// cellValue maps a decoded JSON value onto a cell. Integers and floats become
// numeric cells; nested arrays and objects are written as compact JSON text.
func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, float64, int, int64:
		return val
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
