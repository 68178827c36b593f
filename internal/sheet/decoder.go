package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JakeFAU/sheetbridge/internal/bridge"
)

// URLPrefix is the literal prefix a first-column cell needs to be kept.
const URLPrefix = "http"

// Upload file extensions. Anything that is not CSV is read as xlsx.
const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"
)

const utf8BOM = "\ufeff"

// DecodeFile extracts submission URLs from the file stored at path. A ".csv"
// extension selects the CSV reader; every other file is opened as a workbook.
func DecodeFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the upload spool
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()
	if strings.EqualFold(filepath.Ext(path), ExtCSV) {
		return DecodeCSV(f)
	}
	return Decode(f)
}

// Decode extracts submission URLs from a workbook read from r.
func Decode(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()
	return extractURLs(f)
}

// DecodeCSV applies the first-column rule to comma separated text.
func DecodeCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var urls []string
	for first := true; ; first = false {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrUnreadableWorkbook, err)
		}
		if len(record) == 0 {
			continue
		}
		candidate := record[0]
		if first {
			candidate = strings.TrimPrefix(candidate, utf8BOM)
		}
		if strings.HasPrefix(candidate, URLPrefix) {
			urls = append(urls, candidate)
		}
	}
	if len(urls) == 0 {
		return nil, bridge.ErrNoValidURLs
	}
	return urls, nil
}

// extractURLs reads the first worksheet row by row and keeps the first cell
// of each row when it starts with URLPrefix. Every other cell is ignored.
// Order and duplicates are preserved.
func extractURLs(f *excelize.File) ([]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, bridge.ErrNoValidURLs
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrUnreadableWorkbook, err)
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		// Raw values keep numbers and booleans in their stored form
		// ("42", "1"), none of which can carry the prefix.
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrUnreadableWorkbook, err)
		}
		if len(cols) == 0 {
			continue
		}
		if candidate := cols[0]; strings.HasPrefix(candidate, URLPrefix) {
			urls = append(urls, candidate)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrUnreadableWorkbook, err)
	}
	if len(urls) == 0 {
		return nil, bridge.ErrNoValidURLs
	}
	return urls, nil
}
