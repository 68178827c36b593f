package sheet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JakeFAU/sheetbridge/internal/bridge"
)

func TestDecode_KeepsHTTPPrefixedFirstColumnInOrder(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]any{
		{"URL"},
		{"https://example.com/a", "https://ignored.example.com"},
		{"not a url"},
		{42},
		{true},
		{nil, "https://second-column.example.com"},
		{"https://example.com/b"},
		{" https://leading-space.example.com"},
		{"http://example.com/plain"},
		{"https://example.com/a"},
	})

	urls, err := Decode(bytes.NewReader(data))

	require.NoError(t, err)
	require.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"http://example.com/plain",
		"https://example.com/a",
	}, urls)
}

func TestDecode_OnlyFirstSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "first sheet text"))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "https://other.example.com"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(buf.Bytes()))

	require.ErrorIs(t, err, bridge.ErrNoValidURLs)
}

func TestDecode_NoValidURLs(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]any{{"URL"}, {"ftp://example.com"}, {12.5}})

	urls, err := Decode(bytes.NewReader(data))

	require.Nil(t, urls)
	require.ErrorIs(t, err, bridge.ErrNoValidURLs)
	require.ErrorIs(t, err, bridge.ErrValidation)
}

func TestDecode_EmptyWorkbook(t *testing.T) {
	t.Parallel()

	_, err := Decode(bytes.NewReader(buildWorkbook(t, nil)))

	require.ErrorIs(t, err, bridge.ErrNoValidURLs)
}

func TestDecode_NotAWorkbook(t *testing.T) {
	t.Parallel()

	_, err := Decode(bytes.NewReader([]byte("url\nhttps://example.com\n")))

	require.ErrorIs(t, err, bridge.ErrUnreadableWorkbook)
	require.ErrorIs(t, err, bridge.ErrValidation)
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, [][]any{{"https://example.com/a"}}), 0o600))

	urls, err := DecodeFile(path)

	require.NoError(t, err)
	require.Equal(t, []string{"https://example.com/a"}, urls)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.ErrorIs(t, err, bridge.ErrUnreadableWorkbook)
}

func TestDecodeCSV(t *testing.T) {
	t.Parallel()

	input := "\ufeffhttps://example.com/a,name\n" +
		"URL\n" +
		"\"https://example.com/b\",\"x, y\"\n" +
		"\n" +
		"42\n" +
		"https://example.com/a\n"

	urls, err := DecodeCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/a",
	}, urls)

	_, err = DecodeCSV(strings.NewReader("URL\nftp://example.com\n"))
	require.ErrorIs(t, err, bridge.ErrNoValidURLs)
}

func TestDecodeFile_CSVExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "upload.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("URL\nhttps://example.com/a\n"), 0o600))

	urls, err := DecodeFile(csvPath)
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.com/a"}, urls)

	// CSV text stored under the workbook extension is not a workbook.
	xlsxPath := filepath.Join(dir, "upload.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, []byte("URL\nhttps://example.com/a\n"), 0o600))
	_, err = DecodeFile(xlsxPath)
	require.ErrorIs(t, err, bridge.ErrUnreadableWorkbook)
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
