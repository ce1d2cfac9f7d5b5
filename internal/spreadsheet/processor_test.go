package spreadsheet

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/propono/docbudget/constants"
	"github.com/propono/docbudget/internal/document"
)

func csvFile(content string) document.FileInfo {
	return document.FileInfo{
		OriginalName: "data.csv",
		MimeType:     constants.MimeCSV,
		Size:         int64(len(content)),
		Buffer:       []byte(content),
	}
}

type sheetFixture struct {
	name string
	rows [][]any
}

func xlsxFile(t *testing.T, sheets ...sheetFixture) document.FileInfo {
	t.Helper()
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(s.name, cell, v))
			}
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return document.FileInfo{
		OriginalName: "book.xlsx",
		MimeType:     constants.MimeXLSX,
		Size:         int64(buf.Len()),
		Buffer:       buf.Bytes(),
	}
}

func TestProcessCSVWithHeaders(t *testing.T) {
	p := NewProcessor(nil)
	fi := csvFile("item,qty,price\ncimento,10,35.50\nareia,2,120.00\n")

	res := p.ProcessSpreadsheet(context.Background(), fi, nil)
	require.True(t, res.Success)

	assert.Contains(t, res.Text, "=== SHEET: Sheet1 ===")
	assert.Contains(t, res.Text, "COLUMNS: item | qty | price")
	assert.Contains(t, res.Text, "ROW 1: item: cimento | qty: 10 | price: 35.50")
	assert.Contains(t, res.Text, "ROW 2: item: areia | qty: 2 | price: 120.00")
	assert.Equal(t, float64(100), res.Metadata.Confidence)
}

func TestProcessCSVWithoutHeaders(t *testing.T) {
	p := NewProcessor(nil)
	fi := csvFile("cimento,10\nareia,2\n")
	opts := &document.SpreadsheetOptions{IncludeHeaders: false}

	res := p.ProcessSpreadsheet(context.Background(), fi, opts)
	require.True(t, res.Success)
	assert.Contains(t, res.Text, "ROW 1: cimento | 10")
	assert.Contains(t, res.Text, "ROW 2: areia | 2")
	assert.NotContains(t, res.Text, "COLUMNS:")
}

func TestProcessCSVRaggedRows(t *testing.T) {
	p := NewProcessor(nil)
	fi := csvFile("a,b,c\n1,2\n3,4,5,6\n")

	res := p.ProcessSpreadsheet(context.Background(), fi, nil)
	require.True(t, res.Success)
	// missing cells render as empty values, extras are ignored
	assert.Contains(t, res.Text, "ROW 1: a: 1 | b: 2 | c: ")
	assert.Contains(t, res.Text, "ROW 2: a: 3 | b: 4 | c: 5")
}

func TestProcessXLSXMultipleSheets(t *testing.T) {
	p := NewProcessor(nil)
	fi := xlsxFile(t,
		sheetFixture{name: "Materiais", rows: [][]any{{"item", "preço"}, {"tijolo", 0.85}}},
		sheetFixture{name: "Servicos", rows: [][]any{{"descricao", "valor"}, {"pintura", 1200}}},
	)

	res := p.ProcessSpreadsheet(context.Background(), fi, nil)
	require.True(t, res.Success)

	// each sheet contributes its own header block, in workbook order
	assert.Contains(t, res.Text, "=== SHEET: Materiais ===")
	assert.Contains(t, res.Text, "=== SHEET: Servicos ===")
	assert.Less(t, strings.Index(res.Text, "Materiais"), strings.Index(res.Text, "Servicos"))
	assert.Equal(t, 2, strings.Count(res.Text, "COLUMNS:"))
	assert.Contains(t, res.Text, "COLUMNS: item | preço")
	assert.Contains(t, res.Text, "COLUMNS: descricao | valor")
	assert.Contains(t, res.Text, "item: tijolo")
	assert.Contains(t, res.Text, "descricao: pintura")
}

func TestProcessSheetSelectionMissingSheetSkipped(t *testing.T) {
	p := NewProcessor(nil)
	fi := xlsxFile(t, sheetFixture{name: "Custos", rows: [][]any{{"item"}, {"cimento"}}})
	opts := &document.SpreadsheetOptions{
		SheetNames:     []string{"Custos", "Inexistente"},
		IncludeHeaders: true,
	}

	res := p.ProcessSpreadsheet(context.Background(), fi, opts)
	require.True(t, res.Success)
	assert.Contains(t, res.Text, "=== SHEET: Custos ===")
	assert.NotContains(t, res.Text, "Inexistente")
}

func TestProcessMaxRowsCapsOutput(t *testing.T) {
	p := NewProcessor(nil)
	fi := csvFile("h\nr1\nr2\nr3\nr4\n")
	opts := &document.SpreadsheetOptions{IncludeHeaders: true, MaxRows: 3}

	res := p.ProcessSpreadsheet(context.Background(), fi, opts)
	require.True(t, res.Success)
	assert.Contains(t, res.Text, "ROW 2: h: r2")
	assert.NotContains(t, res.Text, "r3")
	assert.NotContains(t, res.Text, "r4")
}

func TestProcessEmptySheet(t *testing.T) {
	p := NewProcessor(nil)
	fi := csvFile("")

	res := p.ProcessSpreadsheet(context.Background(), fi, nil)
	require.True(t, res.Success)
	assert.Contains(t, res.Text, "Empty sheet")
}

func TestProcessBrokenWorkbookFails(t *testing.T) {
	p := NewProcessor(nil)
	fi := document.FileInfo{
		OriginalName: "broken.xlsx",
		MimeType:     constants.MimeXLSX,
		Size:         4,
		Buffer:       []byte("nope"),
	}

	res := p.ProcessSpreadsheet(context.Background(), fi, nil)
	assert.False(t, res.Success)
	assert.Error(t, res.Error)
}

func TestSheetNamesAndInfo(t *testing.T) {
	fi := xlsxFile(t, sheetFixture{name: "Resumo", rows: [][]any{{"a", "b", "c"}, {1, 2, 3}, {4, 5, 6}}})

	names := SheetNames(fi.Buffer, fi.MimeType)
	assert.Equal(t, []string{"Resumo"}, names)

	info := Info(fi.Buffer, fi.MimeType)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.SheetCount)
	assert.Equal(t, SheetInfo{Rows: 3, Columns: 3}, info.Sheets["Resumo"])
}

func TestInfoBrokenBufferNil(t *testing.T) {
	assert.Nil(t, Info([]byte("junk"), constants.MimeXLSX))
	assert.Nil(t, SheetNames([]byte("junk"), constants.MimeXLSX))
}
