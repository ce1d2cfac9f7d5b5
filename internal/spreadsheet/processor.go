// Package spreadsheet flattens tabular workbooks into a self-describing
// textual form suitable for LLM consumption.
package spreadsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	extxls "github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/propono/docbudget/constants"
	"github.com/propono/docbudget/internal/document"
)

const (
	defaultMaxRows = 10000
	defaultTimeout = 60 * time.Second
	// csvSheetName names the single implicit sheet of a CSV file.
	csvSheetName = "Sheet1"
)

type sheet struct {
	name string
	rows [][]string
}

type Processor struct {
	logger *slog.Logger
}

func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger}
}

// ProcessSpreadsheet parses a workbook (CSV counts as a single-sheet
// workbook) and flattens the selected sheets. Parsing is deterministic, so
// confidence is fixed at 100. Missing requested sheets are skipped with a
// warning, not a failure.
func (p *Processor) ProcessSpreadsheet(ctx context.Context, fi document.FileInfo, opts *document.SpreadsheetOptions) document.ProcessingResult {
	start := time.Now()
	o := withDefaults(opts)

	sheets, err := loadWorkbook(fi.Buffer, fi.MimeType)
	if err != nil {
		p.logger.Error("spreadsheet.parse_failed", "file", fi.OriginalName, "error", err)
		return document.FailedResult(fi, o.Language, time.Since(start), fmt.Errorf("parse workbook: %w", err))
	}

	byName := make(map[string]sheet, len(sheets))
	ordered := make([]string, 0, len(sheets))
	for _, sh := range sheets {
		byName[sh.name] = sh
		ordered = append(ordered, sh.name)
	}

	selected := o.SheetNames
	if selected == nil {
		selected = ordered
	}

	var b strings.Builder
	for _, name := range selected {
		if ctx.Err() != nil {
			return document.FailedResult(fi, o.Language, time.Since(start), ctx.Err())
		}
		sh, ok := byName[name]
		if !ok {
			p.logger.Warn("spreadsheet.sheet_missing", "file", fi.OriginalName, "sheet", name)
			continue
		}
		b.WriteString(flattenSheet(sh, o))
		b.WriteString("\n\n")
	}

	text := strings.TrimSpace(b.String())
	if !o.PreserveFormatting {
		text = cleanText(text)
	}

	p.logger.Info("spreadsheet.ok",
		"file", fi.OriginalName,
		"sheets", len(selected),
		"bytes", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return document.ProcessingResult{
		Success: true,
		Text:    text,
		Metadata: document.Metadata{
			FileType:       fi.MimeType,
			FileName:       fi.OriginalName,
			FileSize:       fi.Size,
			ProcessingTime: time.Since(start),
			Confidence:     100,
			Language:       o.Language,
		},
	}
}

// flattenSheet renders one sheet as a header block plus one line per row of
// "column: value" pairs. The per-cell labels give the model context a raw
// tabular dump would lose.
func flattenSheet(sh sheet, o document.SpreadsheetOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== SHEET: %s ===\n", sh.name)

	rows := sh.rows
	if o.MaxRows > 0 && len(rows) > o.MaxRows {
		rows = rows[:o.MaxRows]
	}
	if len(rows) == 0 {
		b.WriteString("Empty sheet\n")
		return b.String()
	}

	if o.IncludeHeaders {
		headers := rows[0]
		fmt.Fprintf(&b, "COLUMNS: %s\n\n", strings.Join(headers, " | "))
		for i, row := range rows[1:] {
			pairs := make([]string, len(headers))
			for j, header := range headers {
				value := ""
				if j < len(row) {
					value = row[j]
				}
				pairs[j] = fmt.Sprintf("%s: %s", header, value)
			}
			fmt.Fprintf(&b, "ROW %d: %s\n", i+1, strings.Join(pairs, " | "))
		}
	} else {
		for i, row := range rows {
			fmt.Fprintf(&b, "ROW %d: %s\n", i+1, strings.Join(row, " | "))
		}
	}
	return b.String()
}

// loadWorkbook parses the buffer with the parser matching its mime type.
func loadWorkbook(buffer []byte, mimeType string) ([]sheet, error) {
	switch mimeType {
	case constants.MimeCSV:
		return loadCSV(buffer)
	case constants.MimeXLS:
		return loadXLS(buffer)
	default:
		return loadXLSX(buffer)
	}
}

func loadCSV(buffer []byte) ([]sheet, error) {
	r := csv.NewReader(bytes.NewReader(buffer))
	r.FieldsPerRecord = -1 // ragged rows are fine
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return []sheet{{name: csvSheetName, rows: rows}}, nil
}

func loadXLSX(buffer []byte) ([]sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sheets []sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("xlsx sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheet{name: name, rows: rows})
	}
	return sheets, nil
}

func loadXLS(buffer []byte) ([]sheet, error) {
	wb, err := extxls.OpenReader(bytes.NewReader(buffer), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("xls: %w", err)
	}

	var sheets []sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			var cells []string
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, sheet{name: ws.Name, rows: rows})
	}
	return sheets, nil
}

var reMultiBlank = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func cleanText(text string) string {
	text = reMultiBlank.Replace(text)
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, ln := range lines {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}

func withDefaults(opts *document.SpreadsheetOptions) document.SpreadsheetOptions {
	if opts == nil {
		return document.SpreadsheetOptions{
			ProcessingOptions: document.ProcessingOptions{
				Language:           "por",
				PreserveFormatting: true,
				Timeout:            defaultTimeout,
			},
			IncludeHeaders: true,
			MaxRows:        defaultMaxRows,
		}
	}
	o := *opts
	if o.Language == "" {
		o.Language = "por"
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRows == 0 {
		o.MaxRows = defaultMaxRows
	}
	return o
}
