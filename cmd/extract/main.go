// Command extract runs the extraction pipeline over a file or directory and
// prints one JSON result per input.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/propono/docbudget/internal/common"
	"github.com/propono/docbudget/internal/document"
	"github.com/propono/docbudget/internal/ingest"
	"github.com/propono/docbudget/internal/ocr"
	"github.com/propono/docbudget/internal/pdf"
	"github.com/propono/docbudget/internal/pipeline"
	"github.com/propono/docbudget/internal/spreadsheet"
)

type output struct {
	File       string  `json:"file"`
	Success    bool    `json:"success"`
	Text       string  `json:"text,omitempty"`
	Error      string  `json:"error,omitempty"`
	Confidence float64 `json:"confidence"`
	Pages      int     `json:"pages,omitempty"`
	ElapsedMS  int64   `json:"elapsed_ms"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extract <file-or-directory>")
		os.Exit(2)
	}
	target := os.Args[1]

	cfg := common.LoadConfig()
	proc := buildPipeline(cfg, logger)
	loader := ingest.NewLoader(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	st, err := os.Stat(target)
	if err != nil {
		logger.Error("stat target", "path", target, "error", err)
		os.Exit(1)
	}

	var files []document.FileInfo
	if st.IsDir() {
		files, _, err = loader.LoadDirectory(target)
		if err != nil {
			logger.Error("load directory", "path", target, "error", err)
			os.Exit(1)
		}
	} else {
		fi, err := loader.LoadFile(target)
		if err != nil {
			logger.Error("load file", "path", target, "error", err)
			os.Exit(1)
		}
		files = []document.FileInfo{fi}
	}

	opts := &document.ProcessingOptions{Language: cfg.OCR.Language}
	results := proc.ProcessMultipleDocuments(ctx, files, opts)

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for i, res := range results {
		out := output{
			File:       files[i].OriginalName,
			Success:    res.Success,
			Text:       res.Text,
			Confidence: res.Metadata.Confidence,
			Pages:      res.Metadata.PageCount,
			ElapsedMS:  res.Metadata.ProcessingTime.Milliseconds(),
		}
		if res.Error != nil {
			out.Error = res.Error.Error()
			failed++
		}
		if err := enc.Encode(out); err != nil {
			logger.Error("encode result", "error", err)
			os.Exit(1)
		}
	}
	if failed == len(results) && len(results) > 0 {
		os.Exit(1)
	}
}

func buildPipeline(cfg *common.Config, logger *slog.Logger) *pipeline.Processor {
	ocrProc := ocr.NewProcessor(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	pdfProc := pdf.NewProcessor(pdf.Config{
		Pdftoppm: cfg.OCR.Pdftoppm,
		DPI:      cfg.OCR.DPI,
	}, ocrProc, logger)
	sheetProc := spreadsheet.NewProcessor(logger)
	return pipeline.NewProcessor(logger, ocrProc, pdfProc, sheetProc)
}
