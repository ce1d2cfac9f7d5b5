// Command docbudget extracts a document's text and generates a structured
// budget with the configured LLM provider. With a second argument the budget
// is also written as an XLSX workbook.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/propono/docbudget/internal/common"
	"github.com/propono/docbudget/internal/document"
	"github.com/propono/docbudget/internal/export"
	"github.com/propono/docbudget/internal/ingest"
	"github.com/propono/docbudget/internal/llm"
	"github.com/propono/docbudget/internal/llm/agno"
	"github.com/propono/docbudget/internal/llm/gemini"
	"github.com/propono/docbudget/internal/llm/openai"
	"github.com/propono/docbudget/internal/ocr"
	"github.com/propono/docbudget/internal/pdf"
	"github.com/propono/docbudget/internal/pipeline"
	"github.com/propono/docbudget/internal/spreadsheet"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 || len(os.Args) > 3 {
		logger.Error("usage", "cmd", "docbudget <file> [output.xlsx]")
		os.Exit(2)
	}
	target := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	loader := ingest.NewLoader(logger)
	fi, err := loader.LoadFile(target)
	if err != nil {
		logger.Error("load file", "path", target, "error", err)
		os.Exit(1)
	}

	proc := buildPipeline(cfg, logger)
	result := proc.ProcessDocument(ctx, fi, &document.ProcessingOptions{Language: cfg.OCR.Language})
	if !result.Success {
		logger.Error("extraction failed", "file", fi.OriginalName, "error", result.Error)
		os.Exit(1)
	}

	generator, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Error("configure provider", "provider", cfg.LLM.Provider, "error", err)
		os.Exit(1)
	}

	genCtx := ctx
	if cfg.LLM.Timeout > 0 {
		var genCancel context.CancelFunc
		genCtx, genCancel = context.WithTimeout(ctx, cfg.LLM.Timeout)
		defer genCancel()
	}

	budget, err := generator.GenerateBudget(genCtx, result.Text, llm.GenerationOptions{
		Provider:       cfg.LLM.Provider,
		IncludeDetails: true,
		Currency:       "BRL",
	})
	if err != nil {
		logger.Error("budget generation failed", "file", fi.OriginalName, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(budget); err != nil {
		logger.Error("encode budget", "error", err)
		os.Exit(1)
	}

	if len(os.Args) == 3 {
		xlsx, err := export.NewService(logger).ExportBudgetXLSX(budget)
		if err != nil {
			logger.Error("export budget", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(os.Args[2], xlsx, 0o644); err != nil {
			logger.Error("write workbook", "path", os.Args[2], "error", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", os.Args[2], "bytes", len(xlsx))
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

func buildGenerator(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*llm.Generator, error) {
	providerCfg := llm.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	var (
		provider llm.Provider
		err      error
	)
	switch cfg.LLM.Provider {
	case llm.ProviderOpenAI:
		provider, err = openai.New(providerCfg, logger)
	case llm.ProviderGemini:
		provider, err = gemini.New(ctx, providerCfg, logger)
	case llm.ProviderAgno:
		provider, err = agno.New(providerCfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	generator := llm.NewGenerator(logger)
	if err := generator.Register(provider); err != nil {
		return nil, err
	}
	return generator, nil
}
