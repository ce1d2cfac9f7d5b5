// Package pipeline coordinates detection, format-specific extraction, and
// LLM-oriented post-processing for uploaded documents.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/propono/docbudget/constants"
	"github.com/propono/docbudget/internal/document"
	"github.com/propono/docbudget/internal/ocr"
	"github.com/propono/docbudget/internal/pdf"
	"github.com/propono/docbudget/internal/spreadsheet"
	"github.com/propono/docbudget/internal/textprep"
)

// batchConcurrency bounds parallel extraction; OCR and workbook parsing are
// CPU- and memory-heavy.
const batchConcurrency = 4

// Processor is the single error-containment point of the pipeline:
// ProcessDocument and ProcessMultipleDocuments never fail structurally, all
// failures land in the result's Success/Error fields.
type Processor struct {
	logger *slog.Logger
	ocr    *ocr.Processor
	pdf    *pdf.Processor
	sheets *spreadsheet.Processor
}

func NewProcessor(logger *slog.Logger, ocrProc *ocr.Processor, pdfProc *pdf.Processor, sheetProc *spreadsheet.Processor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, ocr: ocrProc, pdf: pdfProc, sheets: sheetProc}
}

// ProcessDocument validates the file, dispatches it to the processor for
// its type, and post-processes successful extractions into the LLM-ready
// form. All failures, including panics from the format processors, are
// converted into a failed result.
func (p *Processor) ProcessDocument(ctx context.Context, fi document.FileInfo, opts *document.ProcessingOptions) (result document.ProcessingResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline.panic", "file", fi.OriginalName, "panic", r)
			result = document.FailedResult(fi, language(opts), 0, fmt.Errorf("processing panic: %v", r))
		}
	}()

	if err := document.ValidateFile(fi); err != nil {
		return document.FailedResult(fi, language(opts), 0, err)
	}
	kind, err := document.ProcessorType(fi.MimeType)
	if err != nil {
		return document.FailedResult(fi, language(opts), 0, err)
	}

	switch kind {
	case constants.ProcessorOCR:
		result = p.ocr.ProcessImage(ctx, fi, ocrOptions(opts))
	case constants.ProcessorPDF:
		result = p.pdf.ProcessPDF(ctx, fi, pdfOptions(opts))
	case constants.ProcessorSpreadsheet:
		result = p.sheets.ProcessSpreadsheet(ctx, fi, sheetOptions(opts))
	default:
		return document.FailedResult(fi, language(opts), 0, fmt.Errorf("no processor for kind %q", kind))
	}

	if result.Success && result.Text != "" {
		result.Text = textprep.FormatForLLM(result.Text)
	}
	return result
}

// ProcessMultipleDocuments fans out one independent task per file on a
// bounded pool. Results preserve input order regardless of completion
// order, one-to-one with the input.
func (p *Processor) ProcessMultipleDocuments(ctx context.Context, files []document.FileInfo, opts *document.ProcessingOptions) []document.ProcessingResult {
	results := make([]document.ProcessingResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, fi := range files {
		g.Go(func() error {
			results[i] = p.ProcessDocument(gctx, fi, opts)
			return nil
		})
	}
	// ProcessDocument never returns an error; Wait only synchronizes.
	_ = g.Wait()
	return results
}

// IsFileTypeSupported reports whether the pipeline accepts the mime type.
func (p *Processor) IsFileTypeSupported(mimeType string) bool {
	return document.IsSupported(mimeType)
}

// FileDetails describes a file without extracting its text.
type FileDetails struct {
	Kind     constants.ProcessorKind   `json:"kind"`
	MimeType string                    `json:"mime_type"`
	Name     string                    `json:"name"`
	Size     int64                     `json:"size"`
	PDF      *pdf.DocumentInfo         `json:"pdf,omitempty"`
	Workbook *spreadsheet.WorkbookInfo `json:"workbook,omitempty"`
}

// GetFileInfo validates the file and returns format-specific metadata where
// the format has any (PDF info dictionary, workbook extents).
func (p *Processor) GetFileInfo(fi document.FileInfo) (*FileDetails, error) {
	if err := document.ValidateFile(fi); err != nil {
		return nil, err
	}
	kind, err := document.ProcessorType(fi.MimeType)
	if err != nil {
		return nil, err
	}

	details := &FileDetails{
		Kind:     kind,
		MimeType: fi.MimeType,
		Name:     fi.OriginalName,
		Size:     fi.Size,
	}
	switch kind {
	case constants.ProcessorPDF:
		details.PDF = pdf.ExtractMetadata(fi.Buffer)
	case constants.ProcessorSpreadsheet:
		details.Workbook = spreadsheet.Info(fi.Buffer, fi.MimeType)
	}
	return details, nil
}

// ExtractKeywords processes the document and ranks its keywords. A failed
// extraction yields an empty list.
func (p *Processor) ExtractKeywords(ctx context.Context, fi document.FileInfo, maxKeywords int, opts *document.ProcessingOptions) []string {
	result := p.ProcessDocument(ctx, fi, opts)
	if !result.Success || result.Text == "" {
		return nil
	}
	return textprep.ExtractKeywords(result.Text, maxKeywords)
}

// SummarizeDocument processes the document and produces an extractive
// summary. A failed extraction yields an empty string.
func (p *Processor) SummarizeDocument(ctx context.Context, fi document.FileInfo, maxSentences int, opts *document.ProcessingOptions) string {
	result := p.ProcessDocument(ctx, fi, opts)
	if !result.Success || result.Text == "" {
		return ""
	}
	return textprep.SummarizeText(result.Text, maxSentences)
}

// CompareDocuments extracts both files in parallel and scores their
// similarity in [0,1]. Any failed extraction scores 0.
func (p *Processor) CompareDocuments(ctx context.Context, a, b document.FileInfo, opts *document.ProcessingOptions) float64 {
	results := p.ProcessMultipleDocuments(ctx, []document.FileInfo{a, b}, opts)
	if !results[0].Success || !results[1].Success || results[0].Text == "" || results[1].Text == "" {
		return 0
	}
	return textprep.Similarity(results[0].Text, results[1].Text)
}

func language(opts *document.ProcessingOptions) string {
	if opts != nil && opts.Language != "" {
		return opts.Language
	}
	return ocr.DefaultLanguage
}

func ocrOptions(opts *document.ProcessingOptions) *document.OCROptions {
	if opts == nil {
		return nil
	}
	return &document.OCROptions{ProcessingOptions: *opts}
}

func pdfOptions(opts *document.ProcessingOptions) *document.PDFOptions {
	if opts == nil {
		return nil
	}
	return &document.PDFOptions{ProcessingOptions: *opts, IncludeMetadata: true}
}

func sheetOptions(opts *document.ProcessingOptions) *document.SpreadsheetOptions {
	if opts == nil {
		return nil
	}
	return &document.SpreadsheetOptions{ProcessingOptions: *opts, IncludeHeaders: true}
}
