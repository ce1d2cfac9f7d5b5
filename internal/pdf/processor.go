// Package pdf extracts the embedded text layer of PDF documents and falls
// back to OCR when a document looks like a scan.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/propono/docbudget/internal/document"
	"github.com/propono/docbudget/internal/ocr"
)

// scannedCharsPerPage is the average-character density below which a PDF is
// classified as probably scanned. Tuned empirically; revisit against a
// labeled corpus before treating it as ground truth.
const scannedCharsPerPage = 50

const (
	// nativeConfidence applies to text-layer extraction: publisher text is
	// authoritative.
	nativeConfidence = 100
	// fallbackConfidence applies when OCR fallback text is adopted but the
	// engine reported no confidence of its own.
	fallbackConfidence = 85
	// scannedNativeConfidence flags a scanned document whose OCR fallback
	// did not improve on the (near-empty) native text.
	scannedNativeConfidence = 25
)

const (
	defaultMaxPages = 100
	defaultTimeout  = 120 * time.Second
)

// Config points at the rasterizer used for the scanned-document fallback.
type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI, default 300
}

type Processor struct {
	cfg    Config
	runner ocr.Runner
	ocr    *ocr.Processor
	logger *slog.Logger
}

func NewProcessor(cfg Config, ocrProc *ocr.Processor, logger *slog.Logger) *Processor {
	return NewProcessorWithRunner(cfg, ocr.ExecRunner(), ocrProc, logger)
}

// NewProcessorWithRunner injects the rasterizer runner for tests.
func NewProcessorWithRunner(cfg Config, runner ocr.Runner, ocrProc *ocr.Processor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Processor{cfg: cfg, runner: runner, ocr: ocrProc, logger: logger}
}

// ProcessPDF extracts text from a PDF. Documents classified as scanned get
// one OCR fallback attempt; its result is adopted only when it yields more
// text than the native extraction. Container parse failures are fatal for
// the file.
func (p *Processor) ProcessPDF(ctx context.Context, fi document.FileInfo, opts *document.PDFOptions) document.ProcessingResult {
	start := time.Now()
	o := withDefaults(opts)

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	reader, err := ledongthuc.NewReader(bytes.NewReader(fi.Buffer), int64(len(fi.Buffer)))
	if err != nil {
		p.logger.Error("pdf.parse_failed", "file", fi.OriginalName, "error", err)
		return document.FailedResult(fi, o.Language, time.Since(start), fmt.Errorf("parse pdf: %w", err))
	}

	pageCount := reader.NumPage()
	limit := pageCount
	if o.MaxPages > 0 && limit > o.MaxPages {
		limit = o.MaxPages
	}

	text := p.nativeText(reader, limit)
	confidence := float64(nativeConfidence)

	if isProbablyScanned(text, limit) {
		p.logger.Info("pdf.scanned_suspected",
			"file", fi.OriginalName, "pages", pageCount, "native_bytes", len(strings.TrimSpace(text)))

		fbText, fbConf, fbErr := p.ocrFallback(ctx, fi.Buffer, o)
		switch {
		case fbErr != nil:
			// Fallback failure is non-fatal; the native text stands with
			// degraded confidence.
			p.logger.Warn("pdf.scanned_fallback_failed", "file", fi.OriginalName, "error", fbErr)
			confidence = scannedNativeConfidence
		case len(fbText) > len(text):
			// Longer text wins as a proxy for "more complete". Known
			// limitation: verbose OCR noise can outrank terse native text.
			text = fbText
			confidence = fbConf
			if confidence == 0 {
				confidence = fallbackConfidence
			}
		default:
			confidence = scannedNativeConfidence
		}
	}

	if !o.PreserveFormatting {
		text = ocr.CleanText(text)
	}

	p.logger.Info("pdf.ok",
		"file", fi.OriginalName,
		"pages", pageCount,
		"bytes", len(text),
		"confidence", confidence,
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
			Confidence:     confidence,
			PageCount:      pageCount,
			Language:       o.Language,
		},
	}
}

// nativeText pulls the embedded text layer of the first `limit` pages.
// Unreadable pages are skipped, not fatal.
func (p *Processor) nativeText(reader *ledongthuc.Reader, limit int) string {
	var b strings.Builder
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("pdf.page_unreadable", "page", i, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String()
}

// isProbablyScanned classifies a document as image-only when the average
// extracted characters per page fall under scannedCharsPerPage.
func isProbablyScanned(text string, pages int) bool {
	if pages <= 0 {
		return false
	}
	avg := float64(len(strings.TrimSpace(text))) / float64(pages)
	return avg < scannedCharsPerPage
}

// ocrFallback rasterizes the document and recognizes each page, returning
// the combined text and the mean engine confidence over the pages.
func (p *Processor) ocrFallback(ctx context.Context, buffer []byte, o document.PDFOptions) (string, float64, error) {
	tmpDir, err := os.MkdirTemp("", "docbudget-pdf-*")
	if err != nil {
		return "", 0, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			p.logger.Warn("pdf.tmp_cleanup_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	src := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(src, buffer, 0o600); err != nil {
		return "", 0, err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm, "-r", strconv.Itoa(p.cfg.DPI), "-png", src, prefix)
	if err != nil {
		return "", 0, fmt.Errorf("pdftoppm: %w (%s)", err, strings.TrimSpace(string(errb)))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if o.MaxPages > 0 && len(matches) > o.MaxPages {
		matches = matches[:o.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, fmt.Errorf("no pages rendered")
	}

	ocrOpts := document.OCROptions{
		ProcessingOptions: document.ProcessingOptions{
			Language:           o.Language,
			PreserveFormatting: true,
		},
	}

	var b strings.Builder
	var confSum float64
	var confN int
	for _, img := range matches {
		txt, conf, rerr := p.ocr.RecognizeFile(ctx, img, ocrOpts)
		if rerr != nil {
			p.logger.Warn("pdf.page_ocr_failed", "image", filepath.Base(img), "error", rerr)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
		if conf > 0 {
			confSum += conf
			confN++
		}
	}

	var confidence float64
	if confN > 0 {
		confidence = confSum / float64(confN)
	}
	return b.String(), confidence, nil
}

func withDefaults(opts *document.PDFOptions) document.PDFOptions {
	if opts == nil {
		return document.PDFOptions{
			ProcessingOptions: document.ProcessingOptions{
				Language:           ocr.DefaultLanguage,
				PreserveFormatting: true,
				Timeout:            defaultTimeout,
			},
			MaxPages:        defaultMaxPages,
			IncludeMetadata: true,
		}
	}
	o := *opts
	if o.Language == "" {
		o.Language = ocr.DefaultLanguage
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxPages == 0 {
		o.MaxPages = defaultMaxPages
	}
	return o
}
