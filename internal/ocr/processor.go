// Package ocr turns raster images into text through an external recognition
// engine, with image normalization applied up front to raise accuracy.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/propono/docbudget/constants"
	"github.com/propono/docbudget/internal/document"
)

// Config points at the recognition engine binary.
type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	TessdataDir string
}

// Defaults applied when callers leave OCROptions fields unset.
const (
	DefaultLanguage = "por"
	defaultTimeout  = 60 * time.Second
)

type Processor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewProcessor(cfg Config, logger *slog.Logger) *Processor {
	return NewProcessorWithRunner(cfg, execRunner{}, logger)
}

// NewProcessorWithRunner injects the command runner, used by tests and by
// the PDF fallback path to share one stubbed engine.
func NewProcessorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	return &Processor{cfg: cfg, runner: runner, logger: logger}
}

// ProcessImage recognizes text in a raster image. Failures are captured in
// the result, never raised; there is a single recognition attempt bounded
// by the configured timeout.
func (p *Processor) ProcessImage(ctx context.Context, fi document.FileInfo, opts *document.OCROptions) document.ProcessingResult {
	start := time.Now()
	o := withDefaults(opts)

	buf := fi.Buffer
	ext := "png"
	if normalized, err := normalizeImage(fi.Buffer); err != nil {
		// Non-fatal: recognition continues on the original bytes.
		p.logger.Warn("ocr.image.normalize_failed", "file", fi.OriginalName, "error", err)
		if e := constants.NormalizeExt(filepath.Ext(fi.OriginalName)); e != "" {
			ext = e
		}
	} else {
		buf = normalized
	}

	tmpDir, err := os.MkdirTemp("", "docbudget-ocr-*")
	if err != nil {
		return document.FailedResult(fi, o.Language, time.Since(start), err)
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			p.logger.Warn("ocr.image.tmp_cleanup_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	path := filepath.Join(tmpDir, "input."+ext)
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return document.FailedResult(fi, o.Language, time.Since(start), err)
	}

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	text, confidence, err := p.RecognizeFile(ctx, path, o)
	if err != nil {
		p.logger.Error("ocr.image.failed", "file", fi.OriginalName, "error", err)
		return document.FailedResult(fi, o.Language, time.Since(start), fmt.Errorf("ocr: %w", err))
	}

	if !o.PreserveFormatting {
		text = CleanText(text)
	}

	p.logger.Info("ocr.image.ok",
		"file", fi.OriginalName,
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
			Language:       o.Language,
		},
	}
}

// RecognizeFile runs the engine on an image file already on disk and
// returns the recognized text with the engine's mean word confidence
// (0..100). Confidence failures degrade to zero, not to an error.
func (p *Processor) RecognizeFile(ctx context.Context, path string, o document.OCROptions) (string, float64, error) {
	out, errb, err := p.runner.Run(ctx, p.cfg.Tesseract, p.engineArgs(path, o)...)
	if err != nil {
		return "", 0, fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	text := reBoxNoise.ReplaceAllString(string(out), "")

	confidence, err := p.tsvConfidence(ctx, path, o)
	if err != nil {
		p.logger.Debug("ocr.confidence.unavailable", "path", path, "error", err)
		confidence = 0
	}
	return text, confidence, nil
}

func (p *Processor) engineArgs(path string, o document.OCROptions) []string {
	args := []string{path, "stdout", "-l", o.Language}
	if o.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(o.PSM))
	}
	if o.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(o.OEM))
	}
	if p.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", p.cfg.TessdataDir)
	}
	return args
}

// tsvConfidence runs the engine in TSV mode and returns the mean word
// confidence in 0..100.
func (p *Processor) tsvConfidence(ctx context.Context, path string, o document.OCROptions) (float64, error) {
	args := append(p.engineArgs(path, o), "tsv")
	out, _, err := p.runner.Run(ctx, p.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}

	lines := strings.Split(string(out), "\n")
	// columns: level..height, conf, text; conf is the second to last
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-2]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

// SupportedLanguages lists the recognition languages the pipeline ships
// traineddata for.
func SupportedLanguages() []string {
	return []string{"por", "eng", "spa", "fra", "deu", "ita"}
}

func withDefaults(opts *document.OCROptions) document.OCROptions {
	if opts == nil {
		return document.OCROptions{
			ProcessingOptions: document.ProcessingOptions{
				Language:           DefaultLanguage,
				PreserveFormatting: true,
				Timeout:            defaultTimeout,
			},
		}
	}
	o := *opts
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
	return o
}
