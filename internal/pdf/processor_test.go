package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propono/docbudget/constants"
	"github.com/propono/docbudget/internal/document"
	"github.com/propono/docbudget/internal/ocr"
)

type failRunner struct{ calls int }

func (r *failRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	r.calls++
	return nil, []byte("boom"), assert.AnError
}

func newTestProcessor(runner ocr.Runner) *Processor {
	ocrProc := ocr.NewProcessorWithRunner(ocr.Config{}, runner, nil)
	return NewProcessorWithRunner(Config{}, runner, ocrProc, nil)
}

// pageRunner emulates the rasterizer and the recognition engine. The
// rasterizer call drops one rendered page next to the requested prefix; the
// engine calls answer with ocrText and tsv.
type pageRunner struct {
	ocrText     string
	tsv         string
	rasterErr   error
	rasterCalls int
	engineCalls int
}

func (r *pageRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	if name == "pdftoppm" {
		r.rasterCalls++
		if r.rasterErr != nil {
			return nil, []byte("raster boom"), r.rasterErr
		}
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0o600); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}
	r.engineCalls++
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		return []byte(r.tsv), nil, nil
	}
	return []byte(r.ocrText), nil, nil
}

func engineTSV(confs ...string) string {
	lines := []string{"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext"}
	for i, c := range confs {
		cols := []string{"5", "1", "1", "1", "1", "1", "10", "10", "50", "20", c, fmt.Sprintf("w%d", i)}
		lines = append(lines, strings.Join(cols, "\t"))
	}
	return strings.Join(lines, "\n") + "\n"
}

// buildPDF assembles a minimal single-page document whose content stream
// draws bodyText, tracking object offsets while writing so the xref table
// is exact. An empty bodyText yields a page with no text layer.
func buildPDF(t *testing.T, bodyText string) []byte {
	t.Helper()

	var content string
	if bodyText != "" {
		content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", bodyText)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func pdfFile(t *testing.T, name, bodyText string) document.FileInfo {
	t.Helper()
	buf := buildPDF(t, bodyText)
	return document.FileInfo{
		OriginalName: name,
		MimeType:     constants.MimePDF,
		Size:         int64(len(buf)),
		Buffer:       buf,
	}
}

func TestProcessPDFParseFailureIsFatal(t *testing.T) {
	p := newTestProcessor(&failRunner{})
	fi := document.FileInfo{
		OriginalName: "broken.pdf",
		MimeType:     constants.MimePDF,
		Size:         9,
		Buffer:       []byte("not a pdf"),
	}

	res := p.ProcessPDF(context.Background(), fi, nil)
	assert.False(t, res.Success)
	require.Error(t, res.Error)
	assert.Contains(t, res.Error.Error(), "parse pdf")
	assert.Equal(t, "broken.pdf", res.Metadata.FileName)
}

func TestProcessPDFNativeTextLayer(t *testing.T) {
	runner := &pageRunner{}
	p := newTestProcessor(runner)
	body := "Orcamento de reforma residencial com valores detalhados por item"
	fi := pdfFile(t, "native.pdf", body)

	res := p.ProcessPDF(context.Background(), fi, nil)
	require.True(t, res.Success)
	require.NoError(t, res.Error)
	assert.Contains(t, res.Text, "Orcamento de reforma")
	assert.Equal(t, float64(nativeConfidence), res.Metadata.Confidence)
	assert.Equal(t, 1, res.Metadata.PageCount)
	// dense text layer means no rasterization and no engine run
	assert.Equal(t, 0, runner.rasterCalls)
	assert.Equal(t, 0, runner.engineCalls)
}

func TestProcessPDFScannedFallbackAdopted(t *testing.T) {
	runner := &pageRunner{ocrText: "ORCAMENTO\nServicos de pintura e alvenaria com mao de obra inclusa"}
	p := newTestProcessor(runner)

	res := p.ProcessPDF(context.Background(), pdfFile(t, "scan.pdf", ""), nil)
	require.True(t, res.Success)
	assert.Contains(t, res.Text, "Servicos de pintura")
	// engine reported no word confidence, so the default applies
	assert.Equal(t, float64(fallbackConfidence), res.Metadata.Confidence)
	assert.Equal(t, 1, runner.rasterCalls)
	assert.Equal(t, 2, runner.engineCalls) // text pass plus TSV pass
}

func TestProcessPDFScannedFallbackUsesEngineConfidence(t *testing.T) {
	runner := &pageRunner{
		ocrText: "texto reconhecido na pagina digitalizada",
		tsv:     engineTSV("90", "70"),
	}
	p := newTestProcessor(runner)

	res := p.ProcessPDF(context.Background(), pdfFile(t, "scan.pdf", ""), nil)
	require.True(t, res.Success)
	assert.Equal(t, 80.0, res.Metadata.Confidence)
}

func TestProcessPDFScannedKeepsNativeWhenFallbackNotLonger(t *testing.T) {
	runner := &pageRunner{ocrText: "x"}
	p := newTestProcessor(runner)

	res := p.ProcessPDF(context.Background(), pdfFile(t, "short.pdf", "Nota 123"), nil)
	require.True(t, res.Success)
	assert.Contains(t, res.Text, "Nota 123")
	assert.Equal(t, float64(scannedNativeConfidence), res.Metadata.Confidence)
	assert.Equal(t, 1, runner.rasterCalls)
}

func TestProcessPDFScannedFallbackFailureKeepsNative(t *testing.T) {
	runner := &pageRunner{rasterErr: assert.AnError}
	p := newTestProcessor(runner)

	res := p.ProcessPDF(context.Background(), pdfFile(t, "short.pdf", "Nota 123"), nil)
	require.True(t, res.Success)
	assert.Contains(t, res.Text, "Nota 123")
	assert.Equal(t, float64(scannedNativeConfidence), res.Metadata.Confidence)
	assert.Equal(t, 0, runner.engineCalls)
}

func TestIsProbablyScanned(t *testing.T) {
	assert.True(t, isProbablyScanned("", 3))
	assert.True(t, isProbablyScanned("   \n  ", 1))
	assert.True(t, isProbablyScanned(strings.Repeat("x", 49), 1))
	assert.False(t, isProbablyScanned(strings.Repeat("x", 50), 1))
	assert.False(t, isProbablyScanned(strings.Repeat("x", 500), 3))
	// a ten page document with one short page of text is still a scan
	assert.True(t, isProbablyScanned(strings.Repeat("x", 120), 10))
	assert.False(t, isProbablyScanned("anything", 0))
}

func TestExtractMetadataGarbageIsNil(t *testing.T) {
	assert.Nil(t, ExtractMetadata([]byte("garbage")))
	assert.Nil(t, ExtractMetadata(nil))
}

func TestHeaderVersion(t *testing.T) {
	assert.Equal(t, "1.7", headerVersion([]byte("%PDF-1.7\nrest")))
	assert.Equal(t, "1.4", headerVersion([]byte("%PDF-1.4\r\nrest")))
	assert.Equal(t, "", headerVersion([]byte("no header")))
}

func TestWithDefaults(t *testing.T) {
	o := withDefaults(nil)
	assert.Equal(t, ocr.DefaultLanguage, o.Language)
	assert.Equal(t, defaultMaxPages, o.MaxPages)
	assert.True(t, o.PreserveFormatting)

	o = withDefaults(&document.PDFOptions{MaxPages: 5})
	assert.Equal(t, 5, o.MaxPages)
	assert.Equal(t, ocr.DefaultLanguage, o.Language)
}
