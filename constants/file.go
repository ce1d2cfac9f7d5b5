package constants

import "strings"

// Mime types accepted by the pipeline.
const (
	MimePDF  = "application/pdf"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeTIFF = "image/tiff"
	MimeBMP  = "image/bmp"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS  = "application/vnd.ms-excel"
	MimeCSV  = "text/csv"
)

// ProcessorKind selects the extraction strategy for a mime type.
type ProcessorKind string

const (
	ProcessorOCR         ProcessorKind = "ocr"
	ProcessorPDF         ProcessorKind = "pdf"
	ProcessorSpreadsheet ProcessorKind = "spreadsheet"
)

// MaxFileSize is the hard upload ceiling, enforced before any extraction
// work begins. OCR and PDF rasterization are memory-heavy; this bounds them.
const MaxFileSize = 50 * 1024 * 1024 // 50MB

// extToMime maps normalized file extensions to their declared mime type.
var extToMime = map[string]string{
	"pdf":  MimePDF,
	"jpg":  MimeJPEG,
	"jpeg": MimeJPEG,
	"png":  MimePNG,
	"tif":  MimeTIFF,
	"tiff": MimeTIFF,
	"bmp":  MimeBMP,
	"xlsx": MimeXLSX,
	"xls":  MimeXLS,
	"csv":  MimeCSV,
}

// mimeToProcessor maps supported mime types to their processor kind.
var mimeToProcessor = map[string]ProcessorKind{
	MimePDF:  ProcessorPDF,
	MimeJPEG: ProcessorOCR,
	MimePNG:  ProcessorOCR,
	MimeTIFF: ProcessorOCR,
	MimeBMP:  ProcessorOCR,
	MimeXLSX: ProcessorSpreadsheet,
	MimeXLS:  ProcessorSpreadsheet,
	MimeCSV:  ProcessorSpreadsheet,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MimeForExt resolves a file extension to its mime type.
func MimeForExt(ext string) (string, bool) {
	mt, ok := extToMime[NormalizeExt(ext)]
	return mt, ok
}

// IsSupportedMime reports whether the pipeline can process the mime type.
func IsSupportedMime(mimeType string) bool {
	_, ok := mimeToProcessor[mimeType]
	return ok
}

// ProcessorForMime resolves a mime type to the processor kind handling it.
func ProcessorForMime(mimeType string) (ProcessorKind, bool) {
	k, ok := mimeToProcessor[mimeType]
	return k, ok
}

// SupportedMimeTypes returns the accepted mime types in stable order.
func SupportedMimeTypes() []string {
	return []string{MimePDF, MimeJPEG, MimePNG, MimeTIFF, MimeBMP, MimeXLSX, MimeXLS, MimeCSV}
}
