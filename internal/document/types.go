package document

import "time"

// FileInfo is the input contract from the upload handler. It is owned by the
// call that initiates processing and is never mutated by the pipeline.
type FileInfo struct {
	OriginalName string
	MimeType     string
	Size         int64
	Buffer       []byte
	Path         string // optional source path, informational only
}

// Metadata describes one extraction run.
type Metadata struct {
	FileType       string        `json:"file_type"`
	FileName       string        `json:"file_name"`
	FileSize       int64         `json:"file_size"`
	ProcessingTime time.Duration `json:"processing_time"`
	Confidence     float64       `json:"confidence,omitempty"` // 0..100
	PageCount      int           `json:"page_count,omitempty"`
	Language       string        `json:"language,omitempty"`
}

// ProcessingResult is produced once per processed file and is immutable once
// returned. Success with empty text only happens for genuinely empty sources.
type ProcessingResult struct {
	Success  bool     `json:"success"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
	Error    error    `json:"-"`
}

// ProcessingOptions carries the knobs shared by every format processor.
// Zero values are filled with per-processor defaults; options are never
// persisted.
type ProcessingOptions struct {
	Language           string
	PreserveFormatting bool
	Timeout            time.Duration
}

// OCROptions extends ProcessingOptions with recognition-engine knobs.
type OCROptions struct {
	ProcessingOptions
	PSM int // page segmentation mode; 0 = engine default
	OEM int // OCR engine mode; 0 = engine default
}

// PDFOptions extends ProcessingOptions with page bounds.
type PDFOptions struct {
	ProcessingOptions
	MaxPages        int
	IncludeMetadata bool
}

// SpreadsheetOptions extends ProcessingOptions with sheet selection and
// row bounds.
type SpreadsheetOptions struct {
	ProcessingOptions
	SheetNames     []string // nil = all sheets
	IncludeHeaders bool
	MaxRows        int
}

// FailedResult builds the uniform failure shape used across processors.
func FailedResult(fi FileInfo, language string, elapsed time.Duration, err error) ProcessingResult {
	return ProcessingResult{
		Success: false,
		Text:    "",
		Metadata: Metadata{
			FileType:       fi.MimeType,
			FileName:       fi.OriginalName,
			FileSize:       fi.Size,
			ProcessingTime: elapsed,
			Language:       language,
		},
		Error: err,
	}
}
