package document

import (
	"fmt"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/propono/docbudget/constants"
	"github.com/propono/docbudget/internal/common"
)

// DetectMimeType resolves a file's mime type, preferring the extension and
// falling back to magic-byte sniffing when the extension is unknown or
// missing. Sniffing wins over nothing, not over a recognized extension, so a
// renamed file with a known extension keeps its declared type.
func DetectMimeType(fileName string, buffer []byte) (string, error) {
	if mt, ok := constants.MimeForExt(filepath.Ext(fileName)); ok {
		return mt, nil
	}
	if len(buffer) > 0 {
		if mt, ok := sniffBuffer(buffer); ok {
			return mt, nil
		}
	}
	return "", common.NewAppError("DETECT_FAILED",
		fmt.Sprintf("could not detect file type for %q", fileName),
		common.ErrUnrecognizedFormat)
}

// sniffBuffer matches the buffer's leading bytes against known signatures
// (PDF, JPEG, PNG, TIFF, BMP, XLSX-as-ZIP, legacy XLS OLE container) and
// maps the hit onto the supported mime set.
func sniffBuffer(buffer []byte) (string, bool) {
	detected := mimetype.Detect(buffer)
	for _, mt := range constants.SupportedMimeTypes() {
		if detected.Is(mt) {
			return mt, true
		}
	}
	return "", false
}

// ValidateFile rejects oversized and unsupported files before any extraction
// work begins.
func ValidateFile(fi FileInfo) error {
	if fi.Size > constants.MaxFileSize {
		return common.NewAppError("FILE_TOO_LARGE",
			fmt.Sprintf("file %q exceeds the %dMB limit", fi.OriginalName, constants.MaxFileSize/1024/1024),
			common.ErrFileTooLarge)
	}
	if !constants.IsSupportedMime(fi.MimeType) {
		return common.NewAppError("UNSUPPORTED_TYPE",
			fmt.Sprintf("unsupported file type: %s", fi.MimeType),
			common.ErrUnsupportedFileType)
	}
	if ext := filepath.Ext(fi.OriginalName); ext != "" {
		if _, ok := constants.MimeForExt(ext); !ok {
			return common.NewAppError("UNSUPPORTED_TYPE",
				fmt.Sprintf("unsupported file extension: %s", ext),
				common.ErrUnsupportedFileType)
		}
	}
	return nil
}

// ProcessorType maps a mime type onto the processor kind that handles it.
func ProcessorType(mimeType string) (constants.ProcessorKind, error) {
	kind, ok := constants.ProcessorForMime(mimeType)
	if !ok {
		return "", common.NewAppError("NO_PROCESSOR",
			fmt.Sprintf("no processor for mime type %s", mimeType),
			common.ErrUnsupportedFileType)
	}
	return kind, nil
}

// IsSupported reports whether the pipeline accepts the mime type.
func IsSupported(mimeType string) bool {
	return constants.IsSupportedMime(mimeType)
}
