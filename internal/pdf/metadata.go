package pdf

import (
	"bytes"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
)

// DocumentInfo summarizes a PDF without extracting its text.
type DocumentInfo struct {
	Pages   int               `json:"pages"`
	Info    map[string]string `json:"info,omitempty"`
	Version string            `json:"version,omitempty"`
}

// ExtractMetadata reads page count, the document information dictionary,
// and the header version. Returns nil when the buffer is not a parseable
// PDF.
func ExtractMetadata(buffer []byte) *DocumentInfo {
	reader, err := ledongthuc.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return nil
	}

	meta := &DocumentInfo{
		Pages:   reader.NumPage(),
		Version: headerVersion(buffer),
	}

	info := reader.Trailer().Key("Info")
	if info.Kind() == ledongthuc.Dict {
		fields := make(map[string]string)
		for _, key := range info.Keys() {
			v := info.Key(key)
			if v.Kind() == ledongthuc.String {
				if text := strings.TrimSpace(v.Text()); text != "" {
					fields[key] = text
				}
			}
		}
		if len(fields) > 0 {
			meta.Info = fields
		}
	}
	return meta
}

// headerVersion parses the "%PDF-1.x" marker from the file header.
func headerVersion(buffer []byte) string {
	const marker = "%PDF-"
	if !bytes.HasPrefix(buffer, []byte(marker)) {
		return ""
	}
	rest := buffer[len(marker):]
	if idx := bytes.IndexAny(rest, "\r\n "); idx > 0 {
		rest = rest[:idx]
	}
	if len(rest) > 8 {
		rest = rest[:8]
	}
	return string(rest)
}
