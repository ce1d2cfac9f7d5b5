package spreadsheet

// SheetInfo describes one sheet's extent.
type SheetInfo struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// WorkbookInfo describes a workbook without flattening it.
type WorkbookInfo struct {
	SheetCount int                  `json:"sheet_count"`
	SheetNames []string             `json:"sheet_names"`
	Sheets     map[string]SheetInfo `json:"sheets"`
}

// SheetNames lists the sheets in a workbook buffer. Returns nil when the
// buffer cannot be parsed.
func SheetNames(buffer []byte, mimeType string) []string {
	sheets, err := loadWorkbook(buffer, mimeType)
	if err != nil {
		return nil
	}
	names := make([]string, len(sheets))
	for i, sh := range sheets {
		names[i] = sh.name
	}
	return names
}

// Info reports sheet count and per-sheet extents. Returns nil when the
// buffer cannot be parsed.
func Info(buffer []byte, mimeType string) *WorkbookInfo {
	sheets, err := loadWorkbook(buffer, mimeType)
	if err != nil {
		return nil
	}
	info := &WorkbookInfo{
		SheetCount: len(sheets),
		SheetNames: make([]string, len(sheets)),
		Sheets:     make(map[string]SheetInfo, len(sheets)),
	}
	for i, sh := range sheets {
		info.SheetNames[i] = sh.name
		cols := 0
		for _, row := range sh.rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
		info.Sheets[sh.name] = SheetInfo{Rows: len(sh.rows), Columns: cols}
	}
	return info
}
