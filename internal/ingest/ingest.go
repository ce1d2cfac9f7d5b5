// Package ingest loads files and directory trees from disk into the shape
// the pipeline consumes.
package ingest

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/propono/docbudget/constants"
	"github.com/propono/docbudget/internal/document"
)

// DirStats aggregates one directory walk.
type DirStats struct {
	Scanned   int
	Matched   int
	Loaded    int
	Failed    int
	Unmatched int
}

type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadFile reads one file and resolves its mime type from the name and, when
// the extension is unknown, the content.
func (l *Loader) LoadFile(path string) (document.FileInfo, error) {
	buffer, err := os.ReadFile(path)
	if err != nil {
		return document.FileInfo{}, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	mimeType, err := document.DetectMimeType(name, buffer)
	if err != nil {
		return document.FileInfo{}, err
	}

	return document.FileInfo{
		OriginalName: name,
		MimeType:     mimeType,
		Size:         int64(len(buffer)),
		Buffer:       buffer,
		Path:         path,
	}, nil
}

// LoadDirectory walks root, skips hidden entries, and loads every supported
// file. Unsupported and unreadable files are counted and logged, not fatal.
func (l *Loader) LoadDirectory(root string) ([]document.FileInfo, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, fmt.Errorf("root path is required")
	}

	var files []document.FileInfo
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			l.logger.Warn("ingest.walk_error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.MimeForExt(ext); !ok {
			l.logger.Warn("ingest.unsupported", "path", path, "ext", ext)
			stats.Unmatched++
			return nil
		}
		stats.Matched++

		fi, err := l.LoadFile(path)
		if err != nil {
			l.logger.Warn("ingest.load_failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		files = append(files, fi)
		stats.Loaded++
		return nil
	})
	if err != nil {
		return files, stats, fmt.Errorf("walk: %w", err)
	}

	l.logger.Info("ingest.directory.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"loaded", stats.Loaded,
		"failed", stats.Failed,
	)
	return files, stats, nil
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
