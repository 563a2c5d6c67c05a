package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/walteh/arboribus/pkg/gitindex"
)

// Reserved statistics keys. Real extensions always start with a dot, so
// the bracketed sentinels can never collide with one.
const (
	StatTotalFiles  = "[TOTAL FILES]"
	StatTotalDirs   = "[TOTAL DIRS]"
	StatNoExtension = "(no extension)"
)

// 📊 Statistics tabulates file counts by lower-cased extension over a
// resolved path set, expanding directories recursively and respecting
// the tracked set. The totals live under StatTotalFiles/StatTotalDirs.
func Statistics(paths []string, root string, tracked *gitindex.TrackedSet) map[string]int {
	stats := make(map[string]int)
	totalFiles := 0
	totalDirs := 0

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		switch {
		case info.Mode().IsRegular():
			if !tracked.ContainsFile(relTo(root, path)) {
				continue
			}
			totalFiles++
			stats[extensionOf(path)]++
		case info.IsDir():
			totalDirs++
			for _, file := range CollectFiles(path, root, tracked) {
				totalFiles++
				stats[extensionOf(file)]++
			}
		}
	}

	stats[StatTotalFiles] = totalFiles
	stats[StatTotalDirs] = totalDirs
	return stats
}

// extensionOf returns the lower-cased extension including the leading
// dot, or the no-extension sentinel. A dotfile like ".gitignore" has no
// extension.
func extensionOf(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return StatNoExtension
	}
	return strings.ToLower(ext)
}
