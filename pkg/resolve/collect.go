package resolve

import (
	"io/fs"
	"path/filepath"

	"github.com/walteh/arboribus/pkg/gitindex"
)

// 📋 CollectFiles enumerates every regular file beneath dir, keeping
// only tracked files when a tracked set is supplied. Enumeration is
// best-effort: a permission or OS error ends the walk and whatever was
// collected so far is returned.
func CollectFiles(dir, root string, tracked *gitindex.TrackedSet) []string {
	var files []string

	// The walk error intentionally discards nothing already collected.
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !tracked.ContainsFile(relTo(root, path)) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files
}
