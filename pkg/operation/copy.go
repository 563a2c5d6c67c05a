// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 📄 copyFile copies file contents plus metadata (permissions and
// modification time) from src to dst, overwriting dst if present.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stating source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating target: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing target: %w", err)
	}

	// dst may pre-exist with different permissions than the O_CREATE
	// mode applied
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errors.Errorf("setting timestamps: %w", err)
	}

	return nil
}

// 🌳 copyTree recursively copies the source tree to dst. With merge set
// an existing destination is populated in place (overwrite-in-place);
// otherwise a pre-existing destination is an error. The exclude
// predicate is evaluated for every regular file visited; excluded files
// are simply not copied. Directories are always created so the tree
// shape survives even when all of a directory's files are excluded.
func copyTree(src, dst string, merge bool, exclude func(path string) bool) error {
	if !merge {
		if _, err := os.Stat(dst); err == nil {
			return errors.Errorf("target %s already exists", dst)
		}
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking source tree: %w", err)
		}

		relInTree, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		targetPath := filepath.Join(dst, relInTree)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return errors.Errorf("stating directory: %w", err)
			}
			if err := os.MkdirAll(targetPath, info.Mode().Perm()); err != nil {
				return errors.Errorf("creating directory: %w", err)
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if exclude != nil && exclude(path) {
			return nil
		}

		return copyFile(path, targetPath)
	})
}
