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

// Package resolve expands glob-pattern rules against a source root into
// a concrete, deduplicated set of paths, applying git-tracked-set and
// exclude-prefix filtering.
package resolve

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/arboribus/pkg/gitindex"
)

// 🔧 Options controls pattern resolution.
type Options struct {
	// ExcludePrefixes drops any candidate whose root-relative path
	// starts with one of these strings. Plain prefix match, not glob.
	ExcludePrefixes []string
	// Tracked filters candidates against the git index. Nil disables
	// filtering.
	Tracked *gitindex.TrackedSet
	// IncludeFiles admits regular files as candidates. Directories are
	// always admitted.
	IncludeFiles bool
}

// 🎯 Patterns resolves include patterns relative to root into a sorted,
// deduplicated list of absolute paths. A pattern that matches nothing
// contributes nothing; a malformed pattern is skipped. The result is
// idempotent for an unchanged filesystem.
func Patterns(ctx context.Context, root string, patterns []string, opts Options) []string {
	logger := zerolog.Ctx(ctx)
	matched := make(map[string]struct{})

	for _, pattern := range patterns {
		// Direct path matching first (for patterns like "frontend").
		// When the literal path exists and is an admissible kind, glob
		// expansion is skipped for this pattern entirely.
		direct := filepath.Join(root, pattern)
		if info, err := os.Stat(direct); err == nil {
			if info.IsDir() || (opts.IncludeFiles && info.Mode().IsRegular()) {
				if opts.admits(root, direct, info.IsDir()) {
					matched[direct] = struct{}{}
				}
				continue
			}
		}

		// Glob matching. doublestar handles both standard and
		// recursive ("**") expansion in one pass.
		expansions, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			logger.Debug().Str("pattern", pattern).Err(err).Msg("skipping malformed pattern")
			continue
		}

		for _, path := range expansions {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !info.IsDir() && !(opts.IncludeFiles && info.Mode().IsRegular()) {
				continue
			}
			if !opts.admits(root, path, info.IsDir()) {
				continue
			}
			matched[path] = struct{}{}
		}
	}

	out := make([]string, 0, len(matched))
	for path := range matched {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// admits applies the tracked-set and exclude-prefix filters to one
// candidate.
func (o Options) admits(root, path string, isDir bool) bool {
	rel := relTo(root, path)

	if isDir {
		if !o.Tracked.ContainsDir(rel) {
			return false
		}
	} else if !o.Tracked.ContainsFile(rel) {
		return false
	}

	for _, prefix := range o.ExcludePrefixes {
		if strings.HasPrefix(rel, prefix) {
			return false
		}
	}

	return true
}

// relTo returns path relative to root using forward slashes, the form
// tracked-set entries are stored in.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
