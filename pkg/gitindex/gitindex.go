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

// Package gitindex answers "which paths does git consider tracked?" for
// a source root. Everything degrades to "no filtering" when git is
// unavailable, the sync pipeline must keep working outside version
// control.
package gitindex

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// 📦 TrackedSet is the set of git-tracked paths of a repository,
// relative to the source root and slash-separated. A nil *TrackedSet
// disables tracked-based filtering entirely; a non-nil empty set means
// the repository has zero tracked files.
type TrackedSet struct {
	paths map[string]struct{}
}

// 🏭 NewTrackedSet builds a set from relative path strings. Entries are
// stored as given, they must not carry a trailing slash.
func NewTrackedSet(paths ...string) *TrackedSet {
	set := &TrackedSet{paths: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		set.paths[p] = struct{}{}
	}
	return set
}

// Len returns the number of tracked paths.
func (s *TrackedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.paths)
}

// 🔍 ContainsFile reports whether the given root-relative file path is
// tracked. A nil set tracks everything.
func (s *TrackedSet) ContainsFile(rel string) bool {
	if s == nil {
		return true
	}
	_, ok := s.paths[rel]
	return ok
}

// 🔍 ContainsDir reports whether the given root-relative directory
// contains at least one tracked entry: either an exact match or an
// entry starting with rel + "/". This is a pure set operation, a stale
// index entry can admit a directory whose files were locally deleted.
func (s *TrackedSet) ContainsDir(rel string) bool {
	if s == nil {
		return true
	}
	if _, ok := s.paths[rel]; ok {
		return true
	}
	prefix := rel + "/"
	for p := range s.paths {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Paths returns a copy of the tracked paths. Useful for diagnostics.
func (s *TrackedSet) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	return out
}

// runGitFunc executes git with the given args inside dir and returns
// combined stdout. Swappable in tests.
type runGitFunc func(ctx context.Context, dir string, args ...string) (string, error)

// 🎯 Provider obtains the tracked set for a source root by shelling out
// to git.
type Provider struct {
	runGit runGitFunc
}

// 🏭 NewProvider creates a provider backed by the git binary on PATH.
func NewProvider() *Provider {
	return &Provider{runGit: runGit}
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

// 📋 TrackedSet returns the set of git-tracked paths under root, or nil
// when filtering is unavailable (root is not inside a work tree, git is
// missing, or any invocation fails). It never returns an error: every
// failure mode downgrades to unfiltered mode.
func (p *Provider) TrackedSet(ctx context.Context, root string) *TrackedSet {
	logger := zerolog.Ctx(ctx)

	if _, err := p.runGit(ctx, root, "rev-parse", "--is-inside-work-tree"); err != nil {
		logger.Debug().Str("root", root).Err(err).Msg("not a git work tree, skipping tracked-file filtering")
		return nil
	}

	out, err := p.runGit(ctx, root, "ls-files")
	if err != nil {
		logger.Debug().Str("root", root).Err(err).Msg("git ls-files failed, skipping tracked-file filtering")
		return nil
	}

	set := NewTrackedSet()
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		set.paths[line] = struct{}{}
	}

	logger.Debug().Str("root", root).Int("tracked", set.Len()).Msg("loaded git tracked files")
	return set
}
