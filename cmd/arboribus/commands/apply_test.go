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

package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/arboribus/pkg/gitindex"
	"github.com/walteh/arboribus/pkg/operation"
	"github.com/walteh/arboribus/pkg/resolve"
)

// 🧪 syncFixture builds a small source tree, a target root, a tracked
// set covering the tree, and a context with a test logger.
func syncFixture(t *testing.T) (context.Context, string, string, *gitindex.TrackedSet) {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	root := t.TempDir()
	for path, content := range map[string]string{
		"libs/admin/main.py":   "admin",
		"libs/admin/util.py":   "util",
		"libs/auth/handler.py": "auth",
	} {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	tracked := gitindex.NewTrackedSet(
		"libs/admin/main.py",
		"libs/admin/util.py",
		"libs/auth/handler.py",
	)

	return ctx, root, t.TempDir(), tracked
}

// syncPairs runs the resolve → flatten → pair-construction slice of the
// apply pipeline, the part between config and the runner.
func syncPairs(ctx context.Context, t *testing.T, reverse bool, root, dest string, tracked *gitindex.TrackedSet) []operation.Pair {
	t.Helper()

	resolved := resolve.Patterns(ctx, root, []string{"libs/*"}, resolve.Options{Tracked: tracked})
	require.NotEmpty(t, resolved)

	files := flattenFiles(resolved, root, tracked)
	return buildPairs(reverse, root, dest, files)
}

// Directory matches must be expanded to their files before pairing:
// the runner only ever sees regular files on the source side.
func TestApplyPairs_FlattenDirectoriesToFiles(t *testing.T) {
	ctx, root, dest, tracked := syncFixture(t)

	pairs := syncPairs(ctx, t, false, root, dest, tracked)
	require.Len(t, pairs, 3)

	for _, pair := range pairs {
		info, err := os.Stat(pair.Source)
		require.NoError(t, err)
		assert.True(t, info.Mode().IsRegular(), "pair source %s must be a regular file", pair.Source)

		rel, err := filepath.Rel(root, pair.Source)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dest, rel), pair.Target)
	}
}

// A second apply over an unchanged tree must skip every file, not
// error: idempotence holds through the whole pipeline, not just the
// reconciler.
func TestApplyPairs_SecondRunSkips(t *testing.T) {
	ctx, root, dest, tracked := syncFixture(t)
	runner := &operation.Runner{Reconciler: &operation.Reconciler{Root: root, Tracked: tracked}}

	first := runner.Run(ctx, syncPairs(ctx, t, false, root, dest, tracked))
	require.Equal(t, 3, first.Processed)
	require.Zero(t, first.Errors)

	second := runner.Run(ctx, syncPairs(ctx, t, false, root, dest, tracked))
	assert.Zero(t, second.Processed)
	assert.Zero(t, second.Errors)
	assert.Equal(t, 3, second.Skipped)
	for _, out := range second.Outcomes {
		assert.Contains(t, out.Outcome.Message, "same - skipped")
	}
}

// Reverse mode swaps each per-file pair and must work on the first run:
// unchanged files skip, an edited target file flows back to the source.
func TestApplyPairs_ReverseFlowsFilesBack(t *testing.T) {
	ctx, root, dest, tracked := syncFixture(t)

	forward := &operation.Runner{Reconciler: &operation.Reconciler{Root: root, Tracked: tracked}}
	require.Zero(t, forward.Run(ctx, syncPairs(ctx, t, false, root, dest, tracked)).Errors)

	edited := filepath.Join(dest, "libs", "admin", "main.py")
	require.NoError(t, os.WriteFile(edited, []byte("admin v2"), 0644))

	reverse := &operation.Runner{Reconciler: &operation.Reconciler{Root: dest, ReplaceExisting: true}}
	summary := reverse.Run(ctx, syncPairs(ctx, t, true, root, dest, tracked))

	assert.Zero(t, summary.Errors)
	data, err := os.ReadFile(filepath.Join(root, "libs", "admin", "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "admin v2", string(data))
}

// Without --replace-existing a reverse run over an unchanged mirror is
// a pure no-op: every file reports identical content, nothing errors.
func TestApplyPairs_ReverseUnchangedSkips(t *testing.T) {
	ctx, root, dest, tracked := syncFixture(t)

	forward := &operation.Runner{Reconciler: &operation.Reconciler{Root: root, Tracked: tracked}}
	require.Zero(t, forward.Run(ctx, syncPairs(ctx, t, false, root, dest, tracked)).Errors)

	reverse := &operation.Runner{Reconciler: &operation.Reconciler{Root: dest}}
	summary := reverse.Run(ctx, syncPairs(ctx, t, true, root, dest, tracked))

	assert.Zero(t, summary.Errors)
	assert.Zero(t, summary.Processed)
	assert.Equal(t, 3, summary.Skipped)
	for _, out := range summary.Outcomes {
		assert.Contains(t, out.Outcome.Message, "same - skipped")
	}
}
