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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/arboribus/pkg/checksum"
	"github.com/walteh/arboribus/pkg/gitindex"
	"gitlab.com/tozd/go/errors"
)

// Recoverable per-path failure categories. They are carried inside an
// Outcome, never raised past the batch loop.
var (
	ErrDirectoryCreation = errors.New("directory creation failed")
	ErrCopy              = errors.New("copy failed")
	ErrRemoval           = errors.New("removal failed")
)

// 📦 Outcome is the per-path result of a reconcile. Processed means a
// mutation occurred (or would occur, in dry-run); a false Processed
// with a nil Err is an intentional skip.
type Outcome struct {
	Processed bool
	Message   string
	Err       error
}

// 🎯 Reconciler applies the copy/skip/replace/error policy to one
// source path at a time. It carries no mutable state, the same value
// can be shared across a worker pool.
type Reconciler struct {
	// Root is the source root all relative paths are computed against.
	Root string
	// Tracked filters paths against the git index. Nil disables
	// filtering.
	Tracked *gitindex.TrackedSet
	// DryRun reports what would happen without touching the target.
	DryRun bool
	// ReplaceExisting overwrites content-different targets without a
	// second checksum check.
	ReplaceExisting bool
}

// 🚦 Reconcile dispatches one source path to the file or directory
// branch. A source that is neither yields an explanatory skip.
func (r *Reconciler) Reconcile(ctx context.Context, source, target string) Outcome {
	info, err := os.Stat(source)
	switch {
	case err == nil && info.Mode().IsRegular():
		return r.reconcileFile(ctx, source, target)
	case err == nil && info.IsDir():
		return r.reconcileDir(ctx, source, target)
	default:
		return Outcome{Message: fmt.Sprintf("%s (not a file or directory)", r.rel(source))}
	}
}

// reconcileFile is the file-branch state machine. Content-equal files
// are never rewritten on the no-replace path; under ReplaceExisting a
// content-different target is overwritten without reconfirmation.
func (r *Reconciler) reconcileFile(ctx context.Context, source, target string) Outcome {
	logger := zerolog.Ctx(ctx)
	rel := r.rel(source)
	disp := displayTarget(target)

	if !r.Tracked.ContainsFile(rel) {
		return Outcome{Message: fmt.Sprintf("%s -> %s (filtered out - not git-tracked)", rel, disp)}
	}

	_, statErr := os.Stat(target)
	targetExists := statErr == nil

	if targetExists {
		if !r.ReplaceExisting {
			if checksum.SameContent(source, target) {
				return Outcome{Message: fmt.Sprintf("%s -> %s (same - skipped)", rel, disp)}
			}
			return Outcome{Message: fmt.Sprintf("%s -> %s (exists - skipped, use --replace-existing)", rel, disp)}
		}
		if r.DryRun {
			return Outcome{Processed: true, Message: fmt.Sprintf("%s -> %s (would replace existing)", rel, disp)}
		}
	} else if r.DryRun {
		return Outcome{Processed: true, Message: fmt.Sprintf("%s -> %s (would copy)", rel, disp)}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Outcome{
			Message: fmt.Sprintf("%s -> %s (mkdir error: %v)", rel, disp, err),
			Err:     errors.Errorf("%w: %w", ErrDirectoryCreation, err),
		}
	}

	if err := copyFile(source, target); err != nil {
		return Outcome{
			Message: fmt.Sprintf("%s -> %s (error: %v)", rel, disp, err),
			Err:     errors.Errorf("%w: %w", ErrCopy, err),
		}
	}

	logger.Debug().Str("source", rel).Str("target", target).Msg("copied file")

	if targetExists && r.ReplaceExisting {
		return Outcome{Processed: true, Message: fmt.Sprintf("%s -> %s (replaced)", rel, disp)}
	}
	return Outcome{Processed: true, Message: fmt.Sprintf("%s -> %s (copied)", rel, disp)}
}

// reconcileDir is the directory-branch state machine.
func (r *Reconciler) reconcileDir(ctx context.Context, source, target string) Outcome {
	logger := zerolog.Ctx(ctx)
	rel := r.rel(source)
	disp := displayTarget(target)

	if !r.Tracked.ContainsDir(rel) {
		return Outcome{Message: fmt.Sprintf("%s -> %s (filtered out - no git-tracked files)", rel, disp)}
	}

	if r.DryRun {
		return Outcome{Processed: true, Message: fmt.Sprintf("%s -> %s (would sync directory)", rel, disp)}
	}

	if _, err := os.Stat(target); err == nil && r.ReplaceExisting {
		if err := os.RemoveAll(target); err != nil {
			return Outcome{
				Message: fmt.Sprintf("%s -> %s (rmtree error: %v)", rel, disp, err),
				Err:     errors.Errorf("%w: %w", ErrRemoval, err),
			}
		}
	}

	if err := copyTree(source, target, r.ReplaceExisting, r.excludeUntracked); err != nil {
		return Outcome{
			Message: fmt.Sprintf("%s -> %s (error: %v)", rel, disp, err),
			Err:     errors.Errorf("%w: %w", ErrCopy, err),
		}
	}

	logger.Debug().Str("source", rel).Str("target", target).Msg("synced directory")
	return Outcome{Processed: true, Message: fmt.Sprintf("%s -> %s (synced directory)", rel, disp)}
}

// excludeUntracked is the tree-copy predicate: a file is excluded when
// a tracked set is present and its root-relative path is not a member.
// Directories are never excluded here, only files.
func (r *Reconciler) excludeUntracked(path string) bool {
	if r.Tracked == nil {
		return false
	}
	return !r.Tracked.ContainsFile(r.rel(path))
}

// rel returns path relative to the source root, slash-separated.
func (r *Reconciler) rel(path string) string {
	rel, err := filepath.Rel(r.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// displayTarget shortens a target path for outcome messages: the last
// two components when the target's grandparent directory exists on
// disk, the bare basename otherwise.
func displayTarget(target string) string {
	grand := filepath.Dir(filepath.Dir(target))
	if info, err := os.Stat(grand); err == nil && info.IsDir() {
		if rel, err := filepath.Rel(grand, target); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(target)
}
