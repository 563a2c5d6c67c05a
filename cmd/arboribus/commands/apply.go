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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/arboribus/cmd/arboribus/opts"
	"github.com/walteh/arboribus/pkg/config"
	"github.com/walteh/arboribus/pkg/gitindex"
	"github.com/walteh/arboribus/pkg/log"
	"github.com/walteh/arboribus/pkg/operation"
	"github.com/walteh/arboribus/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// confirmThreshold is the file count above which apply asks before
// touching the filesystem.
const confirmThreshold = 1000

// 🔧 applyFlags holds the apply command's flags
type applyFlags struct {
	reverse         bool
	dry             bool
	filter          string
	limit           int
	statsOnly       bool
	includeFiles    bool
	replaceExisting bool
	workers         int
}

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply sync rules and mirror matched paths to their targets",
		Long: `Apply resolves every target's patterns against the source root and
reconciles each matched path with its destination. Only git-tracked
paths participate when the source root is a git repository. Use --dry
to preview, --reverse to pull changes back from targets into the
source.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			root, err := sourceRoot(o)
			if err != nil {
				return err
			}

			cfg, err := config.Load(ctx, root)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if len(cfg.Targets) == 0 {
				o.Console.Warning("No targets configured, run 'arboribus init' first.")
				return nil
			}

			tracked := gitindex.NewProvider().TrackedSet(ctx, root)
			if tracked == nil {
				o.Console.Warning("Source is not a git repository, syncing all matched paths.")
			}

			for _, name := range cfg.TargetNames() {
				if err := applyTarget(ctx, flags, root, name, cfg.Targets[name], tracked); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.reverse, "reverse", false, "sync from targets back into the source")
	cmd.Flags().BoolVar(&flags.dry, "dry", false, "preview without writing anything")
	cmd.Flags().StringVarP(&flags.filter, "filter", "f", "", "only apply patterns matching this substring or glob")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", 100, "maximum preview rows to display")
	cmd.Flags().BoolVar(&flags.statsOnly, "stats-only", false, "show statistics and stop")
	cmd.Flags().BoolVar(&flags.includeFiles, "include-files", false, "let patterns match individual files, not just directories")
	cmd.Flags().BoolVar(&flags.replaceExisting, "replace-existing", false, "overwrite targets that already exist")
	cmd.Flags().IntVar(&flags.workers, "workers", 1, "concurrent reconcile workers")

	return cmd
}

// applyTarget runs the full resolve/preview/reconcile pipeline for one
// named target.
func applyTarget(ctx context.Context, flags *applyFlags, root, name string, target *config.Target, tracked *gitindex.TrackedSet) error {
	console := log.FromContext(ctx)

	patterns := filterPatterns(target.Patterns, flags.filter)
	if len(patterns) == 0 {
		console.Warningf("Target '%s' has no patterns to apply.", name)
		return nil
	}

	resolved := resolve.Patterns(ctx, root, patterns, resolve.Options{
		ExcludePrefixes: target.ExcludePatterns,
		Tracked:         tracked,
		IncludeFiles:    flags.includeFiles,
	})
	if len(resolved) == 0 {
		console.Warningf("No paths matched for target '%s'.", name)
		return nil
	}

	stats := resolve.Statistics(resolved, root, tracked)
	renderStats(name, stats)
	if flags.statsOnly {
		return nil
	}

	files := flattenFiles(resolved, root, tracked)
	renderPreview(flags, root, target.Path, files)

	totalFiles := stats[resolve.StatTotalFiles]
	if totalFiles > confirmThreshold && !flags.dry {
		confirmed, _ := pterm.DefaultInteractiveConfirm.
			Show(fmt.Sprintf("About to sync %d files for target '%s', continue?", totalFiles, name))
		if !confirmed {
			console.Warningf("Skipped target '%s'.", name)
			return nil
		}
	}

	console.StartTarget(ctx, log.TargetRun{
		Name:        name,
		Destination: target.Path,
		DryRun:      flags.dry,
	})

	pairs := buildPairs(flags.reverse, root, target.Path, files)

	reconciler := &operation.Reconciler{
		Root:            root,
		Tracked:         tracked,
		DryRun:          flags.dry,
		ReplaceExisting: flags.replaceExisting,
	}
	if flags.reverse {
		// In reverse mode paths flow out of the target tree; the git
		// index of the source has no say over what comes back.
		reconciler.Root = target.Path
		reconciler.Tracked = nil
	}

	runner := &operation.Runner{
		Reconciler: reconciler,
		Workers:    flags.workers,
		OnOutcome:  outcomeHandler(ctx, flags, console, reconciler.Root, len(pairs)),
	}

	summary := runner.Run(ctx, pairs)
	console.EndTarget(ctx, summary.Processed, summary.Skipped, summary.Errors)
	console.LogNewline()
	return nil
}

// filterPatterns keeps the patterns selected by --filter: a substring
// match or a glob match, either way it stays in.
func filterPatterns(patterns []string, filter string) []string {
	if filter == "" {
		return patterns
	}
	var kept []string
	for _, pattern := range patterns {
		if strings.Contains(pattern, filter) {
			kept = append(kept, pattern)
			continue
		}
		if ok, err := doublestar.Match(filter, pattern); err == nil && ok {
			kept = append(kept, pattern)
		}
	}
	return kept
}

// renderStats prints the per-extension file count table for a target.
func renderStats(name string, stats map[string]int) {
	data := pterm.TableData{{"Extension", "Count"}}

	exts := make([]string, 0, len(stats))
	for ext := range stats {
		if ext == resolve.StatTotalFiles || ext == resolve.StatTotalDirs {
			continue
		}
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	for _, ext := range exts {
		data = append(data, []string{ext, strconv.Itoa(stats[ext])})
	}
	data = append(data,
		[]string{resolve.StatTotalDirs, strconv.Itoa(stats[resolve.StatTotalDirs])},
		[]string{resolve.StatTotalFiles, strconv.Itoa(stats[resolve.StatTotalFiles])},
	)

	pterm.DefaultSection.Println("Statistics for " + name)
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// flattenFiles expands the resolved path set into the flat list of
// files to sync: regular files as themselves, directories through the
// recursive collector. The reconcile loop, the preview, and the
// progress bar all run at this per-file granularity.
func flattenFiles(resolved []string, root string, tracked *gitindex.TrackedSet) []string {
	var files []string
	for _, path := range resolved {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			continue
		case info.Mode().IsRegular():
			files = append(files, path)
		case info.IsDir():
			files = append(files, resolve.CollectFiles(path, root, tracked)...)
		}
	}
	return files
}

// renderPreview prints the first --limit files with their destinations.
func renderPreview(flags *applyFlags, root, destRoot string, files []string) {
	data := pterm.TableData{{"Type", "Path", "Target", "Size"}}

	shown := 0
	for _, path := range files {
		if shown >= flags.limit {
			break
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		data = append(data, []string{"file", rel, filepath.Join(destRoot, rel), humanSize(info.Size())})
		shown++
	}
	if len(files) > flags.limit {
		data = append(data, []string{"...", fmt.Sprintf("%d more", len(files)-flags.limit), "", ""})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// buildPairs maps source files onto their destinations, swapping
// direction for reverse mode.
func buildPairs(reverse bool, root, destRoot string, files []string) []operation.Pair {
	pairs := make([]operation.Pair, 0, len(files))
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		dest := filepath.Join(destRoot, rel)
		if reverse {
			pairs = append(pairs, operation.Pair{Source: dest, Target: path})
		} else {
			pairs = append(pairs, operation.Pair{Source: path, Target: dest})
		}
	}
	return pairs
}

// outcomeHandler wires runner outcomes into the console: dry runs print
// every per-path message, real runs drive a progress bar and only
// surface failures.
func outcomeHandler(ctx context.Context, flags *applyFlags, console *log.Logger, root string, total int) func(out operation.PathOutcome, done, total int) {
	if flags.dry {
		return func(out operation.PathOutcome, done, total int) {
			console.LogPathEvent(ctx, pathEvent(root, out))
		}
	}

	bar, _ := pterm.DefaultProgressbar.WithTotal(total).WithTitle("Syncing").Start()
	return func(out operation.PathOutcome, done, total int) {
		if out.Outcome.Err != nil {
			console.LogPathEvent(ctx, pathEvent(root, out))
		}
		bar.Increment()
		if done == total {
			_, _ = bar.Stop()
		}
	}
}

// pathEvent splits an outcome message into the path and status columns
// the console logger lays out. Messages carry the status as a trailing
// parenthetical.
func pathEvent(root string, out operation.PathOutcome) log.PathEvent {
	rel, err := filepath.Rel(root, out.Pair.Source)
	if err != nil {
		rel = out.Pair.Source
	}

	status := out.Outcome.Message
	if idx := strings.LastIndex(status, "("); idx >= 0 {
		status = status[idx:]
	}

	return log.PathEvent{
		Path:      filepath.ToSlash(rel),
		Message:   status,
		Processed: out.Outcome.Processed,
		Failed:    out.Outcome.Err != nil,
	}
}
