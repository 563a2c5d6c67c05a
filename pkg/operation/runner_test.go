package operation_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/arboribus/pkg/operation"
)

func TestRunner_SequentialSummary(t *testing.T) {
	ctx, root, targetRoot := testEnv(t)

	writeFile(t, filepath.Join(root, "new.txt"), "n")
	writeFile(t, filepath.Join(root, "same.txt"), "s")
	writeFile(t, filepath.Join(targetRoot, "same.txt"), "s")

	pairs := []operation.Pair{
		{Source: filepath.Join(root, "new.txt"), Target: filepath.Join(targetRoot, "new.txt")},
		{Source: filepath.Join(root, "same.txt"), Target: filepath.Join(targetRoot, "same.txt")},
		{Source: filepath.Join(root, "ghost.txt"), Target: filepath.Join(targetRoot, "ghost.txt")},
	}

	runner := &operation.Runner{Reconciler: &operation.Reconciler{Root: root}}
	summary := runner.Run(ctx, pairs)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 2, summary.Skipped) // same-content skip + not-a-file skip
	assert.Equal(t, 0, summary.Errors)
	require.Len(t, summary.Outcomes, 3)
	assert.Equal(t, pairs[0], summary.Outcomes[0].Pair)
}

func TestRunner_ProgressCallback(t *testing.T) {
	ctx, root, targetRoot := testEnv(t)

	var pairs []operation.Pair
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, filepath.Join(root, name), name)
		pairs = append(pairs, operation.Pair{
			Source: filepath.Join(root, name),
			Target: filepath.Join(targetRoot, name),
		})
	}

	var calls []int
	runner := &operation.Runner{
		Reconciler: &operation.Reconciler{Root: root},
		OnOutcome: func(out operation.PathOutcome, done, total int) {
			assert.Equal(t, 3, total)
			calls = append(calls, done)
		},
	}
	summary := runner.Run(ctx, pairs)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestRunner_WorkerPool(t *testing.T) {
	ctx, root, targetRoot := testEnv(t)

	var pairs []operation.Pair
	for i := 0; i < 32; i++ {
		name := filepath.Join("libs", string(rune('a'+i%8)), "f"+string(rune('0'+i/8))+".txt")
		writeFile(t, filepath.Join(root, name), name)
		pairs = append(pairs, operation.Pair{
			Source: filepath.Join(root, name),
			Target: filepath.Join(targetRoot, name),
		})
	}

	var mu sync.Mutex
	seen := 0
	runner := &operation.Runner{
		Reconciler: &operation.Reconciler{Root: root},
		Workers:    4,
		OnOutcome: func(out operation.PathOutcome, done, total int) {
			mu.Lock()
			seen++
			mu.Unlock()
		},
	}
	summary := runner.Run(ctx, pairs)

	assert.Equal(t, 32, summary.Processed)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 32, seen)

	// every outcome lands at its input index regardless of completion order
	for i, out := range summary.Outcomes {
		assert.Equal(t, pairs[i], out.Pair)
	}
}

func TestRunner_CancelledContextSkipsRemaining(t *testing.T) {
	_, root, targetRoot := testEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writeFile(t, filepath.Join(root, "a.txt"), "a")
	pairs := []operation.Pair{
		{Source: filepath.Join(root, "a.txt"), Target: filepath.Join(targetRoot, "a.txt")},
	}

	runner := &operation.Runner{Reconciler: &operation.Reconciler{Root: root}}
	summary := runner.Run(ctx, pairs)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, summary.Outcomes[0].Outcome.Message, "cancelled")
	assert.NoFileExists(t, filepath.Join(targetRoot, "a.txt"))
}

func TestRunner_EmptyBatch(t *testing.T) {
	ctx, root, _ := testEnv(t)

	runner := &operation.Runner{Reconciler: &operation.Reconciler{Root: root}}
	summary := runner.Run(ctx, nil)

	assert.Zero(t, summary.Processed)
	assert.Zero(t, summary.Skipped)
	assert.Zero(t, summary.Errors)
	assert.Empty(t, summary.Outcomes)
}
