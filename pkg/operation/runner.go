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
	stdsync "sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// 📦 Pair is one (source, target) reconciliation unit.
type Pair struct {
	Source string
	Target string
}

// 📦 PathOutcome couples a pair with its reconcile result.
type PathOutcome struct {
	Pair    Pair
	Outcome Outcome
}

// 📊 Summary aggregates a batch run. Processed + Skipped + Errors
// equals the number of pairs handled.
type Summary struct {
	Processed int
	Skipped   int
	Errors    int
	Outcomes  []PathOutcome
}

// 🏃 Runner drives the per-file reconcile loop. With Workers > 1 the
// loop runs on an errgroup pool; each pair stays atomic with respect to
// its own target and no completion order is guaranteed.
type Runner struct {
	Reconciler *Reconciler
	// Workers caps concurrent reconciles. Values below 2 mean the
	// original sequential loop.
	Workers int
	// OnOutcome, if set, is called once per pair with the running
	// completion count. Calls are serialized.
	OnOutcome func(out PathOutcome, done, total int)
}

// 🏃 Run reconciles every pair and tallies the outcomes. One failing
// path never aborts the batch; cancellation marks the remaining pairs
// as skipped.
func (r *Runner) Run(ctx context.Context, pairs []Pair) Summary {
	outcomes := make([]PathOutcome, len(pairs))

	if r.Workers > 1 {
		r.runPool(ctx, pairs, outcomes)
	} else {
		r.runSequential(ctx, pairs, outcomes)
	}

	summary := Summary{Outcomes: outcomes}
	for _, out := range outcomes {
		switch {
		case out.Outcome.Processed:
			summary.Processed++
		case out.Outcome.Err != nil:
			summary.Errors++
		default:
			summary.Skipped++
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("batch complete")

	return summary
}

func (r *Runner) runSequential(ctx context.Context, pairs []Pair, outcomes []PathOutcome) {
	for i, pair := range pairs {
		outcomes[i] = r.reconcileOne(ctx, pair)
		if r.OnOutcome != nil {
			r.OnOutcome(outcomes[i], i+1, len(pairs))
		}
	}
}

func (r *Runner) runPool(ctx context.Context, pairs []Pair, outcomes []PathOutcome) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)

	var mu stdsync.Mutex
	done := 0

	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			out := r.reconcileOne(ctx, pair)

			mu.Lock()
			outcomes[i] = out
			done++
			if r.OnOutcome != nil {
				r.OnOutcome(out, done, len(pairs))
			}
			mu.Unlock()
			return nil
		})
	}

	// workers never return errors, outcomes carry them
	_ = g.Wait()
}

func (r *Runner) reconcileOne(ctx context.Context, pair Pair) PathOutcome {
	if err := ctx.Err(); err != nil {
		return PathOutcome{Pair: pair, Outcome: Outcome{
			Message: fmt.Sprintf("%s (cancelled)", r.Reconciler.rel(pair.Source)),
		}}
	}
	return PathOutcome{Pair: pair, Outcome: r.Reconciler.Reconcile(ctx, pair.Source, pair.Target)}
}
