package conductor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/transpile-pipeline/internal/debug"
	pipelineerrors "github.com/standardbeagle/transpile-pipeline/internal/errors"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
)

// Options configures one conductor run.
type Options struct {
	Oracle     Oracle
	Verifier   *Verifier
	ForceRetry bool

	// ParallelWorkers caps how many units within a batch transpile/verify
	// concurrently. Zero or negative means unbounded (errgroup's default).
	ParallelWorkers int
	// TranspileTimeout, if positive, bounds a single unit's Oracle.Transpile
	// call. Zero means no deadline beyond ctx's own.
	TranspileTimeout time.Duration
	// VerifyTimeout, if positive, bounds a single unit's Verifier.Verify call.
	VerifyTimeout time.Duration
}

// Run dispatches every batch in order against store, transpiling and
// verifying each unit with opts.Oracle/opts.Verifier. Units within a batch
// run concurrently; the conductor waits for every unit in a batch to settle
// before starting the next, since a later batch may depend on one of this
// batch's units. A single unit's failure is recorded on the blackboard and
// does not abort its batch siblings or the run.
func Run(ctx context.Context, store *Store, units map[string]unit.AtomicUnit, order unit.BuildOrder, opts Options) error {
	debug.LogConductor("starting dispatch for %d batch(es)", len(order.Batches))

	for i, batch := range order.Batches {
		debug.LogConductor("[batch %d/%d] processing %d unit(s)", i+1, len(order.Batches), len(batch.Units))

		g, gctx := errgroup.WithContext(ctx)
		if opts.ParallelWorkers > 0 {
			g.SetLimit(opts.ParallelWorkers)
		}
		for _, unitID := range batch.Units {
			u, ok := units[unitID]
			if !ok {
				debug.LogConductor("unit %q found in build order but not in units.json; skipping", unitID)
				continue
			}

			g.Go(func() error {
				if err := processUnit(gctx, store, opts, u); err != nil {
					debug.LogConductor("%v", pipelineerrors.NewItemError(pipelineerrors.ErrorTypeItem, u.ID, "process unit", err))
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return fmt.Errorf("batch %d: %w", i+1, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	debug.LogConductor("all batches processed")
	return nil
}

// processUnit carries one unit through create -> skip-check -> transpile ->
// verify -> final state, recording every transition on the blackboard.
func processUnit(ctx context.Context, store *Store, opts Options, u unit.AtomicUnit) error {
	if err := store.CreateTask(ctx, u.ID, u.ID); err != nil {
		return err
	}

	skip, err := store.ShouldSkip(ctx, u.ID, opts.ForceRetry)
	if err != nil {
		return err
	}
	if skip {
		debug.LogConductor(" - %s already in a terminal state, skipping", u.ID)
		return nil
	}

	if err := store.UpdateTaskState(ctx, u.ID, StateInProgress, "", ""); err != nil {
		return err
	}

	debug.LogConductorPhase("transpile", " - processing %s", u.ID)
	code, err := transpileWithTimeout(ctx, opts, u)
	if err != nil {
		debug.LogConductorPhase("transpile", " - failed for %s: %v", u.ID, err)
		return store.UpdateTaskState(ctx, u.ID, StateFailed, "", fmt.Sprintf("transpile: %v", err))
	}

	debug.LogConductorPhase("verify", " - transpiled %s, verifying", u.ID)
	if err := verifyWithTimeout(ctx, opts, u.ID, code); err != nil {
		debug.LogConductorPhase("verify", " - failed for %s: %v", u.ID, err)
		return store.UpdateTaskState(ctx, u.ID, StateFailed, code, fmt.Sprintf("verify: %v", err))
	}

	debug.LogConductorPhase("verify", " - verified %s", u.ID)
	return store.UpdateTaskState(ctx, u.ID, StateCompleted, code, "")
}

// transpileWithTimeout bounds the oracle call at opts.TranspileTimeout, if
// set, so a stuck oracle surfaces as a named-phase failure instead of
// hanging the whole batch.
func transpileWithTimeout(ctx context.Context, opts Options, u unit.AtomicUnit) (string, error) {
	if opts.TranspileTimeout <= 0 {
		return opts.Oracle.Transpile(ctx, u)
	}
	tctx, cancel := context.WithTimeout(ctx, opts.TranspileTimeout)
	defer cancel()
	code, err := opts.Oracle.Transpile(tctx, u)
	if err != nil && tctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("timed out after %s: %w", opts.TranspileTimeout, tctx.Err())
	}
	return code, err
}

// verifyWithTimeout bounds the verifier subprocess at opts.VerifyTimeout, if
// set.
func verifyWithTimeout(ctx context.Context, opts Options, unitID, code string) error {
	if opts.VerifyTimeout <= 0 {
		return opts.Verifier.Verify(ctx, unitID, code)
	}
	vctx, cancel := context.WithTimeout(ctx, opts.VerifyTimeout)
	defer cancel()
	err := opts.Verifier.Verify(vctx, unitID, code)
	if err != nil && vctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("timed out after %s: %w", opts.VerifyTimeout, vctx.Err())
	}
	return err
}
