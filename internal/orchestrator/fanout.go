package orchestrator

import (
	"context"
	"fmt"

	"github.com/dusk-indust/snipaudit/internal/ctxlog"
	"github.com/dusk-indust/snipaudit/internal/tracing"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of slots a FanOut runs when not configured.
const DefaultWorkers = 10

// Option configures a FanOut.
type Option func(*FanOut)

// WithWorkers sets the number of slots, which is also the concurrency limit.
func WithWorkers(n int) Option {
	return func(f *FanOut) {
		f.workers = n
	}
}

// WithConnectivityHint replaces DefaultConnectivityHint.
func WithConnectivityHint(hint string) Option {
	return func(f *FanOut) {
		f.hint = hint
	}
}

// WithProgress registers a callback invoked synchronously from each slot's
// goroutine. It must be safe for concurrent use.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(f *FanOut) {
		f.onProgress = fn
	}
}

// FanOut runs the same Task on a fixed number of worker slots and collects
// every result in slot order.
type FanOut struct {
	analyze    AnalyzeFunc
	workers    int
	hint       string
	onProgress func(ProgressEvent)
}

// NewFanOut creates a FanOut that analyzes with analyze.
func NewFanOut(analyze AnalyzeFunc, opts ...Option) *FanOut {
	f := &FanOut{
		analyze: analyze,
		workers: DefaultWorkers,
		hint:    DefaultConnectivityHint,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Workers returns the configured number of slots.
func (f *FanOut) Workers() int { return f.workers }

// Run dispatches one slot per worker against task and blocks until every
// slot has succeeded or failed. Slot failures are recorded in the returned
// ResultSet; the only errors Run returns are *PreconditionError and
// *LaunchError, both before any slot starts.
//
// Dispatched slots are not canceled when ctx is: they run on a context that
// keeps ctx's values but drops its cancellation.
func (f *FanOut) Run(ctx context.Context, task *Task) (ResultSet, error) {
	if task == nil {
		return nil, &PreconditionError{Source: SourceTask, Err: ErrNoTask}
	}
	if f.analyze == nil {
		return nil, &LaunchError{Workers: f.workers, Reason: "no analyze function"}
	}
	if f.workers < 1 {
		return nil, &LaunchError{Workers: f.workers, Reason: "at least one worker is required"}
	}

	runID, ok := RunID(ctx)
	if !ok {
		runID = uuid.NewString()
	}
	ctx = WithRunID(context.WithoutCancel(ctx), runID)

	log := ctxlog.FromContext(ctx).With("run", runID)
	ctx = ctxlog.WithLogger(ctx, log)

	ctx, span := tracing.StartSpan(ctx, "fanout.run")
	span.SetAttribute("run.id", runID).SetInt("workers", f.workers)
	defer span.End()

	slots := make([]*WorkerSlot, f.workers)
	for i := range slots {
		slots[i] = newWorkerSlot(i, task, f.analyze, f.hint)
		f.emit(ProgressEvent{RunID: runID, Slot: i, Status: ProgressPending})
	}

	log.Info("dispatching slots", "workers", f.workers)

	results := make(ResultSet, f.workers)
	var g errgroup.Group
	g.SetLimit(f.workers)

	for i, slot := range slots {
		g.Go(func() error {
			f.emit(ProgressEvent{RunID: runID, Slot: i, Status: ProgressWorking})

			res := slot.Run(ctx)
			results[i] = res

			if res.OK() {
				f.emit(ProgressEvent{RunID: runID, Slot: i, Status: ProgressComplete})
			} else {
				f.emit(ProgressEvent{RunID: runID, Slot: i, Status: ProgressFailed, Message: res.Err.Error()})
			}
			// Slot failures are data; returning nil keeps siblings running.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Unreachable: no slot goroutine returns an error.
		return results, fmt.Errorf("fanout: join: %w", err)
	}

	span.SetStatus(nil)
	log.Info("all slots finished", "succeeded", results.Succeeded(), "failed", results.Failed())
	return results, nil
}

// emit sends a progress event if a callback is registered. A panicking
// callback is dropped so that it cannot take a slot down.
func (f *FanOut) emit(ev ProgressEvent) {
	if f.onProgress == nil {
		return
	}
	defer func() { _ = recover() }()
	f.onProgress(ev)
}
