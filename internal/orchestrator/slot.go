package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dusk-indust/snipaudit/internal/ctxlog"
	"github.com/dusk-indust/snipaudit/internal/tracing"
)

// WorkerSlot runs the AnalyzeFunc once for one slot index. Every failure
// inside the call, panics included, ends up in the slot's own result.
type WorkerSlot struct {
	index   int
	task    *Task
	analyze AnalyzeFunc
	hint    string
	state   atomic.Int32
}

func newWorkerSlot(index int, task *Task, analyze AnalyzeFunc, hint string) *WorkerSlot {
	return &WorkerSlot{
		index:   index,
		task:    task,
		analyze: analyze,
		hint:    hint,
	}
}

// Index returns the slot's position in the ResultSet.
func (s *WorkerSlot) Index() int { return s.index }

// State returns the current lifecycle state.
func (s *WorkerSlot) State() SlotState {
	return SlotState(s.state.Load())
}

// Run executes the slot and returns its result. It must be called at most once.
func (s *WorkerSlot) Run(ctx context.Context) SlotResult {
	s.state.Store(int32(SlotRunning))

	ctx = context.WithValue(ctx, slotKey, s.index)
	log := ctxlog.FromContext(ctx).With("slot", s.index)
	ctx = ctxlog.WithLogger(ctx, log)

	ctx, span := tracing.StartSpan(ctx, "fanout.slot")
	span.SetInt("slot", s.index)
	defer span.End()

	log.Info("slot started")

	report, err := s.invoke(ctx)
	if err != nil {
		serr := &SlotError{Slot: s.index, Kind: Classify(err), Err: err}
		if serr.Kind == KindConnectivity {
			serr.Hint = s.hint
		}
		s.state.Store(int32(SlotFailed))
		span.SetAttribute("error.kind", serr.Kind.String())
		span.SetStatus(serr)
		log.Warn("slot failed", "kind", serr.Kind.String(), "error", err)
		return failed(s.index, serr)
	}

	s.state.Store(int32(SlotSucceeded))
	span.SetStatus(nil)
	log.Info("slot finished", "bytes", len(report))
	return succeeded(s.index, report)
}

// invoke calls the AnalyzeFunc, turning a panic into an error.
func (s *WorkerSlot) invoke(ctx context.Context) (report string, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = ""
			err = fmt.Errorf("analyzer panicked: %v", r)
		}
	}()
	return s.analyze(ctx, s.task.Rules(), s.task.Document())
}
