package orchestrator

import "fmt"

// ProgressEvent reports a slot's progress during a run.
type ProgressEvent struct {
	RunID   string
	Slot    int
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of a slot as seen by progress consumers.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// eventsPerSlot is how many events a slot emits in one run: pending,
// working and a terminal one, with one spare.
const eventsPerSlot = 4

// ProgressReporter buffers the progress of one run on a channel sized so
// that a run of its worker count never fills it.
type ProgressReporter struct {
	events chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter for a run of workers slots.
func NewProgressReporter(workers int) *ProgressReporter {
	return &ProgressReporter{
		events: make(chan ProgressEvent, eventsPerSlot*max(workers, 1)),
	}
}

// Emit queues event. It never blocks: when a consumer has fallen a whole
// buffer behind, the event is dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.events <- event:
	default:
	}
}

// Subscribe returns the event stream. It ends after Close.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent { return pr.events }

// Close ends the stream. No Emit may follow it.
func (pr *ProgressReporter) Close() { close(pr.events) }

// FormatProgress formats a ProgressEvent as a human-readable status line.
// Slots are numbered from 1.
func FormatProgress(event ProgressEvent) string {
	name := fmt.Sprintf("agent #%d", event.Slot+1)
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", name)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", name)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s complete", name)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", name, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", name)
	}
}
