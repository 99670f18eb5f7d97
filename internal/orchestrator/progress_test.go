package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter(1)
	defer pr.Close()

	ch := pr.Subscribe()
	want := ProgressEvent{RunID: "run-1", Slot: 3, Status: ProgressWorking}

	pr.Emit(want)

	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}

func TestProgressReporter_EmitWhenFull_DoesNotBlock(t *testing.T) {
	pr := NewProgressReporter(2)
	defer pr.Close()

	// Two slots buffer 8 events. Emitting 100 must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pr.Emit(ProgressEvent{Slot: i, Status: ProgressWorking})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked when the channel was full")
	}
}

func TestProgressReporter_Close_ChannelClosed(t *testing.T) {
	pr := NewProgressReporter(1)
	ch := pr.Subscribe()

	pr.Emit(ProgressEvent{Slot: 0, Status: ProgressComplete})
	pr.Close()

	var received []ProgressEvent
	for ev := range ch {
		received = append(received, ev)
	}
	require.Len(t, received, 1)
	assert.Equal(t, ProgressComplete, received[0].Status)
}

func TestProgressReporter_HoldsAWholeRun(t *testing.T) {
	const workers = 40
	pr := NewProgressReporter(workers)

	var events []ProgressEvent
	fanout := NewFanOut(func(ctx context.Context, rules, document string) (string, error) {
		if i, _ := SlotIndex(ctx); i%2 == 0 {
			return "", errors.New("bad plan")
		}
		return "ok", nil
	}, WithWorkers(workers), WithProgress(pr.Emit))

	task, err := NewTask("rules", "document")
	require.NoError(t, err)
	_, err = fanout.Run(context.Background(), task)
	require.NoError(t, err)
	pr.Close()

	for ev := range pr.Subscribe() {
		events = append(events, ev)
	}
	// Nothing consumed during the run, yet no event was dropped.
	require.Len(t, events, 3*workers)

	failed := 0
	for _, ev := range events {
		if ev.Status == ProgressFailed {
			failed++
		}
	}
	assert.Equal(t, workers/2, failed)
}

func TestNewProgressReporter_NonPositiveWorkers(t *testing.T) {
	pr := NewProgressReporter(-1)
	pr.Emit(ProgressEvent{Slot: 0, Status: ProgressPending})
	pr.Close()

	var got []ProgressEvent
	for ev := range pr.Subscribe() {
		got = append(got, ev)
	}
	assert.Len(t, got, 1)
}

func TestFormatProgress_AllStatuses(t *testing.T) {
	tests := []struct {
		name   string
		event  ProgressEvent
		expect string
	}{
		{
			name:   "pending",
			event:  ProgressEvent{Slot: 0, Status: ProgressPending},
			expect: "  ○ agent #1 (pending)",
		},
		{
			name:   "working",
			event:  ProgressEvent{Slot: 1, Status: ProgressWorking},
			expect: "  ● agent #2...",
		},
		{
			name:   "complete",
			event:  ProgressEvent{Slot: 2, Status: ProgressComplete},
			expect: "  ✓ agent #3 complete",
		},
		{
			name:   "failed",
			event:  ProgressEvent{Slot: 9, Status: ProgressFailed, Message: "timeout"},
			expect: "  ✗ agent #10 failed: timeout",
		},
		{
			name:   "unknown",
			event:  ProgressEvent{Slot: 0, Status: "paused"},
			expect: "  ? agent #1 (unknown status)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, FormatProgress(tt.event))
		})
	}
}
