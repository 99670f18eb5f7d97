package orchestrator

import (
	"context"
	"strings"
)

// Task is the immutable (rules, document) pair every slot of a run analyzes.
type Task struct {
	rules    string
	document string
}

// NewTask returns a Task for the given texts. A blank rules or document text
// is reported as a *PreconditionError naming the missing source.
func NewTask(rules, document string) (*Task, error) {
	if strings.TrimSpace(rules) == "" {
		return nil, &PreconditionError{Source: SourceRules, Err: ErrEmptySource}
	}
	if strings.TrimSpace(document) == "" {
		return nil, &PreconditionError{Source: SourceDocument, Err: ErrEmptySource}
	}
	return &Task{rules: rules, document: document}, nil
}

// Rules returns the rules text.
func (t *Task) Rules() string { return t.rules }

// Document returns the document text.
func (t *Task) Document() string { return t.document }

// AnalyzeFunc audits document against rules and returns a textual report.
// It may block for an unbounded time and must be safe for concurrent use.
type AnalyzeFunc func(ctx context.Context, rules, document string) (string, error)

type ctxKey int

const (
	slotKey ctxKey = iota
	runKey
)

// SlotIndex returns the index of the slot executing under ctx. AnalyzeFuncs
// use it to tag their own output.
func SlotIndex(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(slotKey).(int)
	return i, ok
}

// WithRunID attaches a caller-chosen run identifier. FanOut.Run generates
// one when ctx carries none.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runKey, id)
}

// RunID returns the run identifier attached to ctx, if any.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runKey).(string)
	return id, ok && id != ""
}
