package orchestrator

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Source names used in PreconditionError.
const (
	SourceTask     = "task"
	SourceRules    = "rules"
	SourceDocument = "document"
)

// DefaultConnectivityHint is appended to the message of a slot that failed
// because the analysis backend could not be reached.
const DefaultConnectivityHint = "HINT: make sure the Ollama server is running (`ollama serve`) " +
	"and the audit model has been pulled (`ollama pull <model>`)."

var (
	// ErrEmptySource is the cause of a PreconditionError for blank input text.
	ErrEmptySource = errors.New("source is empty")

	// ErrNoTask is the cause of a PreconditionError when Run receives no task.
	ErrNoTask = errors.New("no task to dispatch")
)

// PreconditionError reports required input missing before dispatch. Nothing
// has run when it is returned.
type PreconditionError struct {
	Source string // SourceRules, SourceDocument or SourceTask
	URL    string // location that was read, if any
	Err    error
}

func (e *PreconditionError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("precondition: %s source %s: %v", e.Source, e.URL, e.Err)
	}
	return fmt.Sprintf("precondition: %s source: %v", e.Source, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// LaunchError reports that the worker pool could not be started. Nothing has
// run when it is returned.
type LaunchError struct {
	Workers int
	Reason  string
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch: cannot start %d workers: %s", e.Workers, e.Reason)
}

// ErrorKind classifies a slot failure.
type ErrorKind int

const (
	// KindAnalysis is any failure produced while analyzing.
	KindAnalysis ErrorKind = iota

	// KindConnectivity means the analysis backend could not be reached.
	KindConnectivity
)

func (k ErrorKind) String() string {
	switch k {
	case KindAnalysis:
		return "analysis"
	case KindConnectivity:
		return "connectivity"
	default:
		return "unknown"
	}
}

// SlotError is the failure recorded in a slot's result. It never escapes the
// orchestrator as a returned error.
type SlotError struct {
	Slot int
	Kind ErrorKind
	Hint string // set for KindConnectivity only
	Err  error
}

func (e *SlotError) Error() string {
	msg := fmt.Sprintf("slot %d: %v", e.Slot, e.Err)
	if e.Kind == KindConnectivity && e.Hint != "" {
		msg += "\n\n" + e.Hint
	}
	return msg
}

func (e *SlotError) Unwrap() error { return e.Err }

// unreachable is implemented by backend errors that know they stem from a
// failed connection.
type unreachable interface {
	Unreachable() bool
}

// Classify decides whether err means the backend was unreachable.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindAnalysis
	}

	var u unreachable
	if errors.As(err, &u) && u.Unreachable() {
		return KindConnectivity
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindConnectivity
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindConnectivity
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return KindConnectivity
	}
	if strings.Contains(strings.ToLower(err.Error()), "connection refused") {
		return KindConnectivity
	}
	return KindAnalysis
}
