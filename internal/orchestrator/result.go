package orchestrator

// SlotState is the lifecycle state of a worker slot.
type SlotState int32

const (
	SlotCreated SlotState = iota
	SlotRunning
	SlotSucceeded
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotCreated:
		return "created"
	case SlotRunning:
		return "running"
	case SlotSucceeded:
		return "succeeded"
	case SlotFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is possible.
func (s SlotState) IsTerminal() bool {
	return s == SlotSucceeded || s == SlotFailed
}

// SlotResult is the outcome of one slot. Status is SlotSucceeded with Report
// set, or SlotFailed with Err set.
type SlotResult struct {
	Index  int
	Status SlotState
	Report string
	Err    *SlotError
}

func succeeded(index int, report string) SlotResult {
	return SlotResult{Index: index, Status: SlotSucceeded, Report: report}
}

func failed(index int, err *SlotError) SlotResult {
	return SlotResult{Index: index, Status: SlotFailed, Err: err}
}

// OK reports whether the slot succeeded.
func (r SlotResult) OK() bool {
	return r.Status == SlotSucceeded
}

// Message returns the report of a successful slot or the error message of a
// failed one.
func (r SlotResult) Message() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Report
}

// ResultSet holds one SlotResult per slot, indexed by slot.
type ResultSet []SlotResult

// Succeeded counts successful slots.
func (rs ResultSet) Succeeded() int {
	n := 0
	for _, r := range rs {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed counts failed slots.
func (rs ResultSet) Failed() int {
	return len(rs) - rs.Succeeded()
}
