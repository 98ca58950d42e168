// Package breakpoints tracks the install lifecycle of the breakpoints
// the session places on every discovered function.
package breakpoints

import (
	"sort"

	"github.com/mrzor/stack-tracer/internal/symbols"
)

// State is a breakpoint's position in the install lifecycle.
type State int

const (
	// Queued means the install command has not been written yet.
	Queued State = iota
	// Sent means the install command was written and no confirmation has
	// arrived. At most one breakpoint is Sent at any time.
	Sent
	// Confirmed means the debugger acknowledged the breakpoint.
	Confirmed
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Sent:
		return "sent"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Breakpoint is one address the debugger is instructed to stop at.
// File and Line are filled in from the debugger's confirmation.
type Breakpoint struct {
	ID       int
	Addr     uint64
	FuncName string
	File     string
	Line     int
	State    State
}

// Queue is the ordered install work list, ascending by address. IDs are
// assigned 1..n in install order, matching the numbering the debugger is
// expected to use.
type Queue struct {
	pending []*Breakpoint
	sent    *Breakpoint
	all     []*Breakpoint
}

// NewQueue builds the install queue from resolved symbols.
func NewQueue(syms []symbols.Symbol) *Queue {
	sorted := make([]symbols.Symbol, len(syms))
	copy(sorted, syms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Addr < sorted[j].Addr })

	q := &Queue{}
	for i, s := range sorted {
		bp := &Breakpoint{ID: i + 1, Addr: s.Addr, FuncName: s.Name, State: Queued}
		q.pending = append(q.pending, bp)
		q.all = append(q.all, bp)
	}
	return q
}

// Empty reports whether any breakpoints remain to install.
func (q *Queue) Empty() bool {
	return len(q.pending) == 0
}

// Peek returns the next breakpoint to install without removing it, or
// nil when the queue is drained.
func (q *Queue) Peek() *Breakpoint {
	if len(q.pending) == 0 {
		return nil
	}
	return q.pending[0]
}

// PopFront removes the next breakpoint and marks it Sent. The caller is
// responsible for only popping while no breakpoint is in flight; the
// queue itself has no notion of the session's command discipline.
func (q *Queue) PopFront() *Breakpoint {
	if len(q.pending) == 0 {
		return nil
	}
	bp := q.pending[0]
	q.pending = q.pending[1:]
	bp.State = Sent
	q.sent = bp
	return bp
}

// Sent returns the unique in-flight breakpoint, or nil.
func (q *Queue) Sent() *Breakpoint {
	return q.sent
}

// Confirm marks the in-flight breakpoint Confirmed with the source
// location the debugger resolved, and returns it. Returns nil when no
// breakpoint is in flight.
func (q *Queue) Confirm(file string, line int) *Breakpoint {
	bp := q.sent
	if bp == nil {
		return nil
	}
	bp.File = file
	bp.Line = line
	bp.State = Confirmed
	q.sent = nil
	return bp
}

// All returns every breakpoint in install order.
func (q *Queue) All() []*Breakpoint {
	return q.all
}
