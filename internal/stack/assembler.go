package stack

// Assembler folds the raw frame stream produced by the debugger session
// into discrete dumps. Frames arrive innermost-first within each hit
// (index 0, 1, 2, ...); a frame with index 0 while the current buffer is
// non-empty marks the start of the next dump.
type Assembler struct {
	buf   []Frame
	dumps []*Dump
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Add appends one raw frame record, closing the in-progress dump first
// if the record opens a new stack.
func (a *Assembler) Add(f Frame) {
	if f.Index == 0 && len(a.buf) > 0 {
		a.close()
	}
	a.buf = append(a.buf, f)
}

// Flush closes any in-progress dump. Called once the session has drained
// the debugger's output.
func (a *Assembler) Flush() {
	if len(a.buf) > 0 {
		a.close()
	}
}

// Dumps returns the completed dumps in completion order.
func (a *Assembler) Dumps() []*Dump {
	return a.dumps
}

// close seals the buffered frames as one dump. Arrival order is
// innermost-first, so the buffer is reversed to caller-first. The
// innermost frame's line number is decremented by one: the debugger
// reports the instruction after the call rather than the call site.
func (a *Assembler) close() {
	frames := make([]Frame, len(a.buf))
	for i, f := range a.buf {
		frames[len(a.buf)-1-i] = f
	}
	innermost := &frames[len(frames)-1]
	if innermost.Index == 0 && innermost.Line > 0 {
		innermost.Line--
	}
	a.dumps = append(a.dumps, &Dump{Seq: len(a.dumps), Frames: frames})
	a.buf = a.buf[:0]
}
