package stack

import "fmt"

// Frame is one call-site entry within a stack dump.
// Addr is 0 when the debugger did not report an address for the frame,
// and Line is 0 when no source location was reported.
type Frame struct {
	Index int
	Addr  uint64
	Func  string
	Args  string
	File  string
	Line  int
}

// Location returns the frame's "file:line" suffix, or "" when the
// debugger reported no source location.
func (f Frame) Location() string {
	if f.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// Dump is one complete call stack captured at a single breakpoint hit.
// Frames are ordered caller-first: the outermost call is Frames[0] and
// the innermost (the function the breakpoint stopped in) is last.
// Dumps are immutable once closed by the assembler.
type Dump struct {
	Seq    int
	Frames []Frame
}

// Equal reports whether two dumps carry the same call stack, comparing
// frames pairwise by function signature, address, and source location.
// An absent address or line only matches another absent one.
func (d *Dump) Equal(other *Dump) bool {
	if len(d.Frames) != len(other.Frames) {
		return false
	}
	for i, f := range d.Frames {
		o := other.Frames[i]
		if f.Func != o.Func || f.Args != o.Args || f.Addr != o.Addr ||
			f.File != o.File || f.Line != o.Line {
			return false
		}
	}
	return true
}

// Dedup maps each dump to the sequence number of the first dump equal to
// it. A dump that is not a duplicate maps to its own sequence number.
func Dedup(dumps []*Dump) []int {
	firsts := make([]int, len(dumps))
	for i, d := range dumps {
		firsts[i] = i
		for j := 0; j < i; j++ {
			if d.Equal(dumps[j]) {
				firsts[i] = j
				break
			}
		}
	}
	return firsts
}
