package render

import (
	"fmt"
	"io"

	"github.com/mrzor/stack-tracer/internal/stack"
)

// Text writes the dump collection as an indented plain-text report.
// Duplicate dumps are collapsed to a reference to their first
// occurrence.
func Text(w io.Writer, dumps []*stack.Dump) error {
	firsts := stack.Dedup(dumps)
	for i, d := range dumps {
		if firsts[i] != i {
			if _, err := fmt.Fprintf(w, "stack dump %d: duplicate of dump %d\n", d.Seq, firsts[i]); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "stack dump %d:\n", d.Seq); err != nil {
			return err
		}
		for _, f := range d.Frames {
			if err := writeTextFrame(w, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTextFrame(w io.Writer, f stack.Frame) error {
	line := fmt.Sprintf("    %s (%s)", f.Func, f.Args)
	if loc := f.Location(); loc != "" {
		line += " at " + loc
	}
	if f.Addr != 0 {
		line += fmt.Sprintf(" [%#x]", f.Addr)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
