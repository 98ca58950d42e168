package render

import (
	"fmt"
	"io"

	"github.com/mrzor/stack-tracer/internal/stack"
)

// callEdge is one caller→callee relation observed in a dump, annotated
// with the call site (the caller frame's source location).
type callEdge struct {
	Caller string
	Callee string
	Site   string
}

// DOT writes the dump collection as a directed-graph edge list in
// Graphviz syntax. Adjacent caller-first frames form the edges; the
// edge set is deduplicated while preserving first-seen order.
func DOT(w io.Writer, dumps []*stack.Dump) error {
	seen := make(map[callEdge]bool)
	var edges []callEdge
	for _, d := range dumps {
		for i := 0; i+1 < len(d.Frames); i++ {
			caller, callee := d.Frames[i], d.Frames[i+1]
			edge := callEdge{Caller: caller.Func, Callee: callee.Func, Site: caller.Location()}
			if seen[edge] {
				continue
			}
			seen[edge] = true
			edges = append(edges, edge)
		}
	}

	if _, err := fmt.Fprintln(w, "digraph calls {"); err != nil {
		return err
	}
	for _, e := range edges {
		if e.Site != "" {
			if _, err := fmt.Fprintf(w, "  %q -> %q [label=%q];\n", e.Caller, e.Callee, e.Site); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  %q -> %q;\n", e.Caller, e.Callee); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
