package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/stack-tracer/internal/classify"
	"github.com/mrzor/stack-tracer/internal/render"
	"github.com/mrzor/stack-tracer/internal/stack"
)

func sampleDumps(t *testing.T) []*stack.Dump {
	t.Helper()
	c := classify.New("")
	asm := stack.NewAssembler()
	for _, line := range []string{
		"#0  foo () at a.c:10",
		"#1  0x400 in bar () at b.c:20",
		"#0  foo () at a.c:10",
		"#1  0x400 in bar () at b.c:20",
	} {
		ev := c.Classify(line)
		require.Equal(t, classify.KindFrame, ev.Kind, "line %q", line)
		asm.Add(ev.Frame)
	}
	asm.Flush()
	return asm.Dumps()
}

// Classifier → assembler → renderer end to end: two dumps, innermost
// line adjusted from 10 to 9, second dump marked a duplicate of the
// first.
func TestText_EndToEnd(t *testing.T) {
	dumps := sampleDumps(t)
	require.Len(t, dumps, 2)

	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, dumps))
	out := buf.String()

	assert.Contains(t, out, "stack dump 0:")
	assert.Contains(t, out, "foo () at a.c:9")
	assert.Contains(t, out, "bar () at b.c:20")
	assert.Contains(t, out, "stack dump 1: duplicate of dump 0")
	assert.NotContains(t, out, "a.c:10", "innermost line must be adjusted")
}

func TestText_AddressShownWhenPresent(t *testing.T) {
	dumps := []*stack.Dump{{Seq: 0, Frames: []stack.Frame{
		{Func: "bar", Addr: 0x400, File: "b.c", Line: 20},
		{Func: "foo", File: "a.c", Line: 9},
	}}}

	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, dumps))
	assert.Contains(t, buf.String(), "[0x400]")
}

func TestHTML_TablesAndCrossReferences(t *testing.T) {
	dumps := sampleDumps(t)

	var buf bytes.Buffer
	require.NoError(t, render.HTML(&buf, dumps, ""))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "<table"), "one table per unique dump")
	assert.Contains(t, out, `duplicate of <a href="#dump-0">dump 0</a>`)
	assert.Contains(t, out, "<td>foo</td>")
	assert.Contains(t, out, "a.c:9")
}

func TestHTML_BaseURLLinks(t *testing.T) {
	dumps := sampleDumps(t)

	var buf bytes.Buffer
	require.NoError(t, render.HTML(&buf, dumps, "https://example.com/src/"))
	assert.Contains(t, buf.String(), `href="https://example.com/src/a.c#L9"`)
}

func TestDOT_EdgesWithCallSites(t *testing.T) {
	dumps := sampleDumps(t)

	var buf bytes.Buffer
	require.NoError(t, render.DOT(&buf, dumps))
	out := buf.String()

	assert.Contains(t, out, "digraph calls {")
	// bar is the caller (outermost), foo the callee; the edge label is
	// the caller's call site.
	assert.Contains(t, out, `"bar" -> "foo" [label="b.c:20"];`)
	// The duplicate dump contributes no second copy of the edge.
	assert.Equal(t, 1, strings.Count(out, `"bar" -> "foo"`))
}

func TestDOT_SingleFrameDumpHasNoEdges(t *testing.T) {
	dumps := []*stack.Dump{{Seq: 0, Frames: []stack.Frame{{Func: "main"}}}}

	var buf bytes.Buffer
	require.NoError(t, render.DOT(&buf, dumps))
	assert.NotContains(t, buf.String(), "->")
}
