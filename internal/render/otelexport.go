package render

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrzor/stack-tracer/internal/stack"
)

// SpanExporter formats dumps as OpenTelemetry spans: one root span per
// dump with a child span per frame, outermost first.
type SpanExporter struct {
	tracer trace.Tracer
}

// NewSpanExporter creates a SpanExporter over the given tracer.
func NewSpanExporter(tracer trace.Tracer) *SpanExporter {
	return &SpanExporter{tracer: tracer}
}

// Export emits the span tree for every dump. Duplicates are exported
// too, carrying a dump.duplicate_of attribute instead of being elided,
// so the backend sees the full hit sequence.
func (e *SpanExporter) Export(ctx context.Context, dumps []*stack.Dump) {
	firsts := stack.Dedup(dumps)
	for i, d := range dumps {
		dumpCtx, root := e.tracer.Start(ctx, fmt.Sprintf("stack-dump-%d", d.Seq),
			trace.WithAttributes(
				attribute.Int("dump.seq", d.Seq),
				attribute.Int("dump.frames", len(d.Frames)),
			))
		if firsts[i] != i {
			root.SetAttributes(attribute.Int("dump.duplicate_of", firsts[i]))
		}
		for _, f := range d.Frames {
			_, span := e.tracer.Start(dumpCtx, f.Func, trace.WithAttributes(frameAttributes(f)...))
			span.End()
		}
		root.End()
	}
}

func frameAttributes(f stack.Frame) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("function.name", f.Func),
		attribute.String("function.args", f.Args),
		attribute.Int("frame.index", f.Index),
	}
	if f.Addr != 0 {
		attrs = append(attrs, attribute.String("frame.address", fmt.Sprintf("%#x", f.Addr)))
	}
	if f.File != "" {
		attrs = append(attrs,
			attribute.String("source.file", f.File),
			attribute.Int("source.line", f.Line),
		)
	}
	return attrs
}
