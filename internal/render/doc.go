// Package render provides formatters for the assembled stack dump
// collection.
//
// Every renderer consumes the same contract: the ordered dumps from the
// session (frames caller-first, source locations already prefix-stripped
// and call-site adjusted) plus the duplicate mapping from stack.Dedup.
//
// Renderers:
//   - Text: indented plain-text report, duplicates referenced by number
//   - HTML: one table per unique dump, cross-references for duplicates,
//     optional source hyperlinks under a base URL
//   - DOT: caller→callee edge list annotated with call-site file:line
//   - SpanExporter: one OTLP span tree per dump
package render
