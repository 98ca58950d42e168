// Package symbols resolves function symbols from the target binary by
// driving the external symbol extractor (nm). Symbols with a zero
// address, zero size, or a non-function kind are filtered out; a
// duplicate address keeps the first name seen. An optional expr filter
// narrows the result further.
package symbols
