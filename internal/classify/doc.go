// Package classify turns raw debugger console lines into tagged protocol
// events.
//
// Classification is stateless per line: a fixed, ordered list of pattern
// matchers is evaluated against each line and the first match wins. The
// order resolves ambiguity between overlapping shapes, e.g. a breakpoint
// confirmation ("Breakpoint 1 at 0x...") is tried before the breakpoint
// hit banner ("Breakpoint 1, main ...") and the generic prompt.
//
// Matcher order:
//
//	breakpoint confirmation
//	backtrace frame line
//	inferior exit notice
//	informational noise
//	session-ready prompt
//	unrecognized (fallback)
//
// The console prompt carries no trailing newline, so line splitting uses
// SplitConsole rather than bufio.ScanLines: the prompt is emitted as its
// own token the moment it is fully buffered.
package classify
