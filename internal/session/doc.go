// Package session drives the debugger subprocess through the breakpoint
// trace run. It is the protocol engine: it owns the debugger's three
// byte streams and sequences every command written to the console.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│      debugger stdout / stderr           │
//	└─────────────────┬───────────────────────┘
//	                  │ prompt-aware line splitting
//	                  ▼
//	┌─────────────────────────────────────────┐
//	│   classify                              │  ← one tagged event per line
//	└─────────────────┬───────────────────────┘
//	                  ▼
//	┌─────────────────────────────────────────┐
//	│   session phase machine                 │
//	│   idle → configuring → installing →     │
//	│   await-run → running → draining →      │
//	│   quitting → done                       │
//	└─────────┬───────────────────────────────┘
//	          │
//	          ├──→ commands ──→ debugger stdin (only after a prompt)
//	          └──→ frames ────→ stack.Assembler
//
// Command discipline: exactly one command is in flight at a time, and a
// command may only be written immediately after observing the prompt.
// Priority when the debugger is ready: pending session setting, then the
// next breakpoint install (only while none is awaiting confirmation),
// then the run command, then quit.
//
// The subprocess is force-killed and reaped on every exit path,
// including external interruption; the release step is registered when
// the session is constructed, not when Run is called.
package session
