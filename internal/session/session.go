package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"

	"github.com/mrzor/stack-tracer/internal/breakpoints"
	"github.com/mrzor/stack-tracer/internal/classify"
	"github.com/mrzor/stack-tracer/internal/stack"
)

// Phase names the session's position in the protocol run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfiguring
	PhaseInstalling
	PhaseAwaitRun
	PhaseRunning
	PhaseDraining
	PhaseQuitting
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfiguring:
		return "configuring"
	case PhaseInstalling:
		return "installing"
	case PhaseAwaitRun:
		return "await-run"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	case PhaseQuitting:
		return "quitting"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Options configures a debugger session.
type Options struct {
	// GDBPath is the debugger executable name or path
	GDBPath string
	// Binary is the target executable
	Binary string
	// TargetArgs are passed verbatim to the target's run command
	TargetArgs []string
	// TargetStdout is where the target's own stdout is redirected so it
	// cannot interleave with protocol text; empty means discarded
	TargetStdout string
	// Classifier tags raw console lines
	Classifier *classify.Classifier
	// Queue is the breakpoint install work list
	Queue *breakpoints.Queue
}

// Result is the session's output contract for the renderers.
type Result struct {
	// Dumps are the assembled stack dumps in completion order
	Dumps []*stack.Dump
	// Completed is true when the target ran to completion under the
	// debugger (the drain phase was reached)
	Completed bool
}

// Session owns the debugger subprocess and its three streams. All
// protocol state is mutated from the Run loop only.
type Session struct {
	opts Options

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	stderr io.Reader

	phase       Phase
	ready       bool
	settings    []string
	nextSetting int
	queue       *breakpoints.Queue
	classifier  *classify.Classifier
	asm         *stack.Assembler
	completed   bool

	releaseOnce sync.Once
}

// defaultSettings is the configuration sent to the debugger before any
// breakpoint is installed. The hook-stop define makes the debugger print
// a backtrace and resume on every stop, so the run phase needs no
// per-hit commands.
func defaultSettings() []string {
	return []string{
		"set confirm off",
		"set pagination off",
		"set width 0",
		"set height 0",
		"define hook-stop\nbt\ncontinue\nend",
	}
}

// New locates and starts the debugger subprocess and registers the
// guaranteed release of the child. A missing debugger or a launch
// failure is fatal to the whole run.
func New(opts Options) (*Session, error) {
	path, err := exec.LookPath(opts.GDBPath)
	if err != nil {
		return nil, fmt.Errorf("debugger %q not found: %w", opts.GDBPath, err)
	}

	//nolint:gosec // Driving a debugger subprocess is this tool's purpose
	cmd := exec.Command(path, "--nx", "-q", "--interpreter=console", opts.Binary)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening command stream: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening primary output stream: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("opening diagnostic stream: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting debugger: %w", err)
	}

	s := &Session{
		opts:       opts,
		cmd:        cmd,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		phase:      PhaseIdle,
		settings:   defaultSettings(),
		queue:      opts.Queue,
		classifier: opts.Classifier,
		asm:        stack.NewAssembler(),
	}
	return s, nil
}

// Close force-terminates and reaps the subprocess if Run has not already
// done so. Safe to call multiple times.
func (s *Session) Close() {
	s.release()
}

// release kills and reaps the child. The kill is a no-op when the child
// already exited cleanly.
func (s *Session) release() {
	s.releaseOnce.Do(func() {
		if s.cmd == nil {
			return
		}
		_ = s.stdin.Close()
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		_ = s.cmd.Wait()
	})
}

// Run drives the protocol until the debugger's output stream closes or
// the context is cancelled. Cancellation bypasses the graceful quit:
// the child is killed immediately and no further commands are written.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	defer s.release()

	// Closed when Run returns so the reader goroutines never stay
	// blocked on a send for a line nobody will receive.
	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.stdout)
		scanner.Split(classify.SplitConsole)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	diags := make(chan string)
	go func() {
		defer close(diags)
		scanner := bufio.NewScanner(s.stderr)
		for scanner.Scan() {
			select {
			case diags <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Printf("interrupted, terminating debugger")
			s.release()
			return nil, ctx.Err()

		case line, ok := <-diags:
			if !ok {
				diags = nil
				continue
			}
			// Diagnostic output never transitions the phase machine.
			log.Printf("warning: debugger stderr: %s", line)

		case line, ok := <-lines:
			if !ok {
				s.release()
				s.asm.Flush()
				if s.completed {
					s.phase = PhaseDone
				}
				return &Result{Dumps: s.asm.Dumps(), Completed: s.completed}, nil
			}
			s.handleLine(line)
		}
	}
}

// handleLine classifies one console line and applies the transition
// table. Runs synchronously in the loop; no transition suspends.
func (s *Session) handleLine(line string) {
	ev := s.classifier.Classify(line)
	switch ev.Kind {
	case classify.KindReady:
		s.ready = true
		if s.phase == PhaseIdle {
			s.phase = PhaseConfiguring
		}
		s.dispatch()

	case classify.KindConfirmed:
		s.onConfirmed(ev.Confirm)

	case classify.KindFrame:
		if s.phase == PhaseRunning || s.phase == PhaseDraining {
			s.asm.Add(ev.Frame)
		} else {
			log.Printf("trace: frame line outside run phase (%s): %q", s.phase, ev.Raw)
		}

	case classify.KindExited:
		if s.phase == PhaseRunning {
			log.Printf("target exited with status %d, draining", ev.ExitCode)
			s.phase = PhaseDraining
			s.completed = true
		}

	case classify.KindNoise:
		// Recognized but irrelevant; no transition.

	case classify.KindUnrecognized:
		log.Printf("trace: ignoring unrecognized line %q", ev.Raw)
	}
}

// onConfirmed matches a confirmation to the unique in-flight breakpoint.
// Correlation is positional; a mismatched id or address is a cosmetic
// anomaly that is logged and never blocks the install sequence.
func (s *Session) onConfirmed(conf classify.Confirmation) {
	sent := s.queue.Sent()
	if sent == nil {
		log.Printf("warning: breakpoint confirmation with none in flight: id=%d addr=%#x", conf.ID, conf.Addr)
		return
	}
	if conf.ID != sent.ID || conf.Addr != sent.Addr {
		log.Printf("warning: breakpoint confirmation mismatch: reported id=%d addr=%#x, sent id=%d addr=%#x",
			conf.ID, conf.Addr, sent.ID, sent.Addr)
	}
	s.queue.Confirm(conf.File, conf.Line)
	s.dispatch()
}

// dispatch writes the highest-priority pending command, but only when
// the most recently observed event was the prompt. Writing at any other
// time risks corrupting the console session.
func (s *Session) dispatch() {
	if !s.ready {
		return
	}

	if s.phase == PhaseConfiguring {
		if s.nextSetting < len(s.settings) {
			setting := s.settings[s.nextSetting]
			s.nextSetting++
			s.send(setting)
			return
		}
		s.phase = PhaseInstalling
	}

	if s.phase == PhaseInstalling {
		if s.queue.Sent() != nil {
			return
		}
		if bp := s.queue.PopFront(); bp != nil {
			s.send(fmt.Sprintf("break *%#x", bp.Addr))
			return
		}
		log.Printf("all %d breakpoints confirmed", len(s.queue.All()))
		s.phase = PhaseAwaitRun
	}

	if s.phase == PhaseAwaitRun {
		s.phase = PhaseRunning
		s.send(s.runCommand())
		return
	}

	if s.phase == PhaseDraining {
		s.phase = PhaseQuitting
		s.send("quit")
	}
}

// runCommand builds the run command, redirecting the target's stdout so
// it cannot interleave with protocol text.
func (s *Session) runCommand() string {
	dest := s.opts.TargetStdout
	if dest == "" {
		dest = "/dev/null"
	}
	parts := append([]string{"run"}, s.opts.TargetArgs...)
	return strings.Join(parts, " ") + " > " + dest
}

// send writes one command and clears the ready flag: a new prompt must
// be observed before the next write.
func (s *Session) send(command string) {
	s.ready = false
	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		// The child is likely gone; the read loop will see EOF and wind
		// the session down.
		log.Printf("warning: writing command %q: %v", command, err)
	}
}
