package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrzor/stack-tracer/internal/stack"
)

// Kind tags a classified console line.
type Kind int

const (
	// KindConfirmed is the debugger acknowledging an installed breakpoint.
	KindConfirmed Kind = iota
	// KindFrame is one backtrace line from a breakpoint hit.
	KindFrame
	// KindExited is the notice that the target process terminated.
	KindExited
	// KindReady is the console prompt: the debugger is idle and can
	// accept the next command.
	KindReady
	// KindNoise is recognized but uninteresting output (hit banners,
	// load notices, blank lines).
	KindNoise
	// KindUnrecognized is anything no matcher claimed.
	KindUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindConfirmed:
		return "confirmed"
	case KindFrame:
		return "frame"
	case KindExited:
		return "exited"
	case KindReady:
		return "ready"
	case KindNoise:
		return "noise"
	default:
		return "unrecognized"
	}
}

// Confirmation carries the resolved details of an installed breakpoint.
// File and Line are zero-valued when the debugger reported no source
// location for the address.
type Confirmation struct {
	ID   int
	Addr uint64
	File string
	Line int
}

// Event is the classifier's output: exactly one tagged event per line.
type Event struct {
	Kind     Kind
	Confirm  Confirmation // valid when Kind == KindConfirmed
	Frame    stack.Frame  // valid when Kind == KindFrame
	ExitCode int          // valid when Kind == KindExited
	Raw      string
}

var (
	reConfirm = regexp.MustCompile(`^Breakpoint (\d+) at (0x[0-9a-fA-F]+)(?:: file (.+), line (\d+)\.?)?`)
	reFrame   = regexp.MustCompile(`^#(\d+)\s+(?:(0x[0-9a-fA-F]+) in )?(\S.*)$`)
	reExit    = regexp.MustCompile(`^\[Inferior \d+ \(process \d+\) exited (?:normally|with code (\d+))\]$`)
	reAtSite  = regexp.MustCompile(`^\s*at\s+(.+):(\d+)\s*$`)

	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^$`),
		regexp.MustCompile(`^Breakpoint \d+, `),
		regexp.MustCompile(`^Starting program`),
		regexp.MustCompile(`^Reading symbols`),
		regexp.MustCompile(`^Continuing\.`),
		regexp.MustCompile(`^\[New `),
		regexp.MustCompile(`^\[Thread `),
		regexp.MustCompile(`^\[Detaching `),
		regexp.MustCompile(`^warning: `),
		regexp.MustCompile(`^>\s*$`),
	}
)

// Classifier evaluates the matcher list against raw console lines. The
// only configuration is an optional path prefix stripped from reported
// source files.
type Classifier struct {
	stripPrefix string
}

func New(stripPrefix string) *Classifier {
	return &Classifier{stripPrefix: stripPrefix}
}

// Classify maps one raw line to exactly one event.
func (c *Classifier) Classify(line string) Event {
	if m := reConfirm.FindStringSubmatch(line); m != nil {
		id, _ := strconv.Atoi(m[1])
		addr, _ := strconv.ParseUint(m[2], 0, 64)
		conf := Confirmation{ID: id, Addr: addr}
		if m[3] != "" {
			conf.File = c.stripFile(m[3])
			conf.Line, _ = strconv.Atoi(m[4])
		}
		return Event{Kind: KindConfirmed, Confirm: conf, Raw: line}
	}
	if m := reFrame.FindStringSubmatch(line); m != nil {
		if frame, ok := c.parseFrame(m); ok {
			return Event{Kind: KindFrame, Frame: frame, Raw: line}
		}
	}
	if m := reExit.FindStringSubmatch(line); m != nil {
		code := 0
		if m[1] != "" {
			// The debugger prints exit codes in octal.
			n, _ := strconv.ParseInt(m[1], 8, 32)
			code = int(n)
		}
		return Event{Kind: KindExited, ExitCode: code, Raw: line}
	}
	for _, re := range noisePatterns {
		if re.MatchString(line) {
			return Event{Kind: KindNoise, Raw: line}
		}
	}
	if line == Prompt || line == strings.TrimRight(Prompt, " ") {
		return Event{Kind: KindReady, Raw: line}
	}
	return Event{Kind: KindUnrecognized, Raw: line}
}

// parseFrame extracts a frame record from a matched backtrace line. The
// argument list may itself contain parentheses, so the span between the
// first opening and the last closing parenthesis is taken as the
// arguments rather than a non-greedy match.
func (c *Classifier) parseFrame(m []string) (stack.Frame, bool) {
	var frame stack.Frame
	frame.Index, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		frame.Addr, _ = strconv.ParseUint(m[2], 0, 64)
	}

	sig := m[3]
	open := strings.Index(sig, "(")
	closing := strings.LastIndex(sig, ")")
	if open < 0 || closing < open {
		return stack.Frame{}, false
	}
	frame.Func = strings.TrimSpace(sig[:open])
	frame.Args = sig[open+1 : closing]

	if site := reAtSite.FindStringSubmatch(sig[closing+1:]); site != nil {
		frame.File = c.stripFile(site[1])
		frame.Line, _ = strconv.Atoi(site[2])
	}
	return frame, frame.Func != ""
}

// stripFile removes the configured prefix when it matches literally from
// the start of the reported path.
func (c *Classifier) stripFile(file string) string {
	if c.stripPrefix != "" && strings.HasPrefix(file, c.stripPrefix) {
		return file[len(c.stripPrefix):]
	}
	return file
}
