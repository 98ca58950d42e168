package symbols

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// Symbol is one usable function symbol from the target binary.
type Symbol struct {
	Addr uint64
	Name string
}

// Source resolves the target's function symbols through the external
// extractor tool.
type Source struct {
	tool   string
	filter *Filter
}

// NewSource creates a Source using the given extractor tool name or
// path. filterExpr, when non-empty, is compiled as an expr predicate
// over {name, addr}; a compile error is fatal since the expression is
// user input.
func NewSource(tool, filterExpr string) (*Source, error) {
	s := &Source{tool: tool}
	if filterExpr != "" {
		f, err := NewFilter(filterExpr)
		if err != nil {
			return nil, err
		}
		s.filter = f
	}
	return s, nil
}

// Resolve runs the extractor against the binary and returns the usable
// function symbols in ascending address order. A missing extractor tool
// or an empty result is an error; everything else (unparseable lines,
// duplicate addresses) is logged and skipped.
func (s *Source) Resolve(ctx context.Context, binary string) ([]Symbol, error) {
	path, err := exec.LookPath(s.tool)
	if err != nil {
		return nil, fmt.Errorf("symbol extractor %q not found: %w", s.tool, err)
	}

	//nolint:gosec // Driving external tools against the target is this tool's purpose
	cmd := exec.CommandContext(ctx, path, "-S", "--defined-only", binary)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running %s on %s: %w", s.tool, binary, err)
	}

	syms := parseOutput(bytes.NewReader(out))
	if s.filter != nil {
		syms = s.filter.Apply(syms)
	}
	if len(syms) == 0 {
		return nil, fmt.Errorf("no usable function symbols in %s", binary)
	}

	sort.Slice(syms, func(i, j int) bool { return syms[i].Addr < syms[j].Addr })
	return syms, nil
}

// parseOutput reads extractor lines of the form "address size kind name"
// and keeps text-section (function) symbols with a non-zero address and
// size. On an address collision the first entry wins; a differing name
// on the later entry is logged as a mismatch.
func parseOutput(r io.Reader) []Symbol {
	byAddr := make(map[uint64]string)
	var syms []Symbol

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 4 {
			continue
		}
		addr, err := strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			continue
		}
		kind, name := fields[2], fields[3]
		if kind != "T" && kind != "t" {
			continue
		}
		if addr == 0 || size == 0 {
			continue
		}
		if prev, ok := byAddr[addr]; ok {
			if prev != name {
				log.Printf("warning: symbols %q and %q share address %#x, keeping %q", prev, name, addr, prev)
			}
			continue
		}
		byAddr[addr] = name
		syms = append(syms, Symbol{Addr: addr, Name: name})
	}
	return syms
}
