package symbols

import (
	"fmt"
	"log"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a pre-compiled expr predicate used to narrow the symbol set,
// e.g. `name startsWith "handle_"` or `addr < 0x500000`.
type Filter struct {
	expression string
	program    *vm.Program
}

// NewFilter compiles a filter expression against the symbol environment.
func NewFilter(expression string) (*Filter, error) {
	// Environment for expression type checking.
	exprEnv := map[string]interface{}{
		"name": "",
		"addr": uint64(0),
	}

	program, err := expr.Compile(expression, expr.Env(exprEnv), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile symbol filter %q: %w", expression, err)
	}
	return &Filter{expression: expression, program: program}, nil
}

// Apply evaluates the predicate for each symbol and keeps the ones it
// accepts. A runtime evaluation error excludes the symbol and is logged,
// never escalated.
func (f *Filter) Apply(syms []Symbol) []Symbol {
	var kept []Symbol
	for _, s := range syms {
		env := map[string]interface{}{
			"name": s.Name,
			"addr": s.Addr,
		}
		output, err := expr.Run(f.program, env)
		if err != nil {
			log.Printf("warning: symbol filter failed for %q: %v", s.Name, err)
			continue
		}
		if keep, ok := output.(bool); ok && keep {
			kept = append(kept, s)
		}
	}
	return kept
}
