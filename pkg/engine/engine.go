// Package engine provides the Lisp evaluation engine for scatter scripts.
// It wraps zygomys in a sandboxed environment and produces a placement
// plan from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/scatter/pkg/geom"
	"github.com/chazu/scatter/pkg/kernel"
	"github.com/chazu/scatter/pkg/place"
	"github.com/chazu/scatter/pkg/provider"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Run is one scatter request extracted from a script: the base geometry,
// the collection to link results into, and the placement parameters.
type Run struct {
	Base       *geom.Descriptor
	BaseName   string // set when the base was resolved through the provider
	Collection string
	Config     place.Config
}

// Plan is the full output of evaluating a script.
type Plan struct {
	Runs []*Run
}

// RunCount returns the number of scatter runs in the plan.
func (p *Plan) RunCount() int {
	return len(p.Runs)
}

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for scatter-script evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	kernel   kernel.Kernel
	provider provider.Provider
}

// NewEngine creates an engine that models base solids with k and resolves
// named base meshes through p. p may be nil; scripts then cannot use
// (base "name").
func NewEngine(k kernel.Kernel, p provider.Provider) *Engine {
	return &Engine{kernel: k, provider: p}
}

// Evaluate takes Lisp source code and produces a placement plan.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns plan + nil errors + nil error
//   - On parse/eval failure: returns nil plan + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Plan, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{plan: p, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Plan, []EvalError, error) {
	// Empty source is a valid script that produces an empty plan.
	if strings.TrimSpace(source) == "" {
		return &Plan{}, nil, nil
	}

	// Create a fresh sandboxed zygomys environment.
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	plan := &Plan{}
	registerBuiltins(env, e.kernel, e.provider, plan)

	// Load and compile the source string into bytecode.
	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	// Execute the compiled bytecode.
	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	return plan, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
