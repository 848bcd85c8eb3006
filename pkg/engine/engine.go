// Package engine provides the Lisp evaluation engine for shapekit.
// It wraps zygomys in a sandboxed environment, exposes every shape
// factory as a builtin and collects the shapes a script builds into a
// fresh actor.Collection.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/shapes"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"
)

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

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh collection.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout  time.Duration
	log      *zap.Logger
	factOpts []shapes.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the engine logger. It is also handed to the shape
// factory unless a factory option overrides it.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithFactoryOptions passes options to the shape factory built for each
// evaluation.
func WithFactoryOptions(opts ...shapes.Option) Option {
	return func(e *Engine) { e.factOpts = append(e.factOpts, opts...) }
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultEvalTimeout}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.timeout <= 0 {
		e.timeout = DefaultEvalTimeout
	}
	return e
}

// Evaluate runs source with a background context.
func (e *Engine) Evaluate(source string) (*actor.Collection, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext takes Lisp source code and returns the collection of
// shapes it built. The context is handed to builtins that block on the
// network and is cancelled when the evaluation times out.
//
// Return semantics:
//   - On success: returns collection + nil errors + nil error
//   - On parse/eval failure: returns nil collection + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*actor.Collection, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		coll, evalErrs, err := e.evaluate(ctx, source)
		ch <- evalResult{coll: coll, errors: evalErrs, err: err}
	}()

	coll, evalErrs, err := waitWithTimeout(ctx, ch, gen, e.timeout, &e.mu, &e.generation)
	if err != nil {
		e.log.Warn("evaluation failed", zap.Uint64("generation", gen), zap.Error(err))
	}
	return coll, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(ctx context.Context, source string) (*actor.Collection, []EvalError, error) {
	coll := actor.NewCollection()

	// Empty source is a valid program that builds nothing.
	if strings.TrimSpace(source) == "" {
		return coll, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	f := shapes.New(coll, append([]shapes.Option{shapes.WithLogger(e.log)}, e.factOpts...)...)
	registerBuiltins(env, &builder{ctx: ctx, f: f})

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	e.log.Debug("evaluation finished", zap.Int("items", coll.Len()))
	return coll, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
