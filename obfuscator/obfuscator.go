// Package obfuscator is the pipeline driver (spec.md §4.I): it owns user
// options, the master RNG, the shared name pool, and the ordered pass list,
// and exposes the single entry point the frontend and CLI both call to
// obfuscate a parsed program in place.
package obfuscator

import (
	"fmt"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/internal/diag"
	"github.com/jsobf/jsobf/passes/cff"
	"github.com/jsobf/jsobf/passes/dispatcher"
	"github.com/jsobf/jsobf/passes/flatten"
	"github.com/jsobf/jsobf/passes/rgf"
	"github.com/jsobf/jsobf/pipeline"
	"github.com/jsobf/jsobf/transform"
)

// Obfuscator orders E/F/G/H by priority (small = early, spec.md §4.I) and
// drives a single Apply over the whole tree, the way the teacher's compile
// command drives lexer -> parser -> semantic analysis -> bytecode compiler
// in a fixed sequence.
type Obfuscator struct {
	env   *pipeline.Env
	order []transform.Pass
}

// New constructs an Obfuscator with a fresh Env seeded from seed1/seed2 and
// the full E -> F -> G -> H pass order. Ordering is a partial contract
// (spec.md §4.I): Flatten must run before RGF so a flattened function
// becomes RGF-eligible, and this fixed order satisfies that along with
// every other pairwise constraint the four core passes impose on each
// other.
func New(opts pipeline.Options, seed1, seed2 uint64) *Obfuscator {
	env := pipeline.NewEnv(opts, seed1, seed2)
	return &Obfuscator{
		env: env,
		order: []transform.Pass{
			cff.New(env),
			dispatcher.New(env),
			flatten.New(env),
			rgf.New(env),
		},
	}
}

// Env exposes the driver's Env, mainly for callers that need to seed a
// GlobalVariables set before the first Apply.
func (o *Obfuscator) Env() *pipeline.Env { return o.env }

// Apply runs every enabled pass over tree in priority order. A pass whose
// option is the literal `false` is skipped entirely rather than run with an
// always-false Match, saving a full tree walk per disabled pass.
//
// Errors bubble to the driver, which annotates them with the offending
// pass's name and a frame for the program root (spec.md §7.2: "all errors bubble to
// the pipeline driver, which annotates with the failing pass and
// re-raises"). A pass is expected to signal a fatal condition by panicking
// with an error value; Apply recovers it, wraps it in a diag.PassTrace
// frame, and returns it as a normal error instead of crashing the process.
func (o *Obfuscator) Apply(tree *ast.Program) (err error) {
	for _, pass := range o.order {
		if !passEnabled(o.env.Options, pass.Name()) {
			continue
		}
		if runErr := o.runPass(pass, tree); runErr != nil {
			return runErr
		}
	}
	return nil
}

func (o *Obfuscator) runPass(pass transform.Pass, tree *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			frame := diag.NewFrame(pass.Name(), tree)
			err = fmt.Errorf("%s: %v\n%s", pass.Name(), r, diag.PassTrace{frame}.String())
		}
	}()
	transform.Apply(pass, tree)
	return nil
}

// passEnabled reports false only when name's configured option is the
// literal `false`; any other value (true, a probability, a callable, or
// "all") reports true and is left for the pass's own Match to resolve
// per-candidate.
func passEnabled(opts pipeline.Options, name string) bool {
	var mode any
	switch name {
	case "control-flow-flattening":
		mode = opts.ControlFlowFlattening
	case "dispatcher":
		mode = opts.Dispatcher
	case "flatten":
		mode = opts.Flatten
	case "rgf":
		mode = opts.RGF
	default:
		return true
	}
	b, isBool := mode.(bool)
	return !isBool || b
}
