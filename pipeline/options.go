// Package pipeline holds the shared types the pipeline driver (obfuscator.I)
// and every pass (E/F/G/H) both need: the Options surface (spec.md §6) and
// the per-run Env a pass is constructed against (RNG, name generators,
// shared counters). It exists as its own package, separate from obfuscator,
// so the passes can depend on it without an import cycle back to the
// package that registers them.
package pipeline

// RGFMode is the value shape of the `rgf` option: `"all"`, a bool, a
// probability, or (represented as the zero value here, with the real
// decision delegated to Decider.Decide) a callable.
type RGFMode any

const RGFAll = "all"

// Options is the recognized option surface from spec.md §6, decoded by the
// config loader (component J) or set directly by an embedding caller.
type Options struct {
	ControlFlowFlattening any // bool | float64 | func(any) any
	Dispatcher            any
	Flatten               any
	RGF                    any // "all" | bool | float64 | func(any) any

	// IdentifierGenerator selects a transform.Mode, or a
	// []transform.WeightedChoice for a weighted composite of modes.
	IdentifierGenerator any

	// GlobalVariables is the user's pre-declared-global set: identifiers
	// that identifier classification must treat as already defined at the
	// Program var context.
	GlobalVariables map[string]bool

	// LockCountermeasures, if non-empty, names a function RGF must never
	// extract (spec.md §4.H).
	LockCountermeasures string

	Verbose       bool
	DebugComments bool
}

// DefaultOptions returns an Options value with CFF, Dispatcher and Flatten
// enabled unconditionally, RGF disabled, and randomized identifiers -- the
// CLI's starting point when no config file is given.
func DefaultOptions() Options {
	return Options{
		ControlFlowFlattening: true,
		Dispatcher:             true,
		Flatten:                true,
		RGF:                    false,
		IdentifierGenerator:    "hexadecimal",
		GlobalVariables:        map[string]bool{},
	}
}
