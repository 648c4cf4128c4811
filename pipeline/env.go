package pipeline

import (
	"math/rand/v2"

	"github.com/jsobf/jsobf/transform"
)

// Env is the shared, per-run state the pipeline driver hands to every pass
// at construction time: the master RNG, the probability resolver, the
// global generated-name uniqueness set, and the var counter (spec.md §4.I:
// "Owns: user options, the master RNG, varCount, the global generated-name
// set, and the ordered pass list"). A pass never constructs its own RNG; it
// always draws through Env so a seeded run is fully reproducible.
type Env struct {
	Options Options

	RNG     *rand.Rand
	Decider *transform.Decider

	// generatedNames is the pipeline-wide dedup set every Generator this
	// Env hands out shares, per spec.md §4.C ("Generated names are
	// deduplicated against a per-obfuscator set of all prior outputs").
	generatedNames map[string]bool

	// Placeholders is shared across passes for simplicity; its uniqueness
	// guarantee (global) is a strict superset of spec.md's per-invocation
	// requirement.
	Placeholders *transform.PlaceholderGenerator

	// VarCount is the shared counter spec.md §4.I lists as driver-owned
	// state. None of the four passes reads it; Flatten and RGF name their
	// extracted functions/reference arrays through Generator instead.
	VarCount *int
}

// NewEnv constructs a fresh Env seeded deterministically from seed.
func NewEnv(opts Options, seed1, seed2 uint64) *Env {
	rng := rand.New(rand.NewPCG(seed1, seed2))
	varCount := 0
	return &Env{
		Options:        opts,
		RNG:            rng,
		Decider:        transform.NewDecider(rng),
		generatedNames: make(map[string]bool),
		Placeholders:   transform.NewPlaceholderGenerator(rng),
		VarCount:       &varCount,
	}
}

// NewGenerator hands out a fresh transform.Generator in the Env's
// configured identifier mode, sharing the global uniqueness set and RNG.
// Passes that need their own counter (spec.md §4.C: "a pass may obtain an
// independent generator with its own counter") call this once and reuse the
// result for the duration of their Apply.
func (e *Env) NewGenerator() *transform.Generator {
	mode := ModeFromOption(e.Options.IdentifierGenerator, e.RNG)
	return transform.NewGenerator(mode, e.RNG, e.generatedNames)
}

// ModeFromOption resolves the `identifierGenerator` option (a bare mode
// string, or a weighted composite) to a single transform.Mode for this
// call, drawing from rng when the option is a composite.
func ModeFromOption(opt any, rng *rand.Rand) transform.Mode {
	switch v := opt.(type) {
	case transform.Mode:
		return v
	case string:
		return transform.Mode(v)
	case []transform.WeightedChoice:
		d := transform.NewDecider(rng)
		if picked, ok := d.Decide(v, nil).(transform.Mode); ok {
			return picked
		}
		return transform.ModeHexadecimal
	default:
		return transform.ModeHexadecimal
	}
}

// NextVarCount atomically-enough (single-threaded pipeline, see spec.md §5)
// increments and returns the shared var counter.
func (e *Env) NextVarCount() int {
	*e.VarCount++
	return *e.VarCount
}

// NewChild builds an isolated Env for RGF's nested pipeline (spec.md §4.H:
// "options minus RGF... with R added to globalVariables", §4.I: "the nested
// pipeline does not share the outer RNG state or uniqueness set"). Two
// fresh seeds are drawn from e's own RNG so the child is still fully
// determined by the outer run's seed, without the child ever reading from
// or writing back into the parent's RNG stream or generatedNames set.
func (e *Env) NewChild(extraGlobal string) *Env {
	seed1, seed2 := e.RNG.Uint64(), e.RNG.Uint64()

	childGlobals := make(map[string]bool, len(e.Options.GlobalVariables)+1)
	for k, v := range e.Options.GlobalVariables {
		childGlobals[k] = v
	}
	childGlobals[extraGlobal] = true

	childOpts := e.Options
	childOpts.RGF = false
	childOpts.GlobalVariables = childGlobals

	return NewEnv(childOpts, seed1, seed2)
}
