package transform

import "math/rand/v2"

// WeightedChoice is one entry of a weighted array/object probability spec.
type WeightedChoice struct {
	Value  any
	Weight float64
}

// Decider resolves user-facing probability specs (spec.md §4.D) to concrete
// decisions, deterministically for a given seeded RNG. Every pass shares one
// Decider (via the pipeline driver) so a seeded run reproduces exactly.
type Decider struct {
	rng *rand.Rand
}

// NewDecider builds a Decider over the given RNG. The RNG is never owned
// exclusively by the Decider -- it is the same *rand.Rand the rest of the
// pipeline draws from, per spec.md §4.D/§9 ("a single seedable RNG is
// threaded through all passes for reproducibility").
func NewDecider(rng *rand.Rand) *Decider {
	return &Decider{rng: rng}
}

// Decide maps spec to a concrete value, given an arbitrary context value the
// caller threads through (only meaningful when spec is a callable). Accepted
// spec shapes, matching spec.md §4.D exactly:
//
//   - bool: returned as-is (all-or-nothing).
//   - float64 in [0,1]: a Bernoulli trial against the shared RNG, returned
//     as a bool.
//   - string: returned unconditionally; the caller is expected to use it as
//     a key into its own continuation (spec.md: "passed into a continuation
//     the caller supplies").
//   - []WeightedChoice: one entry is picked with probability proportional
//     to its Weight, and its Value is returned.
//   - func(context any) any: invoked with ctx, and its result returned
//     verbatim (so a callable can itself return any of the above shapes,
//     or a final decided value -- callers that need a bool should type
//     assert/coerce explicitly via DecideBool).
//
// Any other spec shape is a user-input error per spec.md §7.1.
func (d *Decider) Decide(spec any, ctx any) any {
	switch v := spec.(type) {
	case bool:
		return v
	case float64:
		return d.bernoulli(v)
	case string:
		return v
	case []WeightedChoice:
		return d.weighted(v)
	case func(any) any:
		return v(ctx)
	default:
		panic("transform: probability spec must be bool, float64, string, []WeightedChoice, or func(any) any")
	}
}

func (d *Decider) bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return d.rng.Float64() < p
}

func (d *Decider) weighted(choices []WeightedChoice) any {
	total := 0.0
	for _, c := range choices {
		total += c.Weight
	}
	if total <= 0 {
		return nil
	}
	r := d.rng.Float64() * total
	for _, c := range choices {
		r -= c.Weight
		if r <= 0 {
			return c.Value
		}
	}
	return choices[len(choices)-1].Value
}

// DecideBool is the common case: resolve spec to a plain eligibility
// decision. It coerces whatever Decide returns to a bool (a true bool, a
// non-empty string, or any other non-nil value, numbers included, counts as
// "yes"); every pass's top-level eligibility oracle (CFF's chunking
// fraction draw, Dispatcher's "should this context dispatch", Flatten's and
// RGF's per-context enable checks) goes through this helper.
func (d *Decider) DecideBool(spec any, ctx any) bool {
	switch v := d.Decide(spec, ctx).(type) {
	case bool:
		return v
	case string:
		return v != ""
	case nil:
		return false
	default:
		return true
	}
}
