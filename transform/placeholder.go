package transform

import (
	"fmt"
	"math/rand/v2"
)

// PlaceholderGenerator produces placeholder names in the `__p_` + 10 decimal
// digits shape spec.md §3 fixes as an invariant, unique within a single pass
// invocation. It is deliberately separate from Generator (which produces
// user-facing obfuscated identifiers): placeholders are internal labels
// (chunk/case entry points) that never survive into emitted source as a
// variable name.
type PlaceholderGenerator struct {
	rng  *rand.Rand
	seen map[string]bool
}

// NewPlaceholderGenerator constructs a placeholder generator sharing rng
// with the rest of the pipeline.
func NewPlaceholderGenerator(rng *rand.Rand) *PlaceholderGenerator {
	return &PlaceholderGenerator{rng: rng, seen: make(map[string]bool)}
}

// Next returns a fresh `__p_` + 10-digit placeholder name, unique within
// this generator's lifetime.
func (p *PlaceholderGenerator) Next() string {
	for {
		digits := p.rng.Uint64() % 10_000_000_000
		name := fmt.Sprintf("__p_%010d", digits)
		if !p.seen[name] {
			p.seen[name] = true
			return name
		}
	}
}
