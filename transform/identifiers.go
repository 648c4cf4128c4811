package transform

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jsobf/jsobf/ast"
)

// Mode selects one of the five identifier-generation strategies spec.md
// §4.C lists.
type Mode string

const (
	ModeRandomized  Mode = "randomized"
	ModeHexadecimal Mode = "hexadecimal"
	ModeMangled     Mode = "mangled"
	ModeNumber      Mode = "number"
	ModeZeroWidth   Mode = "zeroWidth"
)

const alphaChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const alphaNumChars = alphaChars + "0123456789"
const hexChars = "0123456789ABCDEF"

// zeroWidthNonJoiner is U+200C, the character zeroWidth mode repeats to
// build names that render as nothing but remain distinct identifiers.
const zeroWidthNonJoiner = "‌"

// Generator produces fresh, globally-unique identifiers for a single pass
// invocation (or, per spec.md §4.C, the pipeline-wide generated-name set
// when constructed by the driver). It never emits a name in
// ast.ReservedKeywords, ast.ReservedIdentifiers, or one it has already
// produced.
type Generator struct {
	Mode    Mode
	Prefix  string // used by ModeZeroWidth as the visible keyword prefix; defaults to "_"
	rng     *rand.Rand
	seen    map[string]bool
	counter int
	mangled int
}

// NewGenerator constructs a Generator in the given mode, sharing rng with
// whatever else in the pipeline draws randomness (spec.md §4.D: "all random
// choices in the core draw from the same RNG source").
func NewGenerator(mode Mode, rng *rand.Rand, seen map[string]bool) *Generator {
	if seen == nil {
		seen = make(map[string]bool)
	}
	return &Generator{Mode: mode, Prefix: "_", rng: rng, seen: seen}
}

// Next produces a new unique identifier name in the generator's mode.
func (g *Generator) Next() string {
	for {
		name := g.generate()
		if g.isUsable(name) {
			g.seen[name] = true
			return name
		}
	}
}

func (g *Generator) isUsable(name string) bool {
	if name == "" || g.seen[name] {
		return false
	}
	if ast.ReservedKeywords[name] || ast.ReservedIdentifiers[name] {
		return false
	}
	return true
}

func (g *Generator) generate() string {
	switch g.Mode {
	case ModeHexadecimal:
		return g.generateHex()
	case ModeMangled:
		return g.generateMangled()
	case ModeNumber:
		g.counter++
		return fmt.Sprintf("var_%d", g.counter)
	case ModeZeroWidth:
		return g.generateZeroWidth()
	default: // ModeRandomized
		return g.generateRandomized()
	}
}

func (g *Generator) generateRandomized() string {
	length := 6 + g.rng.IntN(3) // 6..8
	var b strings.Builder
	b.WriteByte(alphaChars[g.rng.IntN(len(alphaChars))])
	for i := 1; i < length; i++ {
		b.WriteByte(alphaNumChars[g.rng.IntN(len(alphaNumChars))])
	}
	return b.String()
}

func (g *Generator) generateHex() string {
	length := 6 + g.rng.IntN(3)
	var b strings.Builder
	b.WriteString("_0x")
	for i := 0; i < length; i++ {
		b.WriteByte(hexChars[g.rng.IntN(len(hexChars))])
	}
	return b.String()
}

// generateMangled produces an Excel-column-like sequence: a, b, ..., z, aa,
// ab, ..., skipping any output that collides with a reserved name (the
// caller's isUsable check handles the skip; this just advances the counter
// deterministically so repeated calls don't repeat names).
func (g *Generator) generateMangled() string {
	n := g.mangled
	g.mangled++
	return toColumnName(n)
}

func toColumnName(n int) string {
	var b strings.Builder
	for {
		b.WriteByte(byte('a' + n%26))
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	runes := []byte(b.String())
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func (g *Generator) generateZeroWidth() string {
	g.counter++
	return g.Prefix + strings.Repeat(zeroWidthNonJoiner, g.counter)
}
