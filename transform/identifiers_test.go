package transform

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/jsobf/jsobf/ast"
)

func TestGeneratorModesAreUnique(t *testing.T) {
	for _, mode := range []Mode{ModeRandomized, ModeHexadecimal, ModeMangled, ModeNumber, ModeZeroWidth} {
		rng := rand.New(rand.NewPCG(1, 2))
		gen := NewGenerator(mode, rng, nil)
		seen := map[string]bool{}
		for i := 0; i < 200; i++ {
			name := gen.Next()
			if seen[name] {
				t.Fatalf("mode %s produced duplicate name %q", mode, name)
			}
			seen[name] = true
			if ast.ReservedKeywords[name] || ast.ReservedIdentifiers[name] {
				t.Fatalf("mode %s produced reserved name %q", mode, name)
			}
		}
	}
}

func TestGeneratorHexadecimalShape(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	gen := NewGenerator(ModeHexadecimal, rng, nil)
	name := gen.Next()
	if !strings.HasPrefix(name, "_0x") {
		t.Fatalf("hexadecimal name %q missing _0x prefix", name)
	}
}

func TestGeneratorNumberModeSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	gen := NewGenerator(ModeNumber, rng, nil)
	first := gen.Next()
	second := gen.Next()
	if first != "var_1" || second != "var_2" {
		t.Fatalf("number mode = %q, %q, want var_1, var_2", first, second)
	}
}

func TestPlaceholderGeneratorShape(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	gen := NewPlaceholderGenerator(rng)
	name := gen.Next()
	if !strings.HasPrefix(name, "__p_") || len(name) != len("__p_")+10 {
		t.Fatalf("placeholder name %q does not match __p_ + 10 digits", name)
	}
}

func TestDecideBoolSpecShapes(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	d := NewDecider(rng)

	if d.DecideBool(true, nil) != true || d.DecideBool(false, nil) != false {
		t.Fatalf("bool spec should pass through unchanged")
	}
	if d.DecideBool(0.0, nil) != false || d.DecideBool(1.0, nil) != true {
		t.Fatalf("boundary probabilities should be deterministic")
	}
	called := false
	d.Decide(func(ctx any) any {
		called = true
		return ctx
	}, "context-value")
	if !called {
		t.Fatalf("callable spec was not invoked")
	}
}

func TestDecideWeightedChoicePicksAValue(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	d := NewDecider(rng)
	choices := []WeightedChoice{{Value: "a", Weight: 1}, {Value: "b", Weight: 1}}
	for i := 0; i < 20; i++ {
		v := d.Decide(choices, nil).(string)
		if v != "a" && v != "b" {
			t.Fatalf("weighted decide returned %q", v)
		}
	}
}
