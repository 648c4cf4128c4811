package obfuscator

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/jsobf/jsobf/frontend"
	"github.com/jsobf/jsobf/generate"
	"github.com/jsobf/jsobf/pipeline"
)

// TestObfuscateFixtures runs small JavaScript sources end to end through
// Parse -> Apply -> Generate and snapshots the generated source with
// go-snaps, the way the teacher's fixture_test.go snapshots interpreter
// output across its own fixture corpus. Every run uses a fixed seed pair so
// the generated identifiers and dispatch tables are stable across runs; a
// snapshot diff here means either a pass's behavior changed or its RNG
// consumption pattern shifted (new Decider/Generator calls, reordered
// draws), both worth a human looking at before accepting `UPDATE_SNAPS=true`.
func TestObfuscateFixtures(t *testing.T) {
	fixtures := []struct {
		name   string
		source string
		opts   func(pipeline.Options) pipeline.Options
	}{
		{
			name:   "control_flow_flattening_if_else",
			source: `function classify(n) { if (n > 0) { return "pos"; } else { return "neg"; } }`,
			opts: func(o pipeline.Options) pipeline.Options {
				o.Dispatcher, o.Flatten, o.RGF = false, false, false
				return o
			},
		},
		{
			name:   "control_flow_flattening_while_loop",
			source: `function sumTo(n) { var total = 0; var i = 0; while (i < n) { total = total + i; i = i + 1; } return total; }`,
			opts: func(o pipeline.Options) pipeline.Options {
				o.Dispatcher, o.Flatten, o.RGF = false, false, false
				return o
			},
		},
		{
			name:   "dispatcher_sibling_calls",
			source: `function run(x) { function double(v) { return v * 2; } function triple(v) { return v * 3; } return double(x) + triple(x); }`,
			opts: func(o pipeline.Options) pipeline.Options {
				o.ControlFlowFlattening, o.Flatten, o.RGF = false, false, false
				return o
			},
		},
		{
			name:   "flatten_extracts_pure_helper",
			source: `function area(w, h) { var result = w * h; return result; }`,
			opts: func(o pipeline.Options) pipeline.Options {
				o.ControlFlowFlattening, o.Dispatcher, o.RGF = false, false, false
				return o
			},
		},
		{
			name:   "rgf_wraps_global_reference",
			source: `var count = 0; function increment() { count = count + 1; return count; }`,
			opts: func(o pipeline.Options) pipeline.Options {
				o.ControlFlowFlattening, o.Dispatcher, o.Flatten = false, false, false
				o.RGF = "all"
				o.GlobalVariables = map[string]bool{"count": true}
				return o
			},
		},
		{
			name:   "full_pipeline_switch_statement",
			source: `function describe(day) { switch (day) { case 0: return "Sun"; case 1: return "Mon"; default: return "other"; } }`,
			opts:   func(o pipeline.Options) pipeline.Options { return o },
		},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			tree, errs := frontend.Parse(fx.source)
			if len(errs) > 0 {
				t.Fatalf("unexpected parse errors for %s: %v", fx.name, errs)
			}

			opts := fx.opts(pipeline.DefaultOptions())
			o := New(opts, 42, 7)
			if err := o.Apply(tree); err != nil {
				t.Fatalf("Apply failed for %s: %v", fx.name, err)
			}

			output := generate.Generate(tree)
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", fx.name), output)
		})
	}
}
