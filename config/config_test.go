package config

import (
	"testing"

	"github.com/jsobf/jsobf/pipeline"
)

func TestDecodeAppliesOnlyGivenKeys(t *testing.T) {
	yamlDoc := []byte(`
rgf: all
globalVariables:
  - jQuery
  - window
lockCountermeasures: guard
`)
	opts, err := Decode(yamlDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RGF != pipeline.RGFAll {
		t.Fatalf("expected rgf=%q, got %v", pipeline.RGFAll, opts.RGF)
	}
	if !opts.GlobalVariables["jQuery"] || !opts.GlobalVariables["window"] {
		t.Fatalf("expected globalVariables to include jQuery and window, got %v", opts.GlobalVariables)
	}
	if opts.LockCountermeasures != "guard" {
		t.Fatalf("expected lockCountermeasures=guard, got %q", opts.LockCountermeasures)
	}
	// Untouched keys keep DefaultOptions()'s values.
	if opts.ControlFlowFlattening != true {
		t.Fatalf("expected controlFlowFlattening to default to true, got %v", opts.ControlFlowFlattening)
	}
}

func TestDecodeEmptyBytesReturnsDefaults(t *testing.T) {
	opts, err := Decode(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defaults := pipeline.DefaultOptions()
	if opts.ControlFlowFlattening != defaults.ControlFlowFlattening || opts.RGF != defaults.RGF {
		t.Fatalf("expected defaults, got %+v", opts)
	}
}

func TestApplyOverrideAndGetRoundTrip(t *testing.T) {
	yamlDoc := []byte("rgf: false\nverbose: false\n")

	patched, err := ApplyOverride(yamlDoc, "rgf", "all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Get(patched, "rgf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "all" {
		t.Fatalf("expected rgf=all after override, got %q", got)
	}

	opts, err := Decode(patched)
	if err != nil {
		t.Fatalf("unexpected error decoding patched config: %v", err)
	}
	if opts.RGF != "all" {
		t.Fatalf("expected decoded rgf=all, got %v", opts.RGF)
	}
}

func TestApplyOverrideBoolLiteral(t *testing.T) {
	yamlDoc := []byte("verbose: false\n")
	patched, err := ApplyOverride(yamlDoc, "verbose", "true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, err := Decode(patched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.Verbose {
		t.Fatalf("expected verbose=true after override, got %v", opts.Verbose)
	}
}
