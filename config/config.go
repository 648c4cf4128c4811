// Package config loads obfuscator options from a YAML configuration file
// (spec.md §6's option surface) and supports point overrides -- e.g. a
// repeated CLI `--set key=value` flag -- without a full struct round-trip,
// the way a build tool lets a flag win over a checked-in config file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jsobf/jsobf/pipeline"
)

// raw mirrors the YAML surface of pipeline.Options. It exists so
// yaml.Unmarshal has concrete field types to decode into before this
// package resolves the permissive any-typed pass options (each of which
// may be a bool, a probability, "all", or a weighted list).
type raw struct {
	ControlFlowFlattening any      `yaml:"controlFlowFlattening"`
	Dispatcher            any      `yaml:"dispatcher"`
	Flatten               any      `yaml:"flatten"`
	RGF                   any      `yaml:"rgf"`
	IdentifierGenerator   any      `yaml:"identifierGenerator"`
	GlobalVariables       []string `yaml:"globalVariables"`
	LockCountermeasures   string   `yaml:"lockCountermeasures"`
	Verbose               bool     `yaml:"verbose"`
	DebugComments         bool     `yaml:"debugComments"`
}

// Load reads and decodes a YAML config file at path into Options.
func Load(path string) (pipeline.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses raw YAML bytes into Options, starting from
// pipeline.DefaultOptions() so a config that only sets one key leaves
// every other pass at its default.
func Decode(data []byte) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if len(data) == 0 {
		return opts, nil
	}

	var r raw
	if err := yaml.Unmarshal(data, &r); err != nil {
		return pipeline.Options{}, fmt.Errorf("parsing config: %w", err)
	}

	if r.ControlFlowFlattening != nil {
		opts.ControlFlowFlattening = r.ControlFlowFlattening
	}
	if r.Dispatcher != nil {
		opts.Dispatcher = r.Dispatcher
	}
	if r.Flatten != nil {
		opts.Flatten = r.Flatten
	}
	if r.RGF != nil {
		opts.RGF = r.RGF
	}
	if r.IdentifierGenerator != nil {
		opts.IdentifierGenerator = r.IdentifierGenerator
	}
	for _, name := range r.GlobalVariables {
		opts.GlobalVariables[name] = true
	}
	if r.LockCountermeasures != "" {
		opts.LockCountermeasures = r.LockCountermeasures
	}
	opts.Verbose = r.Verbose
	opts.DebugComments = r.DebugComments

	return opts, nil
}

// ApplyOverride patches a single `key=value` CLI override (e.g. a repeated
// `--set` flag, addressed by gjson/sjson dotted path) onto raw YAML config
// bytes before Decode ever sees them. The override is applied through the
// JSON representation, since YAML is a superset of JSON and sjson/gjson
// only understand the latter.
func ApplyOverride(yamlBytes []byte, key, value string) ([]byte, error) {
	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("converting config to JSON for override: %w", err)
	}

	patched, err := sjson.SetRaw(string(jsonBytes), key, jsonLiteral(value))
	if err != nil {
		return nil, fmt.Errorf("applying override %s=%s: %w", key, value, err)
	}

	out, err := yaml.JSONToYAML([]byte(patched))
	if err != nil {
		return nil, fmt.Errorf("converting patched config back to YAML: %w", err)
	}
	return out, nil
}

// Get reads a single value out of raw YAML config bytes via a gjson
// dotted path. No command of the CLI calls it.
func Get(yamlBytes []byte, path string) (string, error) {
	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return "", fmt.Errorf("converting config to JSON: %w", err)
	}
	return gjson.GetBytes(jsonBytes, path).String(), nil
}

// jsonLiteral renders value as a bare JSON literal when it parses as a
// bool or a number, or as a quoted JSON string otherwise, so
// `--set rgf=all` produces the string "all" while `--set verbose=true`
// produces the boolean true.
func jsonLiteral(value string) string {
	if value == "true" || value == "false" {
		return value
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value
	}
	return strconv.Quote(value)
}
