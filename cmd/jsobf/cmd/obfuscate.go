package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsobf/jsobf/ast"
	"github.com/jsobf/jsobf/config"
	"github.com/jsobf/jsobf/frontend"
	"github.com/jsobf/jsobf/generate"
	"github.com/jsobf/jsobf/internal/diag"
	"github.com/jsobf/jsobf/obfuscator"
	"github.com/jsobf/jsobf/pipeline"
)

var (
	outputFile       string
	configFile       string
	setOverrides     []string
	obfuscateVerbose bool
	seed             int64
)

var obfuscateCmd = &cobra.Command{
	Use:   "obfuscate [file]",
	Short: "Obfuscate a JavaScript file",
	Long: `Obfuscate rewrites a JavaScript source file through the full pass
pipeline (control flow flattening, dispatcher, flatten, RGF) and writes the
transformed source to an output file.

Examples:
  # Obfuscate a script with every pass at its default settings
  jsobf obfuscate script.js

  # Write to a specific output file
  jsobf obfuscate script.js -o script.min.js

  # Load pass options from a config file
  jsobf obfuscate script.js --config jsobf.yaml

  # Override a single option from the command line
  jsobf obfuscate script.js --set rgf=all --set globalVariables=jQuery`,
	Args: cobra.ExactArgs(1),
	RunE: runObfuscate,
}

func init() {
	rootCmd.AddCommand(obfuscateCmd)

	obfuscateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.obf.js)")
	obfuscateCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file of pass options")
	obfuscateCmd.Flags().StringArrayVar(&setOverrides, "set", nil, "override a single config key, as key=value (repeatable)")
	obfuscateCmd.Flags().BoolVarP(&obfuscateVerbose, "verbose", "v", false, "verbose output")
	obfuscateCmd.Flags().Int64Var(&seed, "seed", 0, "master RNG seed (0 picks a random seed)")
}

func runObfuscate(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	opts, err := loadOptions()
	if err != nil {
		return err
	}
	opts.Verbose = opts.Verbose || obfuscateVerbose

	if obfuscateVerbose {
		fmt.Fprintf(os.Stderr, "Parsing %s...\n", filename)
	}

	tree, parseErrs := frontend.Parse(source)
	if len(parseErrs) > 0 {
		diagErrs := make([]*diag.Error, 0, len(parseErrs))
		for _, perr := range parseErrs {
			diagErrs = append(diagErrs, diag.New(
				diagPosition(perr.Line, perr.Column), perr.Message, source, filename,
			))
		}
		fmt.Fprint(os.Stderr, diag.FormatAll(diagErrs, true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("parsing failed with %d error(s)", len(parseErrs))
	}

	seed1, seed2 := resolveSeeds(seed)
	if obfuscateVerbose {
		fmt.Fprintf(os.Stderr, "Running pipeline (seed1=%d seed2=%d)...\n", seed1, seed2)
	}

	pipe := obfuscator.New(opts, seed1, seed2)
	if err := pipe.Apply(tree); err != nil {
		return fmt.Errorf("obfuscation failed: %w", err)
	}

	output := generate.Generate(tree)

	dest := outputFile
	if dest == "" {
		dest = defaultOutputPath(filename)
	}
	if err := os.WriteFile(dest, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", dest, err)
	}

	if obfuscateVerbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", dest)
	}
	return nil
}

func loadOptions() (pipeline.Options, error) {
	var yamlBytes []byte
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		yamlBytes = data
	}

	for _, kv := range setOverrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return pipeline.Options{}, fmt.Errorf("invalid --set value %q, expected key=value", kv)
		}
		if len(yamlBytes) == 0 {
			yamlBytes = []byte("{}\n")
		}
		patched, err := config.ApplyOverride(yamlBytes, key, value)
		if err != nil {
			return pipeline.Options{}, err
		}
		yamlBytes = patched
	}

	return config.Decode(yamlBytes)
}

func resolveSeeds(seed int64) (uint64, uint64) {
	if seed != 0 {
		r := rand.New(rand.NewSource(seed))
		return r.Uint64(), r.Uint64()
	}
	r := rand.New(rand.NewSource(rand.Int63()))
	return r.Uint64(), r.Uint64()
}

func diagPosition(line, column int) ast.Position {
	return ast.Position{Line: line, Column: column}
}

func defaultOutputPath(filename string) string {
	if strings.HasSuffix(filename, ".js") {
		return strings.TrimSuffix(filename, ".js") + ".obf.js"
	}
	return filename + ".obf.js"
}
