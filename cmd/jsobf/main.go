// Command jsobf is the CLI entry point for the JavaScript obfuscation
// pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/jsobf/jsobf/cmd/jsobf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
