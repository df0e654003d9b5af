// Command scatha is the host driver: it compiles source through the
// lex/parse/analyze/lower pipeline for inspection, and loads and runs
// (or disassembles) an already-assembled bytecode binary.
package main

import (
	"os"

	"github.com/scatha-lang/scatha/cmd/scatha/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
