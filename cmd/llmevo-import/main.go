// Command llmevo-import loads the benchmark collections into the document
// store and prints the score frontier of what was loaded.
package main

import (
	"fmt"
	"os"

	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "llmevo-import:", err)
		os.Exit(1)
	}
}
