package main

import (
	"os"

	"github.com/fatih/color"

	"benchforge/internal/engine"
	"benchforge/internal/runner"
)

var (
	allSuites = []string{
		"array",
		"bitset",
		"charseq",
		"hashset",
		"list",
		"prioqueue",
		"vector",
	}
)

var red = color.New(color.FgRed)

func main() {
	// Forked measurement children re-enter here with a marker argument
	// and speak JSON over stdin/stdout instead of running the campaign.
	if len(os.Args) > 1 && os.Args[1] == engine.ForkChildArg {
		os.Exit(engine.ChildMain(os.Stdin, os.Stdout, os.Stderr))
	}

	enableANSI()

	r := runner.New()

	if err := r.RunDebug(allSuites); err != nil {
		fatal(err)
	}
	if err := r.RunSlow(allSuites); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	_, _ = red.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
