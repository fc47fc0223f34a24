package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/selfswitch/internal/logging"
	"github.com/danielpatrickdp/selfswitch/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	verbose := flag.Bool("v", false, "log every dispatched command")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [-v]")
		os.Exit(2)
	}
	os.Exit(run(*fixturePath, *verbose))
}

// #endregion main

// #region run

func run(path string, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	level := "disabled"
	if verbose {
		level = "debug"
	}
	logger := logging.NewLogger("replay", level, os.Stderr)

	rep, err := replay.RunFixture(context.Background(), f, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	if f.Description != "" {
		fmt.Printf("Fixture: %s\n", f.Description)
	}
	fmt.Printf("%-8s  %-9s  %4s  %6s  %s\n", "Step", "Decision", "Map", "Writes", "Reason")
	for _, r := range rep.Results {
		fmt.Printf("%-8s  %-9s  %4d  %6d  %s\n", r.StepID, r.Decision, r.MapID, r.Writes, r.Reason)
	}

	s := rep.Summary
	fmt.Printf("\n%d steps: %d applied, %d rejected, %d no-op, %d failed; %d switches set\n",
		s.TotalSteps, s.Applied, s.Rejected, s.NoOps, s.Failed, len(rep.Final))

	if rep.Passed() {
		fmt.Println("PASS")
		return 0
	}
	for _, m := range rep.StepMismatches {
		fmt.Printf("MISMATCH %s\n", m)
	}
	for _, m := range rep.Mismatches {
		fmt.Printf("MISMATCH %s\n", m)
	}
	fmt.Println("FAIL")
	return 1
}

// #endregion run
