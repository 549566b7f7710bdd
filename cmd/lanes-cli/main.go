package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"go.uber.org/zap"

	"github.com/peterkuimelis/lanes/internal/game"
	"github.com/peterkuimelis/lanes/internal/log"
	"github.com/peterkuimelis/lanes/internal/scenario"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		runScenario(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	case "presets":
		if err := printPresets(os.Stdout); err != nil {
			fail(err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  lanes run [--scenarios FILE] [--scenario NAME|N] [--tick D] [--verbose] [--json]")
	fmt.Println("  lanes list [--scenarios FILE]")
	fmt.Println("  lanes presets")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run      Play a scripted scenario and print the combat log")
	fmt.Println("  list     List the scenarios in a scenario file")
	fmt.Println("  presets  List the preset abilities")
}

func runScenario(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	file := fs.String("scenarios", "scenarios.yaml", "path to scenarios file")
	which := fs.String("scenario", "1", "scenario name or number")
	tick := fs.Duration("tick", 0, "sequencer step (default: the scenario's, or 50ms)")
	verbose := fs.Bool("verbose", false, "log engine diagnostics to stderr")
	jsonOut := fs.Bool("json", false, "print events as JSON log lines")
	fs.Parse(args)

	f, err := scenario.Load(*file)
	if err != nil {
		fail(err)
	}
	s, err := pick(f, *which)
	if err != nil {
		fail(err)
	}

	diag := zap.NewNop()
	if *verbose {
		if diag, err = zap.NewDevelopment(); err != nil {
			fail(err)
		}
	}
	defer diag.Sync()

	var logger log.EventLogger = log.NewTextLogger(os.Stdout)
	if *jsonOut {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		z, err := cfg.Build()
		if err != nil {
			fail(err)
		}
		defer z.Sync()
		logger = log.NewZapLogger(z.Named("events"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := scenario.Run(ctx, s, logger, diag, *tick)
	if err != nil {
		fail(err)
	}

	if *jsonOut {
		return
	}
	fmt.Println()
	fmt.Printf("%s: %d turns, health P1 %d / P2 %d\n", s.Name, out.Turns, out.Health[0], out.Health[1])
	if out.Over {
		fmt.Println(out.Result)
	}
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	file := fs.String("scenarios", "scenarios.yaml", "path to scenarios file")
	fs.Parse(args)

	f, err := scenario.Load(*file)
	if err != nil {
		fail(err)
	}
	for i, s := range f.Scenarios {
		fmt.Printf("%2d. %s (%d turns scripted)\n", i+1, s.Name, len(s.Turns))
	}
}

func printPresets(w io.Writer) error {
	for _, name := range game.PresetNames() {
		a, err := game.LookupPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, a)
	}
	return nil
}

// pick resolves a scenario by number first, then by name.
func pick(f *scenario.File, which string) (*scenario.Scenario, error) {
	if n, err := strconv.Atoi(which); err == nil {
		return f.ByNumber(n)
	}
	return f.ByName(which)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
