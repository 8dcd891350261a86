// Command mocusdump runs MOCUS against a small set of bundled example fault trees and prints the
// resulting minimal cut sets, for manual inspection and as a runnable demonstration of the library.
package main

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"log"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/amterp/color"

	"github.com/faulttree/mocus"
	"github.com/faulttree/mocus/internal/fakegate"
	"github.com/faulttree/mocus/internal/graphwalk"
	"github.com/faulttree/mocus/internal/itertools"
	"github.com/faulttree/mocus/internal/logging"
)

var (
	hicyanf  = color.New(color.FgHiCyan).SprintfFunc()
	hiblackf = color.New(color.FgHiBlack).SprintfFunc()
)

type outputFn = func(ctx context.Context, results []mocus.CutSetResult) error

var allOutput = map[string]outputFn{
	"tree": outputTree,
	"raw":  outputRaw,
	"dot":  outputDot,
}

type example struct {
	describe string
	build    func() mocus.Gate
}

// allExamples mirrors spec.md §8's concrete end-to-end scenarios, plus one module example to
// exercise module decomposition end-to-end.
var allExamples = map[string]example{
	"single": {
		"OR gate with one basic event",
		func() mocus.Gate { return fakegate.Or(fakegate.Lit(1)) },
	},
	"and": {
		"AND of two basic events",
		func() mocus.Gate { return fakegate.And(fakegate.Lit(1), fakegate.Lit(2)) },
	},
	"or": {
		"OR of two basic events",
		func() mocus.Gate { return fakegate.Or(fakegate.Lit(1), fakegate.Lit(2)) },
	},
	"absorption": {
		"OR(1, AND(1, 2)) -- the AND branch is dominated",
		func() mocus.Gate {
			return fakegate.Or(
				fakegate.Lit(1),
				fakegate.Arg(fakegate.And(fakegate.Lit(1), fakegate.Lit(2))),
			)
		},
	},
	"orderlimit": {
		"AND of four basic events, meant to be run with a low -limit",
		func() mocus.Gate {
			return fakegate.And(fakegate.Lit(1), fakegate.Lit(2), fakegate.Lit(3), fakegate.Lit(4))
		},
	},
	"module": {
		"OR(1, module AND(2, 3)) -- exercises module decomposition",
		func() mocus.Gate {
			return fakegate.Or(
				fakegate.Lit(1),
				fakegate.Arg(fakegate.Module(fakegate.And(fakegate.Lit(2), fakegate.Lit(3)))),
			)
		},
	},
}

func outputTree(_ context.Context, results []mocus.CutSetResult) error {
	byOrder := map[int][]mocus.CutSetResult{}
	for _, r := range results {
		byOrder[len(r.Positive)] = append(byOrder[len(r.Positive)], r)
	}
	orders := make([]int, 0, len(byOrder))
	for o := range byOrder {
		orders = append(orders, o)
	}
	sort.Ints(orders)
	for _, o := range orders {
		fmt.Printf("%s\n", hicyanf("order %d", o))
		for _, r := range byOrder[o] {
			fmt.Printf("  %s\n", formatCutSet(r))
		}
	}
	return nil
}

func outputRaw(_ context.Context, results []mocus.CutSetResult) error {
	for _, r := range results {
		fmt.Println(formatCutSet(r))
	}
	return nil
}

func outputDot(_ context.Context, results []mocus.CutSetResult) error {
	fmt.Print("digraph {\n")
	fmt.Print("  node [style=filled,fillcolor=\"white\",shape=box];\n")
	fmt.Print("  top [fillcolor=\"black\",fontcolor=\"white\"];\n")
	for i, r := range results {
		name := fmt.Sprintf("cs%d", i)
		fmt.Printf("  %q [label=%q];\n", name, formatCutSet(r))
		fmt.Printf("  %q -> %q;\n", "top", name)
	}
	fmt.Print("}\n")
	return nil
}

// dumpGates walks the input Gate DAG itself (before any cut-set generation) and prints each gate
// once, after the parent through which the walk first reached it, for inspecting how -example
// built its tree.
func dumpGates(ctx context.Context, root mocus.Gate) error {
	seq, done := graphwalk.All[mocus.Gate, int](ctx, root, func(g mocus.Gate) iter.Seq2[mocus.Gate, int] {
		return itertools.Swap(g.GateArgs())
	})
	for g := range seq {
		mod := ""
		if g.IsModule() {
			mod = " (module)"
		}
		fmt.Printf("gate %d: %v%s\n", g.Index(), g.Type(), hiblackf("%s", mod))
	}
	return done()
}

func formatCutSet(r mocus.CutSetResult) string {
	pos := append([]int(nil), r.Positive...)
	neg := append([]int(nil), r.Negative...)
	slices.Sort(pos)
	slices.Sort(neg)
	parts := make([]string, 0, len(pos)+len(neg))
	for _, v := range pos {
		parts = append(parts, fmt.Sprintf("+%d", v))
	}
	for _, v := range neg {
		parts = append(parts, hiblackf("-%d", v))
	}
	return strings.Join(parts, " ")
}

type config struct {
	exampleName string
	limitOrder  int
	formatName  string
	output      outputFn
}

var slogLevel = func() *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(logging.LevelInfo)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return lvl
}()

func parseFlags() *config {
	cfg := &config{}
	flag.StringVar(&cfg.exampleName, "example", "single",
		fmt.Sprintf("Bundled example fault tree to analyze (one of: %s).", strings.Join(exampleNames(), ", ")))
	flag.IntVar(&cfg.limitOrder, "limit", 6, "Maximum order of reported cut sets.")
	flag.StringVar(&cfg.formatName, "format", "tree", "Output format (one of: tree, raw, dot, gates).")

	bumpLogLevel := func(lower bool) {
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), lower))
	}
	flag.BoolFunc("v", "Increase log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(true)
		default:
			lvl, err := logging.StringToLevel(arg)
			if err != nil {
				return err
			}
			slogLevel.Set(lvl)
		}
		return nil
	})
	flag.BoolFunc("q", "Decrease log verbosity.", func(string) error {
		bumpLogLevel(false)
		return nil
	})
	colorChoices := map[string]bool{"auto": color.NoColor, "never": true, "always": false}
	flag.Func("color", "Output colors according to mode (one of: auto, never, always).", func(arg string) error {
		v, ok := colorChoices[arg]
		if !ok {
			return fmt.Errorf("expected one of: auto, never, always")
		}
		color.NoColor = v
		return nil
	})
	flag.Parse()

	if cfg.formatName != "gates" {
		out, ok := allOutput[cfg.formatName]
		if !ok {
			log.Fatalf("unrecognized -format %q", cfg.formatName)
		}
		cfg.output = out
	}
	if _, ok := allExamples[cfg.exampleName]; !ok {
		log.Fatalf("unrecognized -example %q", cfg.exampleName)
	}
	return cfg
}

func exampleNames() []string {
	names := make([]string, 0, len(allExamples))
	for n := range allExamples {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func run(ctx context.Context, cfg *config) error {
	ex := allExamples[cfg.exampleName]
	slog.InfoContext(ctx, "analyzing example", "name", cfg.exampleName, "describe", ex.describe)
	root := ex.build()
	if cfg.formatName == "gates" {
		return dumpGates(ctx, root)
	}
	m, err := mocus.New(root, mocus.Settings{LimitOrder: cfg.limitOrder})
	if err != nil {
		return err
	}
	if err := m.Analyze(ctx); err != nil {
		return err
	}
	return cfg.output(ctx, m.CutSets())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := parseFlags()
	if err := run(ctx, cfg); err != nil {
		slog.ErrorContext(ctx, "failed", "error", err)
		os.Exit(1)
	}
}
