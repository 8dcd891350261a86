package mocus

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/faulttree/mocus/internal/cutset"
	"github.com/faulttree/mocus/internal/itertools"
	"github.com/faulttree/mocus/internal/logging"
	"github.com/faulttree/mocus/internal/minimize"
	"github.com/faulttree/mocus/internal/simplegate"
	"github.com/faulttree/mocus/internal/syncmap"
)

// Mocus runs the MOCUS algorithm against a single Gate DAG. A Mocus instance owns its state
// exclusively and must not be shared across goroutines except via AnalyzeAll, which coordinates
// multiple independent instances explicitly.
type Mocus struct {
	settings Settings
	built    *buildResult

	mu       sync.Mutex
	analyzed bool
	results  []CutSetResult
}

// New constructs a Mocus analysis over root, immediately normalizing it into MOCUS's simple-gate
// form (§4.3). It returns an error only for invalid Settings; structural problems with root itself
// are precondition violations and panic, per the core's error handling design.
func New(root Gate, settings Settings) (*Mocus, error) {
	if settings.LimitOrder < 0 {
		return nil, fmt.Errorf("mocus: LimitOrder must be non-negative, got %d", settings.LimitOrder)
	}
	return &Mocus{
		settings: settings,
		built:    buildGraph(root, settings.LimitOrder),
	}, nil
}

// Analyze runs the enumeration. It is idempotent: calls after the first are no-ops.
func (m *Mocus) Analyze(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.analyzed {
		return nil
	}
	defer func() { m.analyzed = true }()

	if m.built.Trivial != nil {
		for cs := range m.built.Trivial.All() {
			m.results = append(m.results, toResult(cs))
		}
		return nil
	}

	top := analyzeSimpleGate(ctx, m.built.Root)

	moduleMCS := syncmap.Map[cutset.ModuleIndex, []*cutset.CutSet]{}
	if err := prewarmModules(ctx, m.built, top, &moduleMCS); err != nil {
		return err
	}

	final := cutset.NewContainer()
	worklist := make([]*cutset.CutSet, 0, top.Len())
	for cs := range top.All() {
		worklist = append(worklist, cs)
	}
	for len(worklist) > 0 {
		n := len(worklist) - 1
		c := worklist[n]
		worklist = worklist[:n]

		if c.ModulesEmpty() {
			final.Insert(c)
			continue
		}
		mIdx, _ := c.PopModule()
		sets, ok := moduleMCS.Load(mIdx)
		if !ok {
			sets = moduleResults(analyzeSimpleGate(ctx, m.built.Modules[mIdx]))
			moduleMCS.Swap(mIdx, sets)
		}
		for _, s := range sets {
			if c.Order()+s.Order() > m.settings.LimitOrder {
				continue
			}
			joined := c.Clone()
			joined.Join(s)
			worklist = append(worklist, joined)
		}
	}

	minimized := minimize.Minimize(sliceFromContainer(final))
	for _, cs := range minimized {
		m.results = append(m.results, toResult(cs))
	}
	return nil
}

// prewarmModules concurrently analyzes every module directly referenced by the top-level
// generation phase's candidate cut sets, storing results into moduleMCS before the single-threaded
// worklist loop runs. This is sound because modules share no variables with the rest of the graph
// and the SimpleGate DAG is immutable once built (§3 Ownership, §5 Shared resources).
func prewarmModules(ctx context.Context, built *buildResult, top *cutset.Container, moduleMCS *syncmap.Map[cutset.ModuleIndex, []*cutset.CutSet]) error {
	seen := map[cutset.ModuleIndex]bool{}
	var indices []cutset.ModuleIndex
	for cs := range top.All() {
		for m := range mapset.Elements(cs.Modules()) {
			if !seen[m] {
				seen[m] = true
				indices = append(indices, m)
			}
		}
	}
	if len(indices) == 0 {
		return nil
	}
	slog.DebugContext(ctx, "mocus: prewarming modules", "count", len(indices))
	gr, gctx := errgroup.WithContext(ctx)
	for _, m := range indices {
		gr.Go(func() error {
			root, ok := built.Modules[m]
			if !ok {
				return fmt.Errorf("mocus: cut set references module %d with no entry in the module table", m)
			}
			sets := moduleResults(analyzeSimpleGate(gctx, root))
			moduleMCS.Swap(m, sets)
			return nil
		})
	}
	return gr.Wait()
}

// analyzeSimpleGate implements §4.5: single-gate analysis from an empty seed through sanitize,
// dedup, the unity short-circuit, and minimization.
func analyzeSimpleGate(ctx context.Context, gate *simplegate.SimpleGate) *cutset.Container {
	raw := cutset.NewContainer()
	gate.GenerateCutSets(cutset.New(), raw)
	slog.Log(ctx, logging.LevelTrace, "mocus: generated candidates", "count", raw.Len())

	sanitized := cutset.NewContainer()
	for cs := range raw.All() {
		cs.Sanitize()
		if cs.Empty() {
			unity := cutset.NewContainer()
			unity.Insert(cutset.New())
			return unity
		}
		sanitized.Insert(cs)
	}

	minimized := minimize.Minimize(sliceFromContainer(sanitized))
	out := cutset.NewContainer()
	for _, cs := range minimized {
		out.Insert(cs)
	}
	slog.Log(ctx, logging.LevelTrace, "mocus: minimized", "count", out.Len())
	return out
}

func sliceFromContainer(c *cutset.Container) []*cutset.CutSet {
	return slices.Collect(c.All())
}

func moduleResults(c *cutset.Container) []*cutset.CutSet {
	return sliceFromContainer(c)
}

func literalInts(s mapset.Set[cutset.LiteralIndex]) []int {
	return slices.Collect(itertools.Map(mapset.Elements(s), func(v cutset.LiteralIndex) int { return int(v) }))
}

func toResult(cs *cutset.CutSet) CutSetResult {
	pos, neg := cs.Literals()
	return CutSetResult{Positive: literalInts(pos), Negative: literalInts(neg)}
}

// CutSets returns the final, fully module-expanded minimal cut sets. Valid only after Analyze has
// completed; the order of results is unspecified.
func (m *Mocus) CutSets() []CutSetResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CutSetResult, len(m.results))
	copy(out, m.results)
	return out
}

// AnalyzeAll runs several independent Mocus instances concurrently, as when a host analyzes one
// fault tree per top event. Each instance still analyzes single-threaded internally.
func AnalyzeAll(ctx context.Context, analyses ...*Mocus) error {
	gr, gctx := errgroup.WithContext(ctx)
	for _, a := range analyses {
		gr.Go(func() error { return a.Analyze(gctx) })
	}
	return gr.Wait()
}
