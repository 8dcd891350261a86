// Package simplegate implements the MOCUS-normalized graph node (the "simple gate") and the
// recursive AND/OR cut-set generation algorithm that descends it.
//
// The algorithm assumes the graph is layered: along every root-to-leaf path, gate types strictly
// alternate AND/OR. It assumes the graph contains only positive gates; module sub-graphs are kept
// as opaque references (see ModuleTable) rather than linked in directly, so that they can be
// analyzed once and composed afterward.
package simplegate

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/faulttree/mocus/internal/cutset"
)

// LiteralIndex and ModuleIndex are re-exported from cutset so callers never need to import both
// packages just to build a graph.
type (
	LiteralIndex = cutset.LiteralIndex
	ModuleIndex  = cutset.ModuleIndex
)

// Operator is a SimpleGate's type: AND or OR. Unlike the richer Gate type the core consumes from
// upstream, a SimpleGate is always one of exactly these two, by construction.
type Operator int

const (
	AndOp Operator = iota
	OrOp
)

func (op Operator) String() string {
	if op == AndOp {
		return "AND"
	}
	return "OR"
}

// A SimpleGate is a MOCUS-normalized DAG node. Its children are always of the opposite Operator
// (AND over OR, OR over AND), the layering invariant the preprocessor guarantees and this package
// otherwise treats as a programmer error.
type SimpleGate struct {
	Op         Operator
	LimitOrder int

	pos     mapset.Set[LiteralIndex]
	neg     mapset.Set[LiteralIndex]
	modules mapset.Set[ModuleIndex]
	gates   []*SimpleGate

	// Sorted snapshots of pos/neg/modules, populated by Finalize, used for deterministic iteration
	// order during generation.
	posOrder []LiteralIndex
	negOrder []LiteralIndex
	modOrder []ModuleIndex
}

// New returns an empty SimpleGate of the given Operator.
func New(op Operator, limitOrder int) *SimpleGate {
	return &SimpleGate{
		Op:         op,
		LimitOrder: limitOrder,
		pos:        mapset.NewThreadUnsafeSet[LiteralIndex](),
		neg:        mapset.NewThreadUnsafeSet[LiteralIndex](),
		modules:    mapset.NewThreadUnsafeSet[ModuleIndex](),
	}
}

// AddPositiveLiteral adds a positively-occurring argument.
func (g *SimpleGate) AddPositiveLiteral(i LiteralIndex) { g.pos.Add(i) }

// AddNegativeLiteral adds a negatively-occurring (complemented) argument.
func (g *SimpleGate) AddNegativeLiteral(i LiteralIndex) { g.neg.Add(i) }

// AddModule adds a module reference. The module's root is not linked in as a child gate; its
// simple-gate tree is analyzed independently and composed later (see the driver's module
// expansion).
func (g *SimpleGate) AddModule(m ModuleIndex) { g.modules.Add(m) }

// AddGate adds a child gate, which must be of the opposite Operator.
func (g *SimpleGate) AddGate(child *SimpleGate) {
	if child.Op == g.Op {
		panic(fmt.Errorf("simplegate: layering violation: %v gate given a %v gate child", g.Op, child.Op))
	}
	g.gates = append(g.gates, child)
}

// Finalize snapshots sorted copies of pos/neg/modules for deterministic iteration. Call once after
// a gate's arguments are fully populated and before GenerateCutSets.
func (g *SimpleGate) Finalize() {
	g.posOrder = sortedSlice(g.pos)
	g.negOrder = sortedSlice(g.neg)
	g.modOrder = sortedModules(g.modules)
}

func sortedSlice(s mapset.Set[LiteralIndex]) []LiteralIndex {
	out := s.ToSlice()
	insertionSortLiterals(out)
	return out
}

func sortedModules(s mapset.Set[ModuleIndex]) []ModuleIndex {
	out := s.ToSlice()
	insertionSortModules(out)
	return out
}

func insertionSortLiterals(s []LiteralIndex) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func insertionSortModules(s []ModuleIndex) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// A ModuleTable maps a ModuleIndex to the root SimpleGate of that module's sub-graph.
type ModuleTable map[ModuleIndex]*SimpleGate

// GenerateCutSets dispatches to the AND or OR generation rule according to g.Op, emitting candidate
// cut sets descended from in into out.
func (g *SimpleGate) GenerateCutSets(in *cutset.CutSet, out *cutset.Container) {
	switch g.Op {
	case OrOp:
		g.orGateCutSets(in, out)
	case AndOp:
		g.andGateCutSets(in, out)
	default:
		panic(fmt.Errorf("simplegate: gate has unrecognized operator %v; MOCUS works with AND/OR gates only", g.Op))
	}
}

// andGateCutSets implements §4.2's AND-gate semantics.
func (g *SimpleGate) andGateCutSets(in *cutset.CutSet, out *cutset.Container) {
	// Null case: a positive argument of this AND gate is already excluded on this path, or vice
	// versa, so the conjunction is contradictory.
	if in.HasAnyNegative(g.pos) || in.HasAnyPositive(g.neg) {
		return
	}
	if in.CheckJointOrder(g.pos, g.LimitOrder) {
		return
	}
	extended := in.Clone()
	extended.AddPositiveSet(g.pos)
	extended.AddNegativeSet(g.neg)
	extended.AddModuleSet(g.modules)

	working := cutset.NewContainer()
	working.Insert(extended)
	for _, child := range g.gates {
		next := cutset.NewContainer()
		for cs := range working.All() {
			child.orGateCutSets(cs, next)
		}
		working = next
	}
	if working.Len() == 0 {
		return
	}
	if working.Contains(extended) {
		// Every other set in working is a superset of extended, so only extended is minimal here.
		out.Insert(extended)
		return
	}
	out.Merge(working)
}

// orGateCutSets implements §4.2's OR-gate semantics.
func (g *SimpleGate) orGateCutSets(in *cutset.CutSet, out *cutset.Container) {
	if in.HasAnyPositive(g.pos) || in.HasAnyNegative(g.neg) || in.HasAnyModule(g.modules) {
		// in already witnesses this OR gate; it is a local minimum.
		out.Insert(in)
		return
	}
	local := cutset.NewContainer()
	for _, child := range g.gates {
		child.andGateCutSets(in, local)
		if local.Contains(in) {
			out.Insert(in)
			return
		}
	}
	if in.Order() < g.LimitOrder {
		for _, lit := range g.posOrder {
			if in.HasNegative(lit) {
				continue
			}
			cs := in.Clone()
			cs.AddPositive(lit)
			out.Insert(cs)
		}
	}
	for _, lit := range g.negOrder {
		if in.HasPositive(lit) {
			continue
		}
		cs := in.Clone()
		cs.AddNegative(lit)
		out.Insert(cs)
	}
	for _, m := range g.modOrder {
		cs := in.Clone()
		cs.AddModule(m)
		out.Insert(cs)
	}
	out.Merge(local)
}
