package mocus

import (
	"fmt"

	"github.com/faulttree/mocus/internal/cutset"
	"github.com/faulttree/mocus/internal/simplegate"
)

// buildResult is the outcome of normalizing a Gate DAG into MOCUS's simple-gate form. Exactly one
// of Trivial or Root is non-nil: a trivial root short-circuits the whole analysis with a
// precomputed container, bypassing generation entirely.
type buildResult struct {
	Trivial *cutset.Container
	Root    *simplegate.SimpleGate
	Modules simplegate.ModuleTable
}

// buildGraph normalizes root into simple-gate form per §4.3: it detects the three trivial-root
// cases first, then performs a memoized depth-first descent that allocates one SimpleGate per
// non-constant gate reachable from root (module roots included, recorded in the module table),
// wiring module references into their parents as opaque indices rather than linked children.
func buildGraph(root Gate, limitOrder int) *buildResult {
	if trivial := trivialRoot(root, limitOrder); trivial != nil {
		return &buildResult{Trivial: trivial}
	}

	modules := simplegate.ModuleTable{}
	memo := map[int]*simplegate.SimpleGate{}
	sg := buildSimpleGate(root, limitOrder, modules, memo)
	return &buildResult{Root: sg, Modules: modules}
}

// trivialRoot recognizes the three trivial root shapes from §4.3 and returns their precomputed
// result, or nil if root requires full descent.
func trivialRoot(root Gate, limitOrder int) *cutset.Container {
	if root.IsConstant() {
		c := cutset.NewContainer()
		switch root.State() {
		case StateUnity:
			c.Insert(cutset.New())
		case StateNull:
			// empty container: no cut sets
		default:
			panic(fmt.Errorf("mocus: gate %d is constant with unrecognized state %v", root.Index(), root.State()))
		}
		return c
	}
	if root.Type() == GateNull {
		var keys []int
		var varArgs []int
		for key, v := range root.VariableArgs() {
			keys = append(keys, key)
			varArgs = append(varArgs, v)
		}
		for range root.GateArgs() {
			panic(fmt.Errorf("mocus: NULL root gate %d has a gate argument; expected exactly one variable", root.Index()))
		}
		if len(varArgs) != 1 {
			panic(fmt.Errorf("mocus: NULL root gate %d has %d variable arguments; expected exactly one", root.Index(), len(varArgs)))
		}
		c := cutset.NewContainer()
		cs := cutset.New()
		if keys[0] < 0 {
			// A complemented sole child under a NULL root is a legitimate input (see
			// mocus.cc's signed single-child handling): it yields a negative-literal singleton,
			// which carries order 0 and so is reportable regardless of limitOrder.
			cs.AddNegative(cutset.LiteralIndex(varArgs[0]))
			c.Insert(cs)
		} else if limitOrder >= 1 {
			cs.AddPositive(cutset.LiteralIndex(varArgs[0]))
			c.Insert(cs)
		}
		return c
	}
	return nil
}

// buildSimpleGate recursively converts gate and its descendants, memoizing by Index so a gate
// shared by multiple parents is built exactly once.
func buildSimpleGate(gate Gate, limitOrder int, modules simplegate.ModuleTable, memo map[int]*simplegate.SimpleGate) *simplegate.SimpleGate {
	if sg, ok := memo[gate.Index()]; ok {
		return sg
	}
	if gate.IsConstant() {
		panic(fmt.Errorf("mocus: gate %d is constant below the root; preprocessing should have eliminated it", gate.Index()))
	}

	var op simplegate.Operator
	switch gate.Type() {
	case GateAnd:
		op = simplegate.AndOp
	case GateOr:
		op = simplegate.OrOp
	default:
		panic(fmt.Errorf("mocus: gate %d has unsupported type %v; MOCUS requires AND/OR gates only", gate.Index(), gate.Type()))
	}

	sg := simplegate.New(op, limitOrder)
	// Register in memo before recursing into children so a gate reached again during its own
	// descent resolves to this same instance. A cycle (a precondition violation) therefore does not
	// recurse forever; it is not detected either, and the build completes.
	memo[gate.Index()] = sg

	if gate.IsModule() {
		modules[cutset.ModuleIndex(gate.Index())] = sg
	}

	for key, v := range gate.VariableArgs() {
		if key < 0 {
			sg.AddNegativeLiteral(cutset.LiteralIndex(v))
		} else {
			sg.AddPositiveLiteral(cutset.LiteralIndex(v))
		}
	}
	for key, child := range gate.GateArgs() {
		if key < 0 {
			panic(fmt.Errorf("mocus: gate %d has a complemented gate argument (child %d); unsupported in MOCUS-normalized form", gate.Index(), child.Index()))
		}
		if child.IsModule() {
			sg.AddModule(cutset.ModuleIndex(child.Index()))
			buildSimpleGate(child, limitOrder, modules, memo)
			continue
		}
		sg.AddGate(buildSimpleGate(child, limitOrder, modules, memo))
	}
	for range gate.ConstantArgs() {
		panic(fmt.Errorf("mocus: gate %d has a constant argument; preprocessing should have eliminated it", gate.Index()))
	}

	sg.Finalize()
	return sg
}
