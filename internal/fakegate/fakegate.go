// Package fakegate builds fake Gate graphs for use in tests and in the CLI demo's bundled example
// fault trees, adapted from the teacher's Option-functional fake-module builder.
package fakegate

import (
	"iter"
	"sync/atomic"

	"github.com/faulttree/mocus"
)

var nextIndex atomic.Int64

func allocIndex() int {
	return int(nextIndex.Add(1))
}

// A GateArg is one argument to And/Or/Null: either a basic-event variable (Lit/NegLit) or a child
// gate (Arg/NegArg), each with its own polarity.
type GateArg struct {
	gate     *Gate
	variable int
	negative bool
}

// Lit returns a positively-occurring basic-event argument.
func Lit(v int) GateArg { return GateArg{variable: v} }

// NegLit returns a negatively-occurring (complemented) basic-event argument.
func NegLit(v int) GateArg { return GateArg{variable: v, negative: true} }

// Arg returns a positively-occurring child-gate argument.
func Arg(g *Gate) GateArg { return GateArg{gate: g} }

// NegArg returns a complemented child-gate argument. The core's graph builder rejects these;
// NegArg exists so tests can exercise that rejection.
func NegArg(g *Gate) GateArg { return GateArg{gate: g, negative: true} }

// A Gate is a fake implementation of mocus.Gate assembled directly in Go code, without any
// fault-tree file format in between.
type Gate struct {
	index    int
	typ      mocus.GateType
	state    mocus.GateState
	constant bool
	module   bool
	gateArgs []gateArg
	varArgs  []varArg
}

type gateArg struct {
	key int
	g   *Gate
}

type varArg struct {
	key int
	v   int
}

func newGate(typ mocus.GateType, args []GateArg) *Gate {
	g := &Gate{index: allocIndex(), typ: typ}
	for _, a := range args {
		if a.gate != nil {
			key := a.gate.index
			if a.negative {
				key = -key
			}
			g.gateArgs = append(g.gateArgs, gateArg{key: key, g: a.gate})
		} else {
			key := a.variable
			if a.negative {
				key = -key
			}
			g.varArgs = append(g.varArgs, varArg{key: key, v: a.variable})
		}
	}
	return g
}

// And returns a new AND gate over args.
func And(args ...GateArg) *Gate { return newGate(mocus.GateAnd, args) }

// Or returns a new OR gate over args.
func Or(args ...GateArg) *Gate { return newGate(mocus.GateOr, args) }

// Null returns a new NULL (pass-through) gate over a single argument, for exercising the graph
// builder's trivial NULL-root case.
func Null(arg GateArg) *Gate { return newGate(mocus.GateNull, []GateArg{arg}) }

// True returns a constant-UNITY gate, for exercising the graph builder's trivial constant-root
// cases.
func True() *Gate { return &Gate{index: allocIndex(), typ: mocus.GateConst, state: mocus.StateUnity, constant: true} }

// False returns a constant-NULL gate.
func False() *Gate { return &Gate{index: allocIndex(), typ: mocus.GateConst, state: mocus.StateNull, constant: true} }

// Module marks g as the root of an independent module sub-graph and returns g, so it can be used
// inline at the construction site: Or(Arg(Module(And(Lit(1), Lit(2)))), Lit(3)).
func Module(g *Gate) *Gate {
	g.module = true
	return g
}

func (g *Gate) Index() int               { return g.index }
func (g *Gate) Type() mocus.GateType     { return g.typ }
func (g *Gate) State() mocus.GateState   { return g.state }
func (g *Gate) IsConstant() bool         { return g.constant }
func (g *Gate) IsModule() bool           { return g.module }

func (g *Gate) GateArgs() iter.Seq2[int, mocus.Gate] {
	return func(yield func(int, mocus.Gate) bool) {
		for _, a := range g.gateArgs {
			if !yield(a.key, a.g) {
				return
			}
		}
	}
}

func (g *Gate) VariableArgs() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, a := range g.varArgs {
			if !yield(a.key, a.v) {
				return
			}
		}
	}
}

// ConstantArgs is always empty: fakegate never produces a constant-valued argument below the root,
// matching the preprocessing invariant the builder enforces.
func (g *Gate) ConstantArgs() iter.Seq[int] {
	return func(func(int) bool) {}
}
