// Package mocus implements MOCUS (Method for Obtaining Cut Sets), a top-down enumeration
// algorithm that derives the minimal cut sets of a coherent Boolean fault tree up to a bounded
// order.
//
// # Quick start
//
// Build a Gate DAG (typically adapted from a fault-tree preprocessor; see internal/fakegate for a
// test-oriented builder), then:
//
//	m, err := mocus.New(root, mocus.Settings{LimitOrder: 6})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m.Analyze(context.Background())
//	for _, cs := range m.CutSets() {
//	    fmt.Println(cs.Positive, cs.Negative)
//	}
package mocus

import (
	"iter"
)

// GateType is the kind of a Gate node in the input Boolean graph.
type GateType int

const (
	GateAnd GateType = iota
	GateOr
	GateNull
	GateConst
)

func (t GateType) String() string {
	switch t {
	case GateAnd:
		return "AND"
	case GateOr:
		return "OR"
	case GateNull:
		return "NULL"
	case GateConst:
		return "CONST"
	default:
		return "UNKNOWN"
	}
}

// GateState is the constant truth value of a Gate, meaningful only when IsConstant reports true.
type GateState int

const (
	StateNormal GateState = iota
	StateUnity
	StateNull
)

func (s GateState) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateUnity:
		return "UNITY"
	case StateNull:
		return "NULL"
	default:
		return "UNKNOWN"
	}
}

// Gate is the read-only view of a node in the preprocessed Boolean fault-tree graph that the core
// consumes. Implementations must guarantee, before the first Analyze call: no constant sub-graphs
// remain below a non-constant root, ConstantArgs is empty everywhere, gates have at least two
// arguments, and along any root-to-leaf path gate types strictly alternate AND/OR.
type Gate interface {
	// Index is this gate's dense, positive, unique identifier.
	Index() int
	// Type reports this gate's logical operator.
	Type() GateType
	// State reports this gate's constant truth value; meaningful only when IsConstant is true.
	State() GateState
	// IsConstant reports whether this gate has a fixed truth value independent of its arguments.
	IsConstant() bool
	// IsModule reports whether this gate is the root of an independent sub-graph that shares no
	// variables with the rest of the tree.
	IsModule() bool
	// GateArgs iterates this gate's gate-valued arguments, keyed by signed index (negative =
	// complemented); complemented gate arguments are not supported by the core and are rejected by
	// the builder if encountered.
	GateArgs() iter.Seq2[int, Gate]
	// VariableArgs iterates this gate's basic-event arguments, keyed by signed index (negative =
	// complemented) mapping to the unsigned variable index.
	VariableArgs() iter.Seq2[int, int]
	// ConstantArgs iterates this gate's constant-valued arguments. Must be empty; a preprocessing
	// invariant the builder enforces.
	ConstantArgs() iter.Seq[int]
}

// Settings carries the core's recognized tuning knobs.
type Settings struct {
	// LimitOrder bounds the order (positive-literal count) of any reported cut set. Zero disables
	// every cut set that has a positive literal; a unity result or a cut set made only of negative
	// literals can still be reported.
	LimitOrder int
}

// CutSetResult is one reported minimal cut set: the fully expanded, module-free positive and
// negative literal indices whose joint occurrence causes the analyzed gate's top event.
type CutSetResult struct {
	Positive []int
	Negative []int
}
