// Package satcheck Tseitin-encodes a small Boolean expression tree into CNF and asks a SAT solver
// whether a literal assignment satisfies it. It exists to independently cross-check, from outside
// the MOCUS generator entirely, that a reported cut set actually forces its fault tree's top event
// — a cut set IS a satisfying partial assignment of the tree's Boolean formula, so a general SAT
// solver is an apt validity oracle for it.
package satcheck

import (
	"fmt"

	"github.com/crillab/gophersat/solver"
)

// Expr is a Boolean expression over variables named by positive integers ≥ 1.
type Expr interface{ isExpr() }

// Var is a leaf variable reference.
type Var int

// Not negates a sub-expression.
type Not struct{ X Expr }

// And is the conjunction of its operands.
type And []Expr

// Or is the disjunction of its operands.
type Or []Expr

func (Var) isExpr() {}
func (Not) isExpr() {}
func (And) isExpr() {}
func (Or) isExpr()  {}

// encoder Tseitin-encodes an expression tree, allocating one fresh auxiliary variable per compound
// subexpression and emitting clauses equivalent to "auxVar <-> subexpr".
type encoder struct {
	next    int
	clauses [][]int
}

func (e *encoder) alloc() int {
	e.next++
	return e.next
}

func (e *encoder) addClause(lits ...int) {
	e.clauses = append(e.clauses, append([]int(nil), lits...))
}

func (e *encoder) encode(expr Expr) int {
	switch x := expr.(type) {
	case Var:
		if int(x) < 1 {
			panic(fmt.Errorf("satcheck: variable indices must be >= 1, got %d", x))
		}
		if int(x) > e.next {
			e.next = int(x)
		}
		return int(x)
	case Not:
		return -e.encode(x.X)
	case And:
		return e.encodeAnd(x)
	case Or:
		return e.encodeOr(x)
	default:
		panic(fmt.Errorf("satcheck: unrecognized expression type %T", expr))
	}
}

func (e *encoder) encodeAnd(x And) int {
	lits := make([]int, len(x))
	for i, sub := range x {
		lits[i] = e.encode(sub)
	}
	aux := e.alloc()
	for _, l := range lits {
		e.addClause(-aux, l) // aux -> l
	}
	clause := make([]int, 0, len(lits)+1)
	for _, l := range lits {
		clause = append(clause, -l)
	}
	clause = append(clause, aux) // (all l) -> aux
	e.addClause(clause...)
	return aux
}

func (e *encoder) encodeOr(x Or) int {
	lits := make([]int, len(x))
	for i, sub := range x {
		lits[i] = e.encode(sub)
	}
	aux := e.alloc()
	for _, l := range lits {
		e.addClause(-l, aux) // l -> aux
	}
	clause := append([]int{-aux}, lits...) // aux -> (some l)
	e.addClause(clause...)
	return aux
}

// Evaluate reports whether fixing every variable in trueVars to true and every variable in
// falseVars to false forces expr true regardless of how the remaining, unmentioned variables are
// set. This is exactly the property a minimal cut set must have: a partial assignment over basic
// events that forces the top event no matter what the rest of the tree does. It is checked by
// asking the solver whether expr being FALSE is satisfiable jointly with those assumptions; if no
// such extension exists, the assignment forces expr true.
func Evaluate(expr Expr, trueVars, falseVars []int) (bool, error) {
	// A first pass over expr raises next past every variable index, so that the auxiliary variables
	// of the real encoding never coincide with a variable met later in the tree.
	scan := &encoder{}
	scan.encode(expr)
	enc := &encoder{next: scan.next}
	top := enc.encode(expr)
	enc.addClause(-top)
	for _, v := range trueVars {
		enc.addClause(v)
	}
	for _, v := range falseVars {
		enc.addClause(-v)
	}

	constrs := make([]solver.PBConstr, 0, len(enc.clauses))
	for _, c := range enc.clauses {
		constrs = append(constrs, solver.PropClause(c...))
	}
	prob := solver.ParsePBConstrs(constrs)
	s := solver.New(prob)
	switch status := s.Solve(); status {
	case solver.Unsat:
		return true, nil
	case solver.Sat:
		return false, nil
	default:
		return false, fmt.Errorf("satcheck: solver returned unexpected status %v", status)
	}
}
