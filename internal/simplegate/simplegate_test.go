package simplegate

import (
	"sort"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/faulttree/mocus/internal/cutset"
)

const limit = 6

func generate(t *testing.T, g *SimpleGate) []*cutset.CutSet {
	t.Helper()
	g.Finalize()
	out := cutset.NewContainer()
	g.GenerateCutSets(cutset.New(), out)
	var sets []*cutset.CutSet
	for cs := range out.All() {
		cs.Sanitize()
		sets = append(sets, cs)
	}
	return sets
}

func positiveLiterals(cs *cutset.CutSet) []int {
	pos, _ := cs.Literals()
	var out []int
	for v := range mapset.Elements(pos) {
		out = append(out, int(v))
	}
	sort.Ints(out)
	return out
}

func wantSets(t *testing.T, got []*cutset.CutSet, want [][]int) {
	t.Helper()
	gotSets := map[string]bool{}
	for _, cs := range got {
		gotSets[key(positiveLiterals(cs))] = true
	}
	wantSetsMap := map[string]bool{}
	for _, w := range want {
		sort.Ints(w)
		wantSetsMap[key(w)] = true
	}
	if len(gotSets) != len(wantSetsMap) {
		t.Fatalf("got %d cut sets %v, want %d %v", len(gotSets), gotSets, len(wantSetsMap), wantSetsMap)
	}
	for k := range wantSetsMap {
		if !gotSets[k] {
			t.Errorf("missing expected cut set %v", k)
		}
	}
}

func key(lits []int) string {
	s := ""
	for _, l := range lits {
		s += string(rune('A' + l))
	}
	return s
}

func TestSingleBasicEvent(t *testing.T) {
	t.Parallel()
	g := New(OrOp, limit)
	g.AddPositiveLiteral(1)
	got := generate(t, g)
	wantSets(t, got, [][]int{{1}})
}

func TestSimpleAnd(t *testing.T) {
	t.Parallel()
	g := New(AndOp, limit)
	g.AddPositiveLiteral(1)
	g.AddPositiveLiteral(2)
	got := generate(t, g)
	wantSets(t, got, [][]int{{1, 2}})
}

func TestSimpleOr(t *testing.T) {
	t.Parallel()
	g := New(OrOp, limit)
	g.AddPositiveLiteral(1)
	g.AddPositiveLiteral(2)
	got := generate(t, g)
	wantSets(t, got, [][]int{{1}, {2}})
}

func TestAbsorption(t *testing.T) {
	t.Parallel()
	// OR(1, AND(1, 2)). The generator emits both candidates, {1} and {1,2}; absorbing {1,2} into {1}
	// is left to the minimizer.
	and := New(AndOp, limit)
	and.AddPositiveLiteral(1)
	and.AddPositiveLiteral(2)
	and.Finalize()

	or := New(OrOp, limit)
	or.AddPositiveLiteral(1)
	or.AddGate(and)
	got := generate(t, or)
	wantSets(t, got, [][]int{{1}, {1, 2}})
}

func TestOrderLimitPruning(t *testing.T) {
	t.Parallel()
	g := New(AndOp, 3)
	for _, v := range []cutset.LiteralIndex{1, 2, 3, 4} {
		g.AddPositiveLiteral(v)
	}
	got := generate(t, g)
	if len(got) != 0 {
		t.Errorf("expected no cut sets under the order limit, got %v", got)
	}
}

func TestLayeringViolationPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic from an AND gate given an AND child")
		}
	}()
	a := New(AndOp, limit)
	b := New(AndOp, limit)
	a.AddGate(b)
}
