package minimize

import (
	"testing"

	"github.com/faulttree/mocus/internal/cutset"
)

func withPositives(lits ...cutset.LiteralIndex) *cutset.CutSet {
	cs := cutset.New()
	for _, l := range lits {
		cs.AddPositive(l)
	}
	return cs
}

func withModules(mods ...cutset.ModuleIndex) *cutset.CutSet {
	cs := cutset.New()
	for _, m := range mods {
		cs.AddModule(m)
	}
	return cs
}

func TestMinimizeDropsSupersets(t *testing.T) {
	t.Parallel()
	a := withPositives(1)
	ab := withPositives(1, 2)
	c := withPositives(3)
	got := Minimize([]*cutset.CutSet{ab, a, c})
	if len(got) != 2 {
		t.Fatalf("got %d cut sets, want 2", len(got))
	}
	var foundA, foundC bool
	for _, cs := range got {
		switch {
		case cs.Equal(a):
			foundA = true
		case cs.Equal(c):
			foundC = true
		default:
			t.Errorf("unexpected surviving cut set with order %d", cs.Order())
		}
	}
	if !foundA || !foundC {
		t.Errorf("expected {1} and {3} to survive, foundA=%v foundC=%v", foundA, foundC)
	}
}

func TestMinimizeKeepsIncomparableSets(t *testing.T) {
	t.Parallel()
	ab := withPositives(1, 2)
	cd := withPositives(3, 4)
	got := Minimize([]*cutset.CutSet{ab, cd})
	if len(got) != 2 {
		t.Fatalf("got %d cut sets, want 2: incomparable sets should both survive", len(got))
	}
}

func TestMinimizeModulesParticipate(t *testing.T) {
	t.Parallel()
	m1 := withModules(1)
	m12 := withModules(1, 2)
	got := Minimize([]*cutset.CutSet{m12, m1})
	if len(got) != 1 || !got[0].Equal(m1) {
		t.Fatalf("expected only {module 1} to survive, got %v", got)
	}
}

func TestMinimizeEmptyInput(t *testing.T) {
	t.Parallel()
	if got := Minimize(nil); len(got) != 0 {
		t.Errorf("Minimize(nil) = %v, want empty", got)
	}
}

func TestMinimizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	a := withPositives(1)
	candidates := []*cutset.CutSet{a}
	_ = Minimize(candidates)
	if candidates[0] != a {
		t.Errorf("Minimize should not reorder or replace the caller's slice contents")
	}
}
