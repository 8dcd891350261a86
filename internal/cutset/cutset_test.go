package cutset

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

func TestCutSetBasics(t *testing.T) {
	t.Parallel()
	cs := New()
	if !cs.Empty() {
		t.Fatalf("new CutSet should be empty")
	}
	cs.AddPositive(1)
	cs.AddPositive(2)
	cs.AddNegative(3)
	cs.AddModule(10)
	if cs.Empty() {
		t.Fatalf("populated CutSet should not be empty")
	}
	if got, want := cs.Order(), 2; got != want {
		t.Errorf("Order() = %d, want %d", got, want)
	}
	if got, want := cs.Size(), 3; got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
	if !cs.HasPositive(1) || !cs.HasPositive(2) {
		t.Errorf("expected positive literals 1 and 2")
	}
	if !cs.HasNegative(3) {
		t.Errorf("expected negative literal 3")
	}
	if !cs.HasModule(10) {
		t.Errorf("expected module 10")
	}
}

func TestCutSetAddIsIdempotent(t *testing.T) {
	t.Parallel()
	cs := New()
	cs.AddPositive(1)
	h1 := cs.Hash()
	cs.AddPositive(1)
	if got, want := cs.Hash(), h1; got != want {
		t.Errorf("hash changed on duplicate AddPositive: got %d, want %d", got, want)
	}
	if got, want := cs.Order(), 1; got != want {
		t.Errorf("Order() = %d, want %d", got, want)
	}
}

func TestCheckJointOrder(t *testing.T) {
	t.Parallel()
	cs := New()
	cs.AddPositive(1)
	cs.AddPositive(2)
	s := mapset.NewThreadUnsafeSet[LiteralIndex](3)
	if cs.CheckJointOrder(s, 3) {
		t.Errorf("|{1,2,3}| = 3 should not exceed limit 3")
	}
	if !cs.CheckJointOrder(s, 2) {
		t.Errorf("|{1,2,3}| = 3 should exceed limit 2")
	}
}

func TestSanitizeRemovesContradictions(t *testing.T) {
	t.Parallel()
	cs := New()
	cs.AddPositive(1)
	cs.AddPositive(2)
	cs.AddNegative(1)
	cs.Sanitize()
	if cs.HasPositive(1) {
		t.Errorf("literal 1 should have been sanitized away")
	}
	if !cs.HasPositive(2) {
		t.Errorf("literal 2 should remain")
	}
	if !cs.HasNegative(1) {
		t.Errorf("negative literal 1 should remain")
	}
}

func TestIncludes(t *testing.T) {
	t.Parallel()
	small := New()
	small.AddPositive(1)
	big := New()
	big.AddPositive(1)
	big.AddPositive(2)
	if !big.Includes(small) {
		t.Errorf("{1,2} should include {1}")
	}
	if small.Includes(big) {
		t.Errorf("{1} should not include {1,2}")
	}

	smallMod := New()
	smallMod.AddModule(5)
	bigMod := New()
	bigMod.AddModule(5)
	bigMod.AddModule(6)
	if !bigMod.Includes(smallMod) {
		t.Errorf("module sets should participate in Includes")
	}
}

func TestIncludesIgnoresNegatives(t *testing.T) {
	t.Parallel()
	a := New()
	a.AddPositive(1)
	b := New()
	b.AddPositive(1)
	b.AddNegative(99)
	if !a.Includes(b) || !b.Includes(a) {
		t.Errorf("differing only in negative literals should still mutually Include")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	cs := New()
	cs.AddPositive(1)
	clone := cs.Clone()
	clone.AddPositive(2)
	if cs.HasPositive(2) {
		t.Errorf("mutating a clone should not affect the original")
	}
	if !clone.HasPositive(1) {
		t.Errorf("clone should retain the original's elements")
	}
}

func TestEqualConsidersNegatives(t *testing.T) {
	t.Parallel()
	a := New()
	a.AddPositive(1)
	a.AddNegative(2)
	b := New()
	b.AddPositive(1)
	if a.Equal(b) {
		t.Errorf("CutSets differing only in negative literals must not be Equal")
	}
	b.AddNegative(2)
	if !a.Equal(b) {
		t.Errorf("CutSets with identical pos/neg/modules should be Equal")
	}
}

func TestContainerDedup(t *testing.T) {
	t.Parallel()
	c := NewContainer()
	a := New()
	a.AddPositive(1)
	a.AddPositive(2)
	b := New()
	// Insert in a different order to exercise order-independence of the hash.
	b.AddPositive(2)
	b.AddPositive(1)

	if !c.Insert(a) {
		t.Fatalf("first insert should report new")
	}
	if c.Insert(b) {
		t.Errorf("structurally-equal set should not be re-inserted")
	}
	if got, want := c.Len(), 1; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if !c.Contains(b) {
		t.Errorf("Contains should find a structurally-equal set regardless of insertion order")
	}
}

func TestContainerMerge(t *testing.T) {
	t.Parallel()
	c1 := NewContainer()
	a := New()
	a.AddPositive(1)
	c1.Insert(a)

	c2 := NewContainer()
	b := New()
	b.AddPositive(2)
	c2.Insert(b)
	dup := New()
	dup.AddPositive(1)
	c2.Insert(dup)

	c1.Merge(c2)
	if got, want := c1.Len(), 2; got != want {
		t.Errorf("Len() after merge = %d, want %d", got, want)
	}
}

func TestPopModule(t *testing.T) {
	t.Parallel()
	cs := New()
	if _, ok := cs.PopModule(); ok {
		t.Errorf("PopModule on an empty module set should report false")
	}
	cs.AddModule(7)
	m, ok := cs.PopModule()
	if !ok || m != 7 {
		t.Errorf("PopModule() = (%d, %v), want (7, true)", m, ok)
	}
	if cs.HasModule(7) {
		t.Errorf("popped module should no longer be present")
	}
}
