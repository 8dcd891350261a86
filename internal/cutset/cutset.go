// Package cutset implements the cut-set value object and deduplicating container that the MOCUS
// generator and minimizer operate on.
package cutset

import (
	"iter"

	mapset "github.com/deckarep/golang-set/v2"
)

// A LiteralIndex identifies a basic-event variable. It is always positive; polarity is conveyed by
// which of a CutSet's two literal sets it appears in.
type LiteralIndex int

// A ModuleIndex identifies a module (an independent sub-graph) referenced from a CutSet or a
// SimpleGate.
type ModuleIndex int

const (
	posTag = uint64(1)
	negTag = uint64(2)
	modTag = uint64(3)
)

// elemHash mixes a tag (which field the element belongs to) and a value into a hash contribution.
// XOR-combining these across a CutSet's elements gives an order-independent, incrementally
// maintainable hash: adding or removing the same element twice cancels out, so the hash can be kept
// current on every Add/Remove without recomputing from scratch.
func elemHash(tag uint64, v int) uint64 {
	h := uint64(v)*0x9E3779B97F4A7C15 + tag*0xBF58476D1CE4E5B9
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return h
}

// A CutSet holds the positive and negative literals and module references accumulated along one
// path of a MOCUS descent. The zero value is not usable; construct with New.
type CutSet struct {
	pos     mapset.Set[LiteralIndex]
	neg     mapset.Set[LiteralIndex]
	modules mapset.Set[ModuleIndex]
	hash    uint64
}

// New returns an empty CutSet (the unity cut set).
func New() *CutSet {
	return &CutSet{
		pos:     mapset.NewThreadUnsafeSet[LiteralIndex](),
		neg:     mapset.NewThreadUnsafeSet[LiteralIndex](),
		modules: mapset.NewThreadUnsafeSet[ModuleIndex](),
	}
}

// Clone returns an independent copy of cs.
func (cs *CutSet) Clone() *CutSet {
	return &CutSet{pos: cs.pos.Clone(), neg: cs.neg.Clone(), modules: cs.modules.Clone(), hash: cs.hash}
}

func setsIntersect[T comparable](a, b mapset.Set[T]) bool {
	if a.Cardinality() == 0 || b.Cardinality() == 0 {
		return false
	}
	return !a.Intersect(b).IsEmpty()
}

// HasPositive reports whether i is a positive literal in cs.
func (cs *CutSet) HasPositive(i LiteralIndex) bool { return cs.pos.Contains(i) }

// HasNegative reports whether i is a negative literal in cs.
func (cs *CutSet) HasNegative(i LiteralIndex) bool { return cs.neg.Contains(i) }

// HasModule reports whether m is referenced by cs.
func (cs *CutSet) HasModule(m ModuleIndex) bool { return cs.modules.Contains(m) }

// HasAnyPositive reports whether cs's positive literals intersect s.
func (cs *CutSet) HasAnyPositive(s mapset.Set[LiteralIndex]) bool { return setsIntersect(cs.pos, s) }

// HasAnyNegative reports whether cs's negative literals intersect s.
func (cs *CutSet) HasAnyNegative(s mapset.Set[LiteralIndex]) bool { return setsIntersect(cs.neg, s) }

// HasAnyModule reports whether cs's modules intersect s.
func (cs *CutSet) HasAnyModule(s mapset.Set[ModuleIndex]) bool { return setsIntersect(cs.modules, s) }

// CheckJointOrder reports whether the order of cs's positive literals unioned with s would exceed
// limit, without mutating cs.
func (cs *CutSet) CheckJointOrder(s mapset.Set[LiteralIndex], limit int) bool {
	return cs.pos.Union(s).Cardinality() > limit
}

// AddPositive inserts a positive literal, updating the order and hash. Idempotent.
func (cs *CutSet) AddPositive(i LiteralIndex) {
	if cs.pos.Add(i) {
		cs.hash ^= elemHash(posTag, int(i))
	}
}

// AddNegative inserts a negative literal, updating the hash. Idempotent.
func (cs *CutSet) AddNegative(i LiteralIndex) {
	if cs.neg.Add(i) {
		cs.hash ^= elemHash(negTag, int(i))
	}
}

// AddModule inserts a module reference, updating the hash. Idempotent.
func (cs *CutSet) AddModule(m ModuleIndex) {
	if cs.modules.Add(m) {
		cs.hash ^= elemHash(modTag, int(m))
	}
}

// AddPositiveSet bulk-unions s into cs's positive literals.
func (cs *CutSet) AddPositiveSet(s mapset.Set[LiteralIndex]) {
	for v := range mapset.Elements(s) {
		cs.AddPositive(v)
	}
}

// AddNegativeSet bulk-unions s into cs's negative literals.
func (cs *CutSet) AddNegativeSet(s mapset.Set[LiteralIndex]) {
	for v := range mapset.Elements(s) {
		cs.AddNegative(v)
	}
}

// AddModuleSet bulk-unions s into cs's modules.
func (cs *CutSet) AddModuleSet(s mapset.Set[ModuleIndex]) {
	for v := range mapset.Elements(s) {
		cs.AddModule(v)
	}
}

// Join merges other's literals and modules into cs, as when composing a module's cut set with the
// residual cut set that referenced it.
func (cs *CutSet) Join(other *CutSet) {
	cs.AddPositiveSet(other.pos)
	cs.AddNegativeSet(other.neg)
	cs.AddModuleSet(other.modules)
}

// Sanitize removes from cs's positive literals any that also appear as negative literals,
// discarding the contradictory combination. This is defensive: the generator never places the same
// literal in both sets on a single path, but sanitize runs once per generated cut set before
// dedup, as the original algorithm does.
func (cs *CutSet) Sanitize() {
	for v := range mapset.Elements(cs.pos.Clone()) {
		if cs.neg.Contains(v) {
			cs.pos.Remove(v)
			cs.hash ^= elemHash(posTag, int(v))
		}
	}
}

// Order is the number of positive literals in cs.
func (cs *CutSet) Order() int { return cs.pos.Cardinality() }

// Size is the number of positive literals plus module references in cs; module references count as
// members for minimality comparisons until they are expanded.
func (cs *CutSet) Size() int { return cs.pos.Cardinality() + cs.modules.Cardinality() }

// Empty reports whether cs has no positive literals, negative literals, or modules: the unity cut
// set.
func (cs *CutSet) Empty() bool { return cs.pos.IsEmpty() && cs.neg.IsEmpty() && cs.modules.IsEmpty() }

// ModulesEmpty reports whether cs references no modules.
func (cs *CutSet) ModulesEmpty() bool { return cs.modules.IsEmpty() }

// PopModule removes and returns an arbitrary module reference. The second return value is false if
// cs references no module.
func (cs *CutSet) PopModule() (ModuleIndex, bool) {
	m, ok := cs.modules.Pop()
	if ok {
		cs.hash ^= elemHash(modTag, int(m))
	}
	return m, ok
}

// Includes reports whether other is a subset of cs by positive literals and modules: other ⊆ cs.
// Negative literals do not participate in the minimality order.
func (cs *CutSet) Includes(other *CutSet) bool {
	return other.pos.IsSubset(cs.pos) && other.modules.IsSubset(cs.modules)
}

// Literals returns clones of cs's positive and negative literal sets, for final reporting.
func (cs *CutSet) Literals() (pos, neg mapset.Set[LiteralIndex]) {
	return cs.pos.Clone(), cs.neg.Clone()
}

// Modules returns a clone of cs's module references.
func (cs *CutSet) Modules() mapset.Set[ModuleIndex] { return cs.modules.Clone() }

// Hash returns cs's incrementally-maintained structural hash.
func (cs *CutSet) Hash() uint64 { return cs.hash }

// Equal reports whether cs and other have the same positive literals, negative literals, and
// modules.
func (cs *CutSet) Equal(other *CutSet) bool {
	return cs.pos.Equal(other.pos) && cs.neg.Equal(other.neg) && cs.modules.Equal(other.modules)
}

// A Container is a deduplicating collection of CutSet, keyed by CutSet.Hash with a structural
// Equal fallback within a bucket, since a CutSet is not itself comparable (its fields are reference
// types).
type Container struct {
	buckets map[uint64][]*CutSet
	size    int
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{buckets: map[uint64][]*CutSet{}}
}

// Insert adds cs if no structurally-equal CutSet is already present. Reports whether cs was newly
// inserted.
func (c *Container) Insert(cs *CutSet) bool {
	h := cs.Hash()
	for _, existing := range c.buckets[h] {
		if existing.Equal(cs) {
			return false
		}
	}
	c.buckets[h] = append(c.buckets[h], cs)
	c.size++
	return true
}

// Contains reports whether a structurally-equal CutSet is already present.
func (c *Container) Contains(cs *CutSet) bool {
	for _, existing := range c.buckets[cs.Hash()] {
		if existing.Equal(cs) {
			return true
		}
	}
	return false
}

// Merge inserts every CutSet in other into c.
func (c *Container) Merge(other *Container) {
	for cs := range other.All() {
		c.Insert(cs)
	}
}

// Len returns the number of distinct CutSets in c.
func (c *Container) Len() int { return c.size }

// All iterates the CutSets in c in unspecified order.
func (c *Container) All() iter.Seq[*CutSet] {
	return func(yield func(*CutSet) bool) {
		for _, bucket := range c.buckets {
			for _, cs := range bucket {
				if !yield(cs) {
					return
				}
			}
		}
	}
}
