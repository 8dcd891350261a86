// Package minimize implements subset-dominance minimization over a collection of candidate cut
// sets, discarding every candidate that is a strict superset of some other candidate.
package minimize

import (
	"sort"

	"github.com/faulttree/mocus/internal/cutset"
)

// Minimize returns the subset of candidates that is minimal under Includes: no returned cut set
// is a superset of any other returned cut set. candidates is not mutated.
//
// Candidates are processed in increasing Size order, mirroring the level-by-level sweep of the
// original algorithm: once a cut set of a given size has survived against every smaller accepted
// cut set, no cut set of equal or greater size can ever make it redundant, so each candidate needs
// comparing only against the accepted sets strictly smaller than it.
func Minimize(candidates []*cutset.CutSet) []*cutset.CutSet {
	ordered := make([]*cutset.CutSet, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Size() < ordered[j].Size() })

	var accepted []*cutset.CutSet
	// levelStart is the index into accepted where the current size level began. Each candidate is
	// compared only against accepted[:levelStart], the sets accepted at strictly smaller sizes;
	// equal-size sets are not compared with one another, so two candidates that differ only in
	// their negative literals both survive.
	currentSize := -1
	levelStart := 0
	for _, cs := range ordered {
		if cs.Size() != currentSize {
			currentSize = cs.Size()
			levelStart = len(accepted)
		}
		dominated := false
		for i := 0; i < levelStart; i++ {
			if cs.Includes(accepted[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			accepted = append(accepted, cs)
		}
	}
	return accepted
}
