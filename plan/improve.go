package plan

import (
	"github.com/sirupsen/logrus"
)

// plateauThreshold is the number of consecutive sweeps without a single
// applied swap before the local search concedes the plateau.
const plateauThreshold = 5

// Improve runs bounded greedy local search over the schedule, swapping
// agents between groups of the same round whenever the exchange strictly
// reduces repeated pairings. Swaps are applied immediately and the ledger
// refreshed before the scan continues — each application changes what the
// next candidate is worth. The enumeration order round -> group pair ->
// agent pair is fixed, so the result is deterministic for a given input.
//
// The input schedule is never mutated; the improved clone is returned.
// This phase optimizes repeats only — the equity gap is the fairness
// phase's job, which runs after and owns the gap <= 1 contract.
func Improve(s *Schedule, cs *ConstraintSet, maxIterations int) *Schedule {
	improved := s.Clone()

	logrus.Debugf("improvement: max %d iterations, plateau threshold %d", maxIterations, plateauThreshold)

	idle := 0
	for iter := 0; iter < maxIterations; iter++ {
		led := NewLedger(improved)
		applied := 0
		for ri := range improved.Rounds {
			applied += improveRound(improved, ri, led, cs)
		}
		if applied > 0 {
			idle = 0
			logrus.Debugf("improvement iteration %d: %d swaps applied", iter+1, applied)
		} else {
			idle++
			if idle >= plateauThreshold {
				logrus.Debugf("improvement plateau after %d iterations", iter+1)
				break
			}
		}
	}
	return improved
}

// improveRound sweeps every unordered group pair and every cross-group
// agent pair of one round, applying each strictly-improving,
// constraint-clean swap the moment it is found. Returns the number of
// swaps applied.
func improveRound(s *Schedule, ri int, led *Ledger, cs *ConstraintSet) int {
	r := &s.Rounds[ri]
	history := led.History()
	applied := 0

	for g1 := 0; g1 < len(r.Groups); g1++ {
		for g2 := g1 + 1; g2 < len(r.Groups); g2++ {
			// Snapshot memberships: the groups mutate under us as swaps land.
			snap1 := append(Group(nil), r.Groups[g1]...)
			snap2 := append(Group(nil), r.Groups[g2]...)

			for _, a1 := range snap1 {
				for _, a2 := range snap2 {
					// An agent swapped earlier in this pass has left its
					// snapshot group; skip it.
					if !r.Groups[g1].Contains(a1) || !r.Groups[g2].Contains(a2) {
						continue
					}
					if ViolatesSwap(r, g1, a1, g2, a2, cs) {
						continue
					}
					delta, err := EvaluateSwap(s, ri, g1, a1, g2, a2, history)
					if err != nil {
						continue
					}
					if delta < 0 {
						led.ApplySwap(r, g1, a1, g2, a2)
						r.Swap(g1, a1, g2, a2)
						applied++
					}
				}
			}
		}
	}
	return applied
}
