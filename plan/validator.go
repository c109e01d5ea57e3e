package plan

import "github.com/sirupsen/logrus"

// Shared constraint predicates. Baseline placement, local improvement and
// fairness enforcement all consult these — one implementation, so a swap
// rejected in one phase is rejected in every phase.

// ViolatesSwap reports whether exchanging a1 (in round.Groups[g1]) with a2
// (in round.Groups[g2]) would break a cohesive or exclusive constraint.
// Pure: the round is never mutated; the post-swap memberships are
// simulated.
func ViolatesSwap(round *Round, g1, a1, g2, a2 int, cs *ConstraintSet) bool {
	if cs.Empty() {
		return false
	}

	inAfter := func(gi, leaving, arriving, agent int) bool {
		if agent == leaving {
			return false
		}
		if agent == arriving {
			return true
		}
		return round.Groups[gi].Contains(agent)
	}

	// A cohesive member may only move if the whole group moves with it,
	// which a one-for-one swap never achieves for groups of 2+.
	for _, gc := range cs.Cohesive {
		if _, ok := gc.Members[a1]; ok {
			for m := range gc.Members {
				if !inAfter(g2, a2, a1, m) {
					return true
				}
			}
		}
		if _, ok := gc.Members[a2]; ok {
			for m := range gc.Members {
				if !inAfter(g1, a1, a2, m) {
					return true
				}
			}
		}
	}

	for _, gc := range cs.Exclusive {
		for _, gi := range [2]int{g1, g2} {
			leaving, arriving := a1, a2
			if gi == g2 {
				leaving, arriving = a2, a1
			}
			members := 0
			for m := range gc.Members {
				if inAfter(gi, leaving, arriving, m) {
					members++
					if members >= 2 {
						return true
					}
				}
			}
		}
	}
	return false
}

// ViolatesAssignment reports whether seating the incoming agents (a single
// agent or a whole cohesive block) at a group already holding the given
// members would co-locate two agents of one exclusive group. Used during
// baseline placement, before any swap machinery exists.
func ViolatesAssignment(group Group, incoming []int, cs *ConstraintSet) bool {
	if cs.Empty() {
		return false
	}
	for _, gc := range cs.Exclusive {
		seated := 0
		for _, a := range group {
			if _, ok := gc.Members[a]; ok {
				seated++
			}
		}
		if seated == 0 {
			continue
		}
		for _, a := range incoming {
			if _, ok := gc.Members[a]; ok {
				return true
			}
		}
	}
	return false
}

// CountViolations tallies broken constraints within one round: a cohesive
// group split across groups, or an exclusive group with two or more
// members co-located. Audit helper for tests and the inspect command.
func CountViolations(round *Round, cs *ConstraintSet) int {
	if cs.Empty() {
		return 0
	}
	violations := 0
	for _, gc := range cs.Cohesive {
		hosts := make(map[int]struct{})
		for m := range gc.Members {
			if gi := round.GroupOf(m); gi >= 0 {
				hosts[gi] = struct{}{}
			}
		}
		if len(hosts) > 1 {
			violations++
			logrus.Warnf("cohesive group %q split across %d groups in round %d", gc.Name, len(hosts), round.Index)
		}
	}
	for _, gc := range cs.Exclusive {
		for gi, g := range round.Groups {
			seated := 0
			for _, a := range g {
				if _, ok := gc.Members[a]; ok {
					seated++
				}
			}
			if seated >= 2 {
				violations++
				logrus.Warnf("exclusive group %q has %d members together in round %d group %d",
					gc.Name, seated, round.Index, gi)
			}
		}
	}
	return violations
}

// ScheduleSatisfies reports whether every round of the schedule honors the
// constraint set.
func ScheduleSatisfies(s *Schedule, cs *ConstraintSet) bool {
	total := 0
	for ri := range s.Rounds {
		total += CountViolations(&s.Rounds[ri], cs)
	}
	return total == 0
}
