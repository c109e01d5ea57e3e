package plan

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrFairnessUnreachable signals that fairness enforcement exhausted its
// search without bounding the equity gap to 1. The gap <= 1 postcondition
// is this package's one hard contract; an out-of-contract schedule is
// returned alongside the error, never silently.
var ErrFairnessUnreachable = errors.New("equity gap could not be bounded to 1")

const (
	// fairnessSafetyCap bounds the enforcement loop. Every accepted swap
	// strictly improves the balance state, so the loop cannot cycle; the
	// cap only guards against degenerate inputs with very long descents.
	fairnessSafetyCap = 1000
	// priorityMaxAdvantage caps how many extra unique contacts the
	// least-connected priority agent may hold over the least-connected
	// regular before priority ordering is suspended.
	priorityMaxAdvantage = 2
)

// balanceState is the contact-distribution profile the fairness search
// descends over: the equity gap first, then how many agents sit at the
// minimum, then at the maximum, then (ascending) the number of distinct
// pairs met.
type balanceState struct {
	gap    int
	atMin  int
	atMax  int
	unique int
}

// better reports whether p is a strict improvement over q. The comparison
// is lexicographic over a finite space, so a search that only accepts
// strictly-better states can never revisit one and always terminates.
func (p balanceState) better(q balanceState) bool {
	if p.gap != q.gap {
		return p.gap < q.gap
	}
	if p.atMin != q.atMin {
		return p.atMin < q.atMin
	}
	if p.atMax != q.atMax {
		return p.atMax < q.atMax
	}
	return p.unique > q.unique
}

// EnforceFairness post-processes the schedule with swaps until the spread
// of unique-contact counts is at most 1. Fairness dominates repeat
// minimization: a swap that narrows the spread is taken even when it
// introduces a repeat.
//
// Every candidate swap is simulated exactly before it is committed — the
// unique-contact count of every affected agent, third parties included —
// and only swaps that strictly improve the balance state are applied.
// Acceptance is therefore immune to the classic failure of min/max
// targeting, where an exchange helps the two principals but pushes a
// bystander to a new extreme.
//
// The input is never mutated; the enforced clone is returned. When no
// improving swap remains (or the safety cap trips) the best schedule
// found is returned together with an error wrapping
// ErrFairnessUnreachable.
//
// A non-empty priority set is served first when under-connected, until
// the cohort's lead over the regular minimum reaches
// priorityMaxAdvantage.
func EnforceFairness(s *Schedule, cfg EventConfig, cs *ConstraintSet, priority map[int]struct{}) (*Schedule, error) {
	out := s.Clone()
	counts := PairCounts(out)
	perAgent := contactTotals(counts, cfg.Agents)

	for iter := 0; iter < fairnessSafetyCap; iter++ {
		min, max, atMin, atMax := scanExtremes(perAgent, nil)
		if max-min <= 1 {
			logrus.Debugf("fairness reached after %d iterations (gap=%d)", iter, max-min)
			return out, nil
		}
		cur := balanceState{gap: max - min, atMin: atMin, atMax: atMax, unique: len(counts)}
		if !applyBalancingSwap(out, cs, counts, perAgent, cur, min, max, priority) {
			logrus.Errorf("fairness enforcement stalled at gap %d: no improving swap", cur.gap)
			return out, fmt.Errorf("no improving swap at gap %d: %w", cur.gap, ErrFairnessUnreachable)
		}
	}

	min, max, _, _ := scanExtremes(perAgent, nil)
	logrus.Errorf("fairness safety cap (%d) reached at gap %d", fairnessSafetyCap, max-min)
	return out, fmt.Errorf("safety cap (%d) reached at gap %d: %w", fairnessSafetyCap, max-min, ErrFairnessUnreachable)
}

// contactTotals derives the per-agent unique-contact counts from the pair
// counts.
func contactTotals(counts map[Pair]int, n int) []int {
	perAgent := make([]int, n)
	for p := range counts {
		perAgent[p.Lo]++
		perAgent[p.Hi]++
	}
	return perAgent
}

// scanExtremes returns the minimum and maximum of perAgent with delta
// applied, and how many agents sit at each. A nil delta scans perAgent
// as-is.
func scanExtremes(perAgent []int, delta map[int]int) (min, max, atMin, atMax int) {
	min = perAgent[0] + delta[0]
	max, atMin, atMax = min, 1, 1
	for id := 1; id < len(perAgent); id++ {
		c := perAgent[id] + delta[id]
		if c < min {
			min, atMin = c, 1
		} else if c == min {
			atMin++
		}
		if c > max {
			max, atMax = c, 1
		} else if c == max {
			atMax++
		}
	}
	return min, max, atMin, atMax
}

// agentsWithContacts returns, ascending, the ids whose unique-contact
// count equals the given value.
func agentsWithContacts(perAgent []int, value int) []int {
	var ids []int
	for id, c := range perAgent {
		if c == value {
			ids = append(ids, id)
		}
	}
	return ids
}

// applyBalancingSwap finds and applies one strictly-improving swap.
// Tiers, cheapest first: reseat a least-connected agent (priority members
// ahead of regulars while the cohort advantage allows), reseat a
// most-connected agent, then sweep every cross-group exchange of every
// round. Returns false when no swap improves the state.
func applyBalancingSwap(s *Schedule, cs *ConstraintSet, counts map[Pair]int, perAgent []int, cur balanceState, min, max int, priority map[int]struct{}) bool {
	for _, u := range priorityFirst(agentsWithContacts(perAgent, min), perAgent, priority) {
		if swapAgentAnywhere(s, cs, counts, perAgent, cur, u) {
			return true
		}
	}
	for _, o := range agentsWithContacts(perAgent, max) {
		if swapAgentAnywhere(s, cs, counts, perAgent, cur, o) {
			return true
		}
	}
	for ri := range s.Rounds {
		r := &s.Rounds[ri]
		for g1 := 0; g1 < len(r.Groups); g1++ {
			for g2 := g1 + 1; g2 < len(r.Groups); g2++ {
				for _, a1 := range append(Group(nil), r.Groups[g1]...) {
					for _, a2 := range append(Group(nil), r.Groups[g2]...) {
						if tryBalancingSwap(r, g1, a1, g2, a2, cs, counts, perAgent, cur) {
							return true
						}
					}
				}
			}
		}
	}
	return false
}

// swapAgentAnywhere scans, in round order, every cross-group exchange
// involving agent and applies the first strictly-improving one.
func swapAgentAnywhere(s *Schedule, cs *ConstraintSet, counts map[Pair]int, perAgent []int, cur balanceState, agent int) bool {
	for ri := range s.Rounds {
		r := &s.Rounds[ri]
		ga := r.GroupOf(agent)
		if ga < 0 {
			continue
		}
		for gb := range r.Groups {
			if gb == ga {
				continue
			}
			for _, b := range append(Group(nil), r.Groups[gb]...) {
				if tryBalancingSwap(r, ga, agent, gb, b, cs, counts, perAgent, cur) {
					return true
				}
			}
		}
	}
	return false
}

// tryBalancingSwap simulates exchanging a1 (in r.Groups[g1]) with a2 (in
// r.Groups[g2]) and commits the swap only when the post-swap balance
// state is a strict improvement. counts and perAgent are kept current on
// commit.
func tryBalancingSwap(r *Round, g1, a1, g2, a2 int, cs *ConstraintSet, counts map[Pair]int, perAgent []int, cur balanceState) bool {
	if ViolatesSwap(r, g1, a1, g2, a2, cs) {
		return false
	}
	delta := swapImpact(r, g1, a1, g2, a2, counts)
	min, max, atMin, atMax := scanExtremes(perAgent, delta)
	next := balanceState{gap: max - min, atMin: atMin, atMax: atMax, unique: cur.unique + sumDeltas(delta)/2}
	if !next.better(cur) {
		return false
	}

	r.Swap(g1, a1, g2, a2)
	applyCountsSwap(counts, r, g1, a2, g2, a1)
	for id, d := range delta {
		perAgent[id] += d
	}
	logrus.Debugf("fairness swap: agent %d <-> agent %d in round %d (gap %d -> %d)", a1, a2, r.Index, cur.gap, next.gap)
	return true
}

// swapImpact computes the unique-contact delta of every agent affected by
// exchanging a1 (in r.Groups[g1]) with a2 (in r.Groups[g2]): the two
// principals and the members of both groups. A contact is lost only when
// this round holds its sole occurrence (count 1); gained only when the
// pair has never met (count 0). The pair (a1, a2) itself is unchanged —
// they sit apart before and after.
func swapImpact(r *Round, g1, a1, g2, a2 int, counts map[Pair]int) map[int]int {
	delta := make(map[int]int)
	for _, m := range r.Groups[g1] {
		if m == a1 {
			continue
		}
		if counts[NewPair(a1, m)] == 1 {
			delta[a1]--
			delta[m]--
		}
		if counts[NewPair(a2, m)] == 0 {
			delta[a2]++
			delta[m]++
		}
	}
	for _, m := range r.Groups[g2] {
		if m == a2 {
			continue
		}
		if counts[NewPair(a2, m)] == 1 {
			delta[a2]--
			delta[m]--
		}
		if counts[NewPair(a1, m)] == 0 {
			delta[a1]++
			delta[m]++
		}
	}
	return delta
}

// sumDeltas totals the per-agent deltas; every unique pair gained or lost
// contributes to exactly two agents, so half the sum is the change in
// distinct pairs met.
func sumDeltas(delta map[int]int) int {
	total := 0
	for _, d := range delta {
		total += d
	}
	return total
}

// priorityFirst moves priority members to the front of ids, preserving
// ascending order within each part. Suspended once the least-connected
// priority member already leads the least-connected regular by
// priorityMaxAdvantage or more.
func priorityFirst(ids []int, perAgent []int, priority map[int]struct{}) []int {
	if len(priority) == 0 || priorityAdvantage(perAgent, priority) >= priorityMaxAdvantage {
		return ids
	}
	out := make([]int, 0, len(ids))
	var rest []int
	for _, id := range ids {
		if _, ok := priority[id]; ok {
			out = append(out, id)
		} else {
			rest = append(rest, id)
		}
	}
	return append(out, rest...)
}

// priorityAdvantage is the lead of the least-connected priority member
// over the least-connected regular; zero when either cohort is empty.
func priorityAdvantage(perAgent []int, priority map[int]struct{}) int {
	minPrio, minRegular := -1, -1
	for id, c := range perAgent {
		if _, ok := priority[id]; ok {
			if minPrio == -1 || c < minPrio {
				minPrio = c
			}
		} else if minRegular == -1 || c < minRegular {
			minRegular = c
		}
	}
	if minPrio == -1 || minRegular == -1 {
		return 0
	}
	return minPrio - minRegular
}

// applyCountsSwap adjusts the pair-count view after a swap already applied
// to the round: a1 now sits in g1, a2 in g2. Mirrors Ledger.ApplySwap but
// runs post-mutation.
func applyCountsSwap(counts map[Pair]int, r *Round, g1, a1, g2, a2 int) {
	for _, m := range r.Groups[g1] {
		if m == a1 {
			continue
		}
		counts[NewPair(a1, m)]++
		dec(counts, NewPair(a2, m))
	}
	for _, m := range r.Groups[g2] {
		if m == a2 {
			continue
		}
		counts[NewPair(a2, m)]++
		dec(counts, NewPair(a1, m))
	}
}

func dec(counts map[Pair]int, p Pair) {
	counts[p]--
	if counts[p] <= 0 {
		delete(counts, p)
	}
}
