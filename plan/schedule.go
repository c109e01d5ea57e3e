package plan

import (
	"fmt"
	"sort"
)

// Group is the set of agent ids seated together in one round. Members are
// kept sorted ascending at all times; this makes every scan over a group
// deterministic and export byte-stable without extra work.
type Group []int

// Contains reports whether agent is a member of the group.
func (g Group) Contains(agent int) bool {
	i := sort.SearchInts(g, agent)
	return i < len(g) && g[i] == agent
}

// add inserts agent keeping the group sorted. The caller guarantees the
// agent is not already a member.
func (g Group) add(agent int) Group {
	i := sort.SearchInts(g, agent)
	g = append(g, 0)
	copy(g[i+1:], g[i:])
	g[i] = agent
	return g
}

// remove deletes agent from the group. The caller guarantees membership.
func (g Group) remove(agent int) Group {
	i := sort.SearchInts(g, agent)
	return append(g[:i], g[i+1:]...)
}

// Round is one scheduling period: a full partition of the agent population
// into groups.
type Round struct {
	Index  int
	Groups []Group
}

// GroupOf returns the index of the group seating agent, or -1 when the
// agent does not appear in the round.
func (r *Round) GroupOf(agent int) int {
	for gi, g := range r.Groups {
		if g.Contains(agent) {
			return gi
		}
	}
	return -1
}

// Swap exchanges a1 (member of Groups[g1]) and a2 (member of Groups[g2])
// in place. Group sizes are unchanged, so capacity balancing is preserved
// by construction.
func (r *Round) Swap(g1, a1, g2, a2 int) {
	r.Groups[g1] = r.Groups[g1].remove(a1).add(a2)
	r.Groups[g2] = r.Groups[g2].remove(a2).add(a1)
}

// Schedule is the full assignment: Rounds mutated in place by the
// improvement and fairness phases, group membership only. The round count
// and config never change after generation.
type Schedule struct {
	Rounds []Round
	Config EventConfig
}

// Clone returns a deep copy sharing no agent storage with the receiver.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{
		Rounds: make([]Round, len(s.Rounds)),
		Config: s.Config,
	}
	for ri, r := range s.Rounds {
		groups := make([]Group, len(r.Groups))
		for gi, g := range r.Groups {
			groups[gi] = append(Group(nil), g...)
		}
		out.Rounds[ri] = Round{Index: r.Index, Groups: groups}
	}
	return out
}

// CheckCoverage verifies that every round seats each agent id in
// [0, Agents) exactly once. Used by tests and the inspect command; the
// pipeline itself preserves coverage by construction.
func (s *Schedule) CheckCoverage() error {
	for _, r := range s.Rounds {
		seen := make(map[int]bool, s.Config.Agents)
		for gi, g := range r.Groups {
			for _, a := range g {
				if a < 0 || a >= s.Config.Agents {
					return fmt.Errorf("round %d group %d: agent id %d out of range [0,%d)",
						r.Index, gi, a, s.Config.Agents)
				}
				if seen[a] {
					return fmt.Errorf("round %d: agent %d seated more than once", r.Index, a)
				}
				seen[a] = true
			}
		}
		if len(seen) != s.Config.Agents {
			return fmt.Errorf("round %d: %d of %d agents seated", r.Index, len(seen), s.Config.Agents)
		}
	}
	return nil
}

// CheckCapacity verifies the per-group capacity bound and the <=1 size
// spread between groups of the same round.
func (s *Schedule) CheckCapacity() error {
	for _, r := range s.Rounds {
		minSize, maxSize := -1, -1
		for gi, g := range r.Groups {
			if len(g) > s.Config.GroupCapacity {
				return fmt.Errorf("round %d group %d: size %d exceeds capacity %d",
					r.Index, gi, len(g), s.Config.GroupCapacity)
			}
			if minSize == -1 || len(g) < minSize {
				minSize = len(g)
			}
			if len(g) > maxSize {
				maxSize = len(g)
			}
		}
		if maxSize-minSize > 1 {
			return fmt.Errorf("round %d: group size spread %d exceeds 1 (min %d, max %d)",
				r.Index, maxSize-minSize, minSize, maxSize)
		}
	}
	return nil
}
