package plan

import (
	"fmt"
	"sort"
)

// ConstraintKind distinguishes the two group constraint flavors.
type ConstraintKind int

const (
	// Cohesive members must always share a group.
	Cohesive ConstraintKind = iota
	// Exclusive members must never share a group.
	Exclusive
)

func (k ConstraintKind) String() string {
	if k == Cohesive {
		return "cohesive"
	}
	return "exclusive"
}

// GroupConstraint declares that the named agents either always co-travel
// (Cohesive) or are never co-located (Exclusive).
type GroupConstraint struct {
	Name    string
	Kind    ConstraintKind
	Members map[int]struct{}
}

// NewGroupConstraint builds a constraint over the given agent ids.
func NewGroupConstraint(name string, kind ConstraintKind, agents ...int) GroupConstraint {
	members := make(map[int]struct{}, len(agents))
	for _, a := range agents {
		members[a] = struct{}{}
	}
	return GroupConstraint{Name: name, Kind: kind, Members: members}
}

// sortedMembers returns the member ids ascending, for deterministic scans
// and stable error messages.
func (gc GroupConstraint) sortedMembers() []int {
	out := make([]int, 0, len(gc.Members))
	for a := range gc.Members {
		out = append(out, a)
	}
	sort.Ints(out)
	return out
}

// ConstraintSet aggregates the group constraints of one run. Immutable for
// the duration of a generation: every phase consults it, none mutates it.
type ConstraintSet struct {
	Cohesive  []GroupConstraint
	Exclusive []GroupConstraint
}

// Empty reports whether the set carries no constraints at all. A nil
// receiver is an empty set.
func (cs *ConstraintSet) Empty() bool {
	return cs == nil || (len(cs.Cohesive) == 0 && len(cs.Exclusive) == 0)
}

// ConstraintConflictError reports a constraint set that is jointly
// unsatisfiable for a given configuration.
type ConstraintConflictError struct {
	Detail string
}

func (e *ConstraintConflictError) Error() string {
	return "constraint conflict: " + e.Detail
}

// Validate checks the set against cfg: every member id in range, each
// constraint naming at least two agents, cohesive groups fitting the group
// capacity, no agent in two cohesive groups, and no two agents that are
// both cohesively bound and exclusively separated. Surfaced at
// construction time, never mid-pipeline.
func (cs *ConstraintSet) Validate(cfg EventConfig) error {
	if cs.Empty() {
		return nil
	}
	all := make([]GroupConstraint, 0, len(cs.Cohesive)+len(cs.Exclusive))
	all = append(all, cs.Cohesive...)
	all = append(all, cs.Exclusive...)
	for _, gc := range all {
		if len(gc.Members) < 2 {
			return &ConstraintConflictError{Detail: fmt.Sprintf(
				"%s group %q names %d agent(s), need at least 2", gc.Kind, gc.Name, len(gc.Members))}
		}
		for _, a := range gc.sortedMembers() {
			if a < 0 || a >= cfg.Agents {
				return &ConstraintConflictError{Detail: fmt.Sprintf(
					"%s group %q: agent id %d out of range [0,%d)", gc.Kind, gc.Name, a, cfg.Agents)}
			}
		}
	}

	inCohesive := make(map[int]string)
	for _, gc := range cs.Cohesive {
		if len(gc.Members) > cfg.GroupCapacity {
			return &ConstraintConflictError{Detail: fmt.Sprintf(
				"cohesive group %q has %d members, exceeding group capacity %d",
				gc.Name, len(gc.Members), cfg.GroupCapacity)}
		}
		for _, a := range gc.sortedMembers() {
			if other, dup := inCohesive[a]; dup {
				return &ConstraintConflictError{Detail: fmt.Sprintf(
					"agent %d belongs to cohesive groups %q and %q; one cohesive group per agent",
					a, other, gc.Name)}
			}
			inCohesive[a] = gc.Name
		}
	}

	// Two agents forced together and forced apart can never be satisfied.
	for _, ex := range cs.Exclusive {
		for _, co := range cs.Cohesive {
			overlap := 0
			for a := range ex.Members {
				if _, ok := co.Members[a]; ok {
					overlap++
				}
			}
			if overlap >= 2 {
				return &ConstraintConflictError{Detail: fmt.Sprintf(
					"%d agents are in cohesive group %q and exclusive group %q: cannot be always together and never together",
					overlap, co.Name, ex.Name)}
			}
		}
	}
	return nil
}
