package plan

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// strideConstant is the fixed odd constant that spreads rotation strides
// across rounds. With the coprimality bump in roundStride it yields a
// distinct multiplicative permutation per round for practical population
// sizes.
const strideConstant = 17

// GenerateBaseline produces the first valid schedule: every round covers
// the population exactly once, group sizes are balanced within one, and
// the constraint set (when given) is honored. Deterministic — identical
// (config, seed, constraints) always yield a bit-identical schedule.
//
// Cohesive groups are collapsed into single units that co-travel through
// the rotation; exclusive groups are enforced by the placement fallback
// scan. A constraint set whose units cannot be seated within the balanced
// group sizes fails with a *ConstraintConflictError — the <=1 size spread
// is a hard invariant, never silently broken. The config is assumed
// pre-validated (Build validates before calling); no re-validation
// happens here. Complexity O(N*S) without constraints, O(N*S*X) with
// them.
func GenerateBaseline(cfg EventConfig, seed int64, cs *ConstraintSet) (*Schedule, error) {
	units := buildUnits(cfg.Agents, cs)

	// One seed-derived shuffle of the unit order; every round's rotation
	// permutes this same base ordering.
	rng := newPartitionedRNG(seed).forSubsystem(subsystemBaseline)
	rng.Shuffle(len(units), func(i, j int) {
		units[i], units[j] = units[j], units[i]
	})

	logrus.Debugf("baseline: %d agents as %d units, seed=%d", cfg.Agents, len(units), seed)

	sizes := groupSizes(cfg)
	s := &Schedule{
		Rounds: make([]Round, cfg.Rounds),
		Config: cfg,
	}
	for r := 0; r < cfg.Rounds; r++ {
		perm := rotateUnits(units, roundStride(r, len(units)))
		var groups []Group
		if cs.Empty() {
			groups = sliceContiguous(perm, sizes)
		} else {
			var err error
			groups, err = placeConstrained(perm, sizes, cfg, r, cs)
			if err != nil {
				return nil, err
			}
		}
		s.Rounds[r] = Round{Index: r, Groups: groups}
	}

	logrus.Debugf("baseline generated: %d rounds, %d groups per round", cfg.Rounds, cfg.Groups)
	return s, nil
}

// buildUnits collapses each cohesive group into one atomic unit and leaves
// every unconstrained agent as a singleton, cohesive blocks first.
func buildUnits(n int, cs *ConstraintSet) [][]int {
	if cs.Empty() || len(cs.Cohesive) == 0 {
		units := make([][]int, n)
		for i := 0; i < n; i++ {
			units[i] = []int{i}
		}
		return units
	}
	bound := make(map[int]struct{})
	units := make([][]int, 0, n)
	for _, gc := range cs.Cohesive {
		members := gc.sortedMembers()
		units = append(units, members)
		for _, a := range members {
			bound[a] = struct{}{}
		}
	}
	for i := 0; i < n; i++ {
		if _, ok := bound[i]; !ok {
			units = append(units, []int{i})
		}
	}
	return units
}

// groupSizes returns the per-group seat targets: floor(N/X) each, with the
// first N mod X groups taking the extra seat. The <=1 spread invariant
// holds by construction.
func groupSizes(cfg EventConfig) []int {
	sizes := make([]int, cfg.Groups)
	base := cfg.Agents / cfg.Groups
	extra := cfg.Agents % cfg.Groups
	for g := range sizes {
		sizes[g] = base
		if g < extra {
			sizes[g]++
		}
	}
	return sizes
}

// roundStride derives the rotation stride for round r, bumped until it is
// coprime with the unit count so the mapping i -> i*stride mod U is a
// permutation.
func roundStride(r, unitCount int) int {
	if unitCount <= 1 {
		return 1
	}
	stride := (r*strideConstant + 1) % unitCount
	if stride == 0 {
		stride = 1
	}
	for gcd(stride, unitCount) != 1 {
		stride = (stride + 1) % unitCount
		if stride == 0 {
			stride = 1
		}
	}
	return stride
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// rotateUnits applies the multiplicative permutation unit[i] -> unit[(i*stride) mod U].
func rotateUnits(units [][]int, stride int) [][]int {
	u := len(units)
	perm := make([][]int, u)
	for i := 0; i < u; i++ {
		perm[i] = units[(i*stride)%u]
	}
	return perm
}

// sliceContiguous cuts the permuted singleton units into contiguous runs
// of the target sizes. Only valid when every unit is a single agent.
func sliceContiguous(perm [][]int, sizes []int) []Group {
	groups := make([]Group, len(sizes))
	idx := 0
	for g, size := range sizes {
		members := make(Group, 0, size)
		for k := 0; k < size; k++ {
			members = append(members, perm[idx][0])
			idx++
		}
		groups[g] = members.sorted()
	}
	return groups
}

// placeConstrained seats units one by one, preferring the round-robin
// target group and falling back to the next group when the seat budget is
// exhausted or an exclusive constraint would be broken. When every group
// conflicts but a seat budget remains, the assignment is forced into the
// roomiest group with a warning — best-effort co-location for
// unsatisfiable exclusivity under tight capacity. When not even the
// roomiest group can take the unit within its size target, placement
// fails: overfilling would break the <=1 size spread between groups.
func placeConstrained(perm [][]int, sizes []int, cfg EventConfig, round int, cs *ConstraintSet) ([]Group, error) {
	groups := make([]Group, cfg.Groups)
	for g := range groups {
		groups[g] = make(Group, 0, sizes[g])
	}

	// Cohesive blocks first: they need the most contiguous room.
	order := make([][]int, 0, len(perm))
	for _, u := range perm {
		if len(u) > 1 {
			order = append(order, u)
		}
	}
	for _, u := range perm {
		if len(u) == 1 {
			order = append(order, u)
		}
	}

	for i, unit := range order {
		target := -1
		for attempt := 0; attempt < cfg.Groups; attempt++ {
			g := (i + attempt) % cfg.Groups
			if len(groups[g])+len(unit) > sizes[g] {
				continue
			}
			if ViolatesAssignment(groups[g], unit, cs) {
				continue
			}
			target = g
			break
		}
		if target == -1 {
			target = roomiestGroup(groups, sizes)
			if len(groups[target])+len(unit) > sizes[target] {
				return nil, &ConstraintConflictError{Detail: fmt.Sprintf(
					"round %d: no group can seat unit %v within the balanced group sizes", round, unit)}
			}
			logrus.Warnf("round %d: no conflict-free seat for unit %v, forcing into group %d", round, unit, target)
		}
		for _, a := range unit {
			groups[target] = groups[target].add(a)
		}
	}
	return groups, nil
}

// roomiestGroup picks the group with the most seats left against its
// target, lowest index winning ties.
func roomiestGroup(groups []Group, sizes []int) int {
	best, bestRoom := 0, -1 << 31
	for g := range groups {
		room := sizes[g] - len(groups[g])
		if room > bestRoom {
			best, bestRoom = g, room
		}
	}
	return best
}

// sorted returns the group with members ascending. Baseline construction
// appends in permutation order; the sorted form is the package invariant.
func (g Group) sorted() Group {
	out := append(Group(nil), g...)
	// groups are small (<= capacity), insertion sort is enough
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
