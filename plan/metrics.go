// Quality numbers reported for a finished schedule: contact totals,
// per-agent distribution, and the equity gap the fairness phase bounds.

package plan

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates the quality statistics of one schedule. Computed
// fresh from a Schedule; never persisted independently of it.
type Metrics struct {
	TotalUniquePairs       int     // pairs that met at least once
	TotalRepeatPairs       int     // pairs that met more than once
	UniqueContactsPerAgent []int   // length-N, indexed by agent id
	MinUnique              int     // fewest unique contacts of any agent
	MaxUnique              int     // most unique contacts of any agent
	MeanUnique             float64 // population mean of unique contacts
	StdDevUnique           float64 // sample standard deviation of unique contacts
	GroupSizesPerRound     [][]int // group size distribution, per round

	Priority *PriorityBreakdown // sub-population split, nil unless requested
}

// EquityGap is the spread between the most- and least-connected agent.
// The fairness phase guarantees this is at most 1 on a returned schedule.
func (m Metrics) EquityGap() int {
	return m.MaxUnique - m.MinUnique
}

// CohortStats are the distribution numbers for one agent subset.
type CohortStats struct {
	Count      int
	MinUnique  int
	MaxUnique  int
	MeanUnique float64
}

// EquityGap is the spread within the cohort alone.
func (c CohortStats) EquityGap() int {
	return c.MaxUnique - c.MinUnique
}

// PriorityBreakdown splits the contact distribution between a priority
// agent subset and everyone else, computed the same way over the filtered
// ids.
type PriorityBreakdown struct {
	Priority CohortStats
	Regular  CohortStats
}

// ComputeMetrics derives all quality numbers from the schedule's current
// state. Pure recomputation: safe to call after any external mutation.
// When priority is non-empty the breakdown between that subset and the
// rest is included.
func ComputeMetrics(s *Schedule, cfg EventConfig, priority map[int]struct{}) Metrics {
	counts := PairCounts(s)

	perAgent := make([]int, cfg.Agents)
	repeats := 0
	for p, c := range counts {
		perAgent[p.Lo]++
		perAgent[p.Hi]++
		if c > 1 {
			repeats++
		}
	}

	m := Metrics{
		TotalUniquePairs:       len(counts),
		TotalRepeatPairs:       repeats,
		UniqueContactsPerAgent: perAgent,
		GroupSizesPerRound:     make([][]int, len(s.Rounds)),
	}
	for ri, r := range s.Rounds {
		sizes := make([]int, len(r.Groups))
		for gi, g := range r.Groups {
			sizes[gi] = len(g)
		}
		m.GroupSizesPerRound[ri] = sizes
	}

	m.MinUnique, m.MaxUnique, m.MeanUnique = distribution(perAgent)
	if len(perAgent) > 1 {
		m.StdDevUnique = stat.StdDev(toFloats(perAgent), nil)
	}

	if len(priority) > 0 {
		m.Priority = priorityBreakdown(perAgent, priority)
	}
	return m
}

// distribution returns min, max and mean of the per-agent contact counts.
func distribution(perAgent []int) (min, max int, mean float64) {
	if len(perAgent) == 0 {
		return 0, 0, 0
	}
	min, max = perAgent[0], perAgent[0]
	for _, c := range perAgent[1:] {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max, stat.Mean(toFloats(perAgent), nil)
}

func priorityBreakdown(perAgent []int, priority map[int]struct{}) *PriorityBreakdown {
	var prio, rest []int
	for id, c := range perAgent {
		if _, ok := priority[id]; ok {
			prio = append(prio, c)
		} else {
			rest = append(rest, c)
		}
	}
	return &PriorityBreakdown{
		Priority: cohortStats(prio),
		Regular:  cohortStats(rest),
	}
}

func cohortStats(contacts []int) CohortStats {
	if len(contacts) == 0 {
		return CohortStats{}
	}
	min, max, mean := distribution(contacts)
	return CohortStats{
		Count:      len(contacts),
		MinUnique:  min,
		MaxUnique:  max,
		MeanUnique: mean,
	}
}

func toFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// Print displays the schedule quality summary. Used by the CLI after
// generation.
func (m Metrics) Print() {
	fmt.Println("=== Schedule Metrics ===")
	fmt.Printf("Unique pairs met     : %d\n", m.TotalUniquePairs)
	fmt.Printf("Repeated pairs       : %d\n", m.TotalRepeatPairs)
	fmt.Printf("Contacts per agent   : min=%d max=%d mean=%.2f stddev=%.2f\n",
		m.MinUnique, m.MaxUnique, m.MeanUnique, m.StdDevUnique)
	fmt.Printf("Equity gap           : %d\n", m.EquityGap())
	if m.Priority != nil {
		p, r := m.Priority.Priority, m.Priority.Regular
		fmt.Printf("Priority agents (%d)  : min=%d max=%d mean=%.2f gap=%d\n",
			p.Count, p.MinUnique, p.MaxUnique, p.MeanUnique, p.EquityGap())
		fmt.Printf("Regular agents (%d)   : min=%d max=%d mean=%.2f gap=%d\n",
			r.Count, r.MinUnique, r.MaxUnique, r.MeanUnique, r.EquityGap())
	}
}
