// Deeper post-hoc analysis of a finished schedule: the full contact
// matrix, its descriptive statistics, and a composite quality grade.

package plan

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ContactMatrix builds the n x n symmetric matrix whose (i, j) entry is
// the number of rounds agents i and j shared a group. Diagonal is zero.
func ContactMatrix(s *Schedule, n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for _, r := range s.Rounds {
		for _, g := range r.Groups {
			for i := 0; i < len(g); i++ {
				for j := i + 1; j < len(g); j++ {
					a, b := g[i], g[j]
					m.Set(a, b, m.At(a, b)+1)
					m.Set(b, a, m.At(b, a)+1)
				}
			}
		}
	}
	return m
}

// MatrixStats are the descriptive numbers of a contact matrix.
type MatrixStats struct {
	PairsMet      int     // pairs meeting at least once
	PossiblePairs int     // n*(n-1)/2
	CoverageRate  float64 // percentage of possible pairs met, 0-100
	RepeatPairs   int     // pairs meeting two or more times
	MaxMeetings   int     // most rounds any single pair shared
}

// ComputeMatrixStats scans the upper triangle of a contact matrix.
func ComputeMatrixStats(m *mat.Dense) MatrixStats {
	n, _ := m.Dims()
	stats := MatrixStats{PossiblePairs: n * (n - 1) / 2}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			meetings := int(m.At(i, j))
			if meetings >= 1 {
				stats.PairsMet++
			}
			if meetings >= 2 {
				stats.RepeatPairs++
			}
			if meetings > stats.MaxMeetings {
				stats.MaxMeetings = meetings
			}
		}
	}
	if stats.PossiblePairs > 0 {
		stats.CoverageRate = 100.0 * float64(stats.PairsMet) / float64(stats.PossiblePairs)
	}
	return stats
}

// QualityScore grades a schedule 0-100 from three weighted criteria:
// equity (40 points — the hard contract), pair coverage (30) and repeat
// rate (30).
func QualityScore(m Metrics, stats MatrixStats) int {
	var equityScore float64
	switch gap := m.EquityGap(); {
	case gap <= 1:
		equityScore = 40
	case gap == 2:
		equityScore = 25
	case gap == 3:
		equityScore = 10
	}

	coverageScore := 30 * stats.CoverageRate / 100

	var repeatPct float64
	if stats.PossiblePairs > 0 {
		repeatPct = 100 * float64(stats.RepeatPairs) / float64(stats.PossiblePairs)
	}
	var repeatScore float64
	switch {
	case repeatPct == 0:
		repeatScore = 30
	case repeatPct < 5:
		repeatScore = 25
	case repeatPct < 10:
		repeatScore = 15
	default:
		repeatScore = math.Max(0, 30-repeatPct)
	}

	return int(math.Round(equityScore + coverageScore + repeatScore))
}
