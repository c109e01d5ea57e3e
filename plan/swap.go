package plan

import "fmt"

// EvaluateSwap scores the exchange of a1 (in round.Groups[g1]) with a2 (in
// round.Groups[g2]) against the meeting history: the returned delta is the
// repeat-pair count of the two groups after the swap minus before.
// Negative means the swap sheds repeats. Pure — the schedule is never
// mutated, the post-swap groups are simulated.
//
// Errors when either agent is not seated where claimed, which the
// improvement scan uses to skip agents already moved earlier in the same
// pass.
func EvaluateSwap(s *Schedule, round, g1, a1, g2, a2 int, history map[Pair]struct{}) (int, error) {
	r := &s.Rounds[round]
	grp1, grp2 := r.Groups[g1], r.Groups[g2]

	if !grp1.Contains(a1) {
		return 0, fmt.Errorf("agent %d not in round %d group %d", a1, round, g1)
	}
	if !grp2.Contains(a2) {
		return 0, fmt.Errorf("agent %d not in round %d group %d", a2, round, g2)
	}

	before := groupRepeats(grp1, history) + groupRepeats(grp2, history)

	after1 := append(Group(nil), grp1...).remove(a1).add(a2)
	after2 := append(Group(nil), grp2...).remove(a2).add(a1)
	after := groupRepeats(after1, history) + groupRepeats(after2, history)

	return after - before, nil
}
