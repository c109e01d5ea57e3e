package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSwap_IsPure(t *testing.T) {
	s := testSchedule()
	history := MeetingHistory(s)
	before := s.Clone()

	_, err := EvaluateSwap(s, 1, 0, 3, 1, 1, history)
	require.NoError(t, err)

	// THEN the schedule is untouched
	assert.Equal(t, before.Rounds, s.Rounds)
}

func TestEvaluateSwap_ScoresRepeatDelta(t *testing.T) {
	// GIVEN a history where only round 0's pairs exist
	s := testSchedule()
	history := make(map[Pair]struct{})
	for _, g := range s.Rounds[0].Groups {
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				history[NewPair(g[i], g[j])] = struct{}{}
			}
		}
	}

	// round 1 groups are {0,3,4} and {1,2,5}; against round 0 history the
	// repeats are (3,4) on one side and (1,2) on the other, two in total.
	// WHEN 0 and 5 trade places the post-swap groups {3,4,5} and {0,1,2}
	// reconstruct the round 0 partition, six repeats.
	delta, err := EvaluateSwap(s, 1, 0, 0, 1, 5, history)
	require.NoError(t, err)
	assert.Equal(t, 4, delta)

	// GIVEN a degenerate round that duplicates round 0 outright
	s.Rounds[1].Groups = []Group{{0, 1, 2}, {3, 4, 5}}

	// WHEN 2 and 3 trade places the groups become {0,1,3} and {2,4,5},
	// one repeat each side against six before.
	delta, err = EvaluateSwap(s, 1, 0, 2, 1, 3, history)
	require.NoError(t, err)
	assert.Equal(t, -4, delta)
}

func TestEvaluateSwap_AgentNotSeated(t *testing.T) {
	s := testSchedule()
	history := MeetingHistory(s)

	// agent 5 is in group 1 of round 1, not group 0
	_, err := EvaluateSwap(s, 1, 0, 5, 1, 1, history)
	assert.Error(t, err)

	_, err = EvaluateSwap(s, 1, 0, 0, 1, 3, history)
	assert.Error(t, err)
}

func TestEvaluateSwap_MatchesGroundTruth(t *testing.T) {
	// Property: for every legal swap in a generated schedule, the evaluator's
	// delta equals the repeat delta measured by full recomputation.
	cfg := EventConfig{Agents: 18, Groups: 3, GroupCapacity: 6, Rounds: 4}
	s := mustBaseline(t, cfg, 42, nil)

	for round := range s.Rounds {
		history := MeetingHistory(s)
		r := &s.Rounds[round]
		g1, g2 := 0, 1
		a1, a2 := r.Groups[g1][0], r.Groups[g2][0]

		delta, err := EvaluateSwap(s, round, g1, a1, g2, a2, history)
		require.NoError(t, err)

		before := groupRepeats(r.Groups[g1], history) + groupRepeats(r.Groups[g2], history)
		trial := s.Clone()
		trial.Rounds[round].Swap(g1, a1, g2, a2)
		after := groupRepeats(trial.Rounds[round].Groups[g1], history) +
			groupRepeats(trial.Rounds[round].Groups[g2], history)

		assert.Equal(t, after-before, delta, "round %d", round)
	}
}
