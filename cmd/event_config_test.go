package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatplan/seatplan/plan"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEventSpec_Full(t *testing.T) {
	path := writeSpec(t, `
agents: 30
groups: 5
group_capacity: 6
rounds: 6
seed: 7
priority: [3, 11]
constraints:
  cohesive:
    - name: team
      agents: [2, 5, 9]
  exclusive:
    - agents: [3, 7]
`)

	spec, err := LoadEventSpec(path)
	require.NoError(t, err)

	assert.Equal(t, plan.EventConfig{Agents: 30, Groups: 5, GroupCapacity: 6, Rounds: 6}, spec.Config())
	assert.Equal(t, int64(7), spec.Seed)
	assert.Equal(t, map[int]struct{}{3: {}, 11: {}}, spec.PriorityAgents())

	cs := spec.ConstraintSet()
	require.NotNil(t, cs)
	require.Len(t, cs.Cohesive, 1)
	assert.Equal(t, "team", cs.Cohesive[0].Name)
	assert.Equal(t, plan.Cohesive, cs.Cohesive[0].Kind)
	require.Len(t, cs.Exclusive, 1)
	// unnamed groups get positional names
	assert.Equal(t, "exclusive-1", cs.Exclusive[0].Name)
	assert.NoError(t, cs.Validate(spec.Config()))
}

func TestLoadEventSpec_Minimal(t *testing.T) {
	path := writeSpec(t, `
agents: 12
groups: 3
group_capacity: 4
rounds: 3
`)

	spec, err := LoadEventSpec(path)
	require.NoError(t, err)

	assert.Nil(t, spec.ConstraintSet())
	assert.Nil(t, spec.PriorityAgents())
	assert.Zero(t, spec.Seed)
}

func TestLoadEventSpec_UnknownFieldRejected(t *testing.T) {
	path := writeSpec(t, `
agents: 12
groups: 3
group_capacity: 4
rounds: 3
group_capcity: 5
`)

	_, err := LoadEventSpec(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing event spec")
}

func TestLoadEventSpec_MissingFile(t *testing.T) {
	_, err := LoadEventSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading event spec")
}

func TestLoadEventSpec_FeedsPipeline(t *testing.T) {
	path := writeSpec(t, `
agents: 12
groups: 3
group_capacity: 4
rounds: 3
seed: 42
`)
	spec, err := LoadEventSpec(path)
	require.NoError(t, err)

	s, m, err := plan.Build(spec.Config(), spec.Seed, plan.BuildOptions{
		Constraints:    spec.ConstraintSet(),
		PriorityAgents: spec.PriorityAgents(),
	})

	require.NoError(t, err)
	require.NoError(t, s.CheckCoverage())
	assert.LessOrEqual(t, m.EquityGap(), 1)
}
