package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolatesSwap_NilConstraintsAllowEverything(t *testing.T) {
	s := testSchedule()
	assert.False(t, ViolatesSwap(&s.Rounds[0], 0, 1, 1, 4, nil))
}

func TestViolatesSwap_CohesiveMemberCannotLeaveItsGroup(t *testing.T) {
	// GIVEN agents 0 and 1 bound together, seated in {0,1,2}
	s := testSchedule()
	cs := &ConstraintSet{
		Cohesive: []GroupConstraint{NewGroupConstraint("couple", Cohesive, 0, 1)},
	}

	// WHEN swapping 1 away from 0 is proposed
	violates := ViolatesSwap(&s.Rounds[0], 0, 1, 1, 4, cs)

	// THEN the swap is rejected
	assert.True(t, violates)

	// AND swapping an unbound member of the same group is fine
	assert.False(t, ViolatesSwap(&s.Rounds[0], 0, 2, 1, 4, cs))
}

func TestViolatesSwap_ExclusiveMembersNeverCoLocated(t *testing.T) {
	// GIVEN agents 3 and 5 declared exclusive; round 0 seats {0,1,2} {3,4,5}
	s := testSchedule()
	cs := &ConstraintSet{
		Exclusive: []GroupConstraint{NewGroupConstraint("rivals", Exclusive, 3, 2)},
	}

	// Moving 2 into {3,4,5} would co-locate the rivals
	assert.True(t, ViolatesSwap(&s.Rounds[0], 0, 2, 1, 4, cs))

	// A swap between unconstrained agents leaves the rivals apart: allowed
	assert.False(t, ViolatesSwap(&s.Rounds[0], 0, 1, 1, 4, cs))
}

func TestViolatesSwap_ExclusivePairLeavingTogetherIsClean(t *testing.T) {
	// Swapping the two rivals with each other keeps them apart
	s := testSchedule()
	cs := &ConstraintSet{
		Exclusive: []GroupConstraint{NewGroupConstraint("rivals", Exclusive, 2, 3)},
	}
	assert.False(t, ViolatesSwap(&s.Rounds[0], 0, 2, 1, 3, cs))
}

func TestViolatesAssignment(t *testing.T) {
	cs := &ConstraintSet{
		Exclusive: []GroupConstraint{NewGroupConstraint("rivals", Exclusive, 3, 7)},
	}

	// Group already seats 3; adding 7 violates, adding 8 does not
	assert.True(t, ViolatesAssignment(Group{1, 3}, []int{7}, cs))
	assert.False(t, ViolatesAssignment(Group{1, 3}, []int{8}, cs))

	// A cohesive block carrying 7 is just as rejected
	assert.True(t, ViolatesAssignment(Group{1, 3}, []int{6, 7}, cs))

	// No exclusive member seated yet: anything goes
	assert.False(t, ViolatesAssignment(Group{1, 2}, []int{3}, cs))
}

func TestCountViolations(t *testing.T) {
	s := testSchedule()

	// Round 0 = {0,1,2} {3,4,5}: cohesive {0,3} is split, exclusive {3,4} co-located
	cs := &ConstraintSet{
		Cohesive:  []GroupConstraint{NewGroupConstraint("split", Cohesive, 0, 3)},
		Exclusive: []GroupConstraint{NewGroupConstraint("together", Exclusive, 3, 4)},
	}
	assert.Equal(t, 2, CountViolations(&s.Rounds[0], cs))

	clean := &ConstraintSet{
		Cohesive:  []GroupConstraint{NewGroupConstraint("ok", Cohesive, 0, 1)},
		Exclusive: []GroupConstraint{NewGroupConstraint("apart", Exclusive, 0, 3)},
	}
	assert.Equal(t, 0, CountViolations(&s.Rounds[0], clean))
}

func TestScheduleSatisfies(t *testing.T) {
	s := testSchedule()

	// {0,1} share a group in round 0 but not in round 1
	cs := &ConstraintSet{
		Cohesive: []GroupConstraint{NewGroupConstraint("couple", Cohesive, 0, 1)},
	}
	assert.False(t, ScheduleSatisfies(s, cs))

	// {1,2} co-travel in both rounds
	ok := &ConstraintSet{
		Cohesive: []GroupConstraint{NewGroupConstraint("couple", Cohesive, 1, 2)},
	}
	assert.True(t, ScheduleSatisfies(s, ok))
}
