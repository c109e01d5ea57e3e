package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seatplan/seatplan/plan"
)

// EventSpec is the YAML description of one event: the sizing parameters
// plus optional group constraints and priority agents.
type EventSpec struct {
	Agents        int             `yaml:"agents"`
	Groups        int             `yaml:"groups"`
	GroupCapacity int             `yaml:"group_capacity"`
	Rounds        int             `yaml:"rounds"`
	Seed          int64           `yaml:"seed,omitempty"`
	Priority      []int           `yaml:"priority,omitempty"`
	Constraints   *ConstraintSpec `yaml:"constraints,omitempty"`
}

// ConstraintSpec lists the cohesive and exclusive agent groups.
type ConstraintSpec struct {
	Cohesive  []ConstraintGroupSpec `yaml:"cohesive,omitempty"`
	Exclusive []ConstraintGroupSpec `yaml:"exclusive,omitempty"`
}

// ConstraintGroupSpec names one constrained agent group.
type ConstraintGroupSpec struct {
	Name   string `yaml:"name,omitempty"`
	Agents []int  `yaml:"agents"`
}

// LoadEventSpec reads and parses an event spec. Unknown YAML fields are
// rejected so typos fail loudly instead of silently dropping constraints.
func LoadEventSpec(path string) (*EventSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event spec: %w", err)
	}
	var spec EventSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing event spec: %w", err)
	}
	return &spec, nil
}

// Config maps the spec to the core EventConfig. Validation happens inside
// plan.Build, not here.
func (s *EventSpec) Config() plan.EventConfig {
	return plan.EventConfig{
		Agents:        s.Agents,
		Groups:        s.Groups,
		GroupCapacity: s.GroupCapacity,
		Rounds:        s.Rounds,
	}
}

// ConstraintSet maps the spec's constraint lists to the core type.
// Unnamed groups get positional names for readable conflict messages.
func (s *EventSpec) ConstraintSet() *plan.ConstraintSet {
	if s.Constraints == nil {
		return nil
	}
	cs := &plan.ConstraintSet{}
	for i, g := range s.Constraints.Cohesive {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("cohesive-%d", i+1)
		}
		cs.Cohesive = append(cs.Cohesive, plan.NewGroupConstraint(name, plan.Cohesive, g.Agents...))
	}
	for i, g := range s.Constraints.Exclusive {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("exclusive-%d", i+1)
		}
		cs.Exclusive = append(cs.Exclusive, plan.NewGroupConstraint(name, plan.Exclusive, g.Agents...))
	}
	return cs
}

// PriorityAgents returns the priority ids as a set, nil when none.
func (s *EventSpec) PriorityAgents() map[int]struct{} {
	if len(s.Priority) == 0 {
		return nil
	}
	out := make(map[int]struct{}, len(s.Priority))
	for _, id := range s.Priority {
		out[id] = struct{}{}
	}
	return out
}
