package plan

import "fmt"

// EventConfig holds the immutable parameters of one scheduling run.
// It is shared read-only by every pipeline phase.
type EventConfig struct {
	Agents        int // total agent population N (must be >= 2)
	Groups        int // groups per round X (must be >= 1)
	GroupCapacity int // max agents per group x (must be >= 2)
	Rounds        int // number of rounds S (must be >= 1)
}

// TotalCapacity returns the number of seats available per round.
func (c EventConfig) TotalCapacity() int {
	return c.Groups * c.GroupCapacity
}

// ConfigurationError reports an EventConfig that cannot seat its
// population. It names the offending parameter and the violated bound so
// callers can surface it verbatim.
type ConfigurationError struct {
	Parameter string
	Value     int
	Detail    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %d: %s", e.Parameter, e.Value, e.Detail)
}

// Validate checks the EventConfig against its minimums and the capacity
// invariant Groups*GroupCapacity >= Agents. The first violation found is
// returned as a *ConfigurationError; a valid config returns nil.
// Detection happens once, before any generation work — there is nothing
// transient to retry against.
func (c EventConfig) Validate() error {
	if c.Agents < 2 {
		return &ConfigurationError{
			Parameter: "agents", Value: c.Agents,
			Detail: "at least 2 agents are required",
		}
	}
	if c.Groups < 1 {
		return &ConfigurationError{
			Parameter: "groups", Value: c.Groups,
			Detail: "at least 1 group is required",
		}
	}
	if c.GroupCapacity < 2 {
		return &ConfigurationError{
			Parameter: "capacity", Value: c.GroupCapacity,
			Detail: "a group must seat at least 2 agents for any contact to happen",
		}
	}
	if c.Rounds < 1 {
		return &ConfigurationError{
			Parameter: "rounds", Value: c.Rounds,
			Detail: "at least 1 round is required",
		}
	}
	if seats := c.TotalCapacity(); seats < c.Agents {
		return &ConfigurationError{
			Parameter: "capacity", Value: c.GroupCapacity,
			Detail: fmt.Sprintf("%d groups x %d seats = %d seats < %d agents (%d seats short)",
				c.Groups, c.GroupCapacity, seats, c.Agents, c.Agents-seats),
		}
	}
	return nil
}
