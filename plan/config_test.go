package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventConfig_Validate_Valid(t *testing.T) {
	cfg := EventConfig{Agents: 30, Groups: 5, GroupCapacity: 6, Rounds: 6}
	assert.NoError(t, cfg.Validate())
}

func TestEventConfig_Validate_Violations(t *testing.T) {
	cases := []struct {
		name      string
		cfg       EventConfig
		parameter string
	}{
		{"too few agents", EventConfig{Agents: 1, Groups: 5, GroupCapacity: 6, Rounds: 6}, "agents"},
		{"no groups", EventConfig{Agents: 30, Groups: 0, GroupCapacity: 6, Rounds: 6}, "groups"},
		{"capacity below two", EventConfig{Agents: 30, Groups: 5, GroupCapacity: 1, Rounds: 6}, "capacity"},
		{"no rounds", EventConfig{Agents: 30, Groups: 5, GroupCapacity: 6, Rounds: 0}, "rounds"},
		{"not enough seats", EventConfig{Agents: 50, Groups: 5, GroupCapacity: 8, Rounds: 3}, "capacity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "want *ConfigurationError, got %T", err)
			assert.Equal(t, tc.parameter, cfgErr.Parameter)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestEventConfig_Validate_CapacityMessageNamesShortfall(t *testing.T) {
	// GIVEN 5 groups x 8 seats = 40 seats for 50 agents
	cfg := EventConfig{Agents: 50, Groups: 5, GroupCapacity: 8, Rounds: 3}

	// WHEN validation fails
	err := cfg.Validate()
	require.Error(t, err)

	// THEN the message names the arithmetic and the shortfall verbatim
	assert.Contains(t, err.Error(), "40 seats < 50 agents")
	assert.Contains(t, err.Error(), "10 seats short")
}

func TestEventConfig_TotalCapacity(t *testing.T) {
	cfg := EventConfig{Agents: 30, Groups: 5, GroupCapacity: 6, Rounds: 6}
	assert.Equal(t, 30, cfg.TotalCapacity())
}
