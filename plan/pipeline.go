package plan

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// SkipImproveThreshold is the population size at which the local
	// improvement phase is bypassed: its quadratic sweep costs more than
	// its marginal benefit once the fairness phase's guarantee kicks in.
	// A performance policy, not a correctness requirement.
	SkipImproveThreshold = 50

	// Iteration budgets for the improvement phase, scaled by population.
	smallEventIterations   = 50
	defaultEventIterations = 20
)

// BuildOptions tune a Build call beyond the config itself.
type BuildOptions struct {
	// Constraints is the optional cohesive/exclusive declaration set,
	// threaded through all three generation phases.
	Constraints *ConstraintSet
	// PriorityAgents marks the sub-population served first by fairness
	// enforcement and broken out separately in the metrics.
	PriorityAgents map[int]struct{}
	// MaxIterations overrides the improvement iteration budget when > 0.
	MaxIterations int
}

// Build runs the full pipeline — baseline, local improvement, fairness
// enforcement, metrics — and returns the finished schedule with its
// quality numbers. The caller owns the returned schedule exclusively; the
// pipeline retains no reference.
//
// A config violating its invariant fails up front with a
// *ConfigurationError; an unsatisfiable constraint set with a
// *ConstraintConflictError. When fairness enforcement cannot bound the
// equity gap to 1, the best schedule and its metrics are still returned,
// alongside an error wrapping ErrFairnessUnreachable.
func Build(cfg EventConfig, seed int64, opts BuildOptions) (*Schedule, Metrics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Metrics{}, err
	}
	cs := opts.Constraints
	if !cs.Empty() {
		if err := cs.Validate(cfg); err != nil {
			return nil, Metrics{}, err
		}
		logrus.Infof("constraints: %d cohesive, %d exclusive", len(cs.Cohesive), len(cs.Exclusive))
	}

	start := time.Now()
	baseline, err := GenerateBaseline(cfg, seed, cs)
	if err != nil {
		return nil, Metrics{}, err
	}
	logrus.WithFields(logrus.Fields{
		"phase":    "baseline",
		"duration": time.Since(start),
	}).Infof("baseline generated: %d agents, %d groups, %d rounds", cfg.Agents, cfg.Groups, cfg.Rounds)

	improved := baseline
	if cfg.Agents >= SkipImproveThreshold {
		logrus.Infof("improvement skipped: %d agents >= threshold %d", cfg.Agents, SkipImproveThreshold)
	} else {
		iterations := opts.MaxIterations
		if iterations <= 0 {
			iterations = defaultEventIterations
			if cfg.Agents < 20 {
				iterations = smallEventIterations
			}
		}
		phase := time.Now()
		improved = Improve(baseline, cs, iterations)
		logrus.WithFields(logrus.Fields{
			"phase":    "improve",
			"duration": time.Since(phase),
		}).Info("local improvement finished")
	}

	phase := time.Now()
	fair, err := EnforceFairness(improved, cfg, cs, opts.PriorityAgents)
	logrus.WithFields(logrus.Fields{
		"phase":    "fairness",
		"duration": time.Since(phase),
	}).Info("fairness enforcement finished")

	m := ComputeMetrics(fair, cfg, opts.PriorityAgents)
	logrus.WithFields(logrus.Fields{
		"unique_pairs": m.TotalUniquePairs,
		"repeat_pairs": m.TotalRepeatPairs,
		"equity_gap":   m.EquityGap(),
		"duration":     time.Since(start),
	}).Info("pipeline complete")

	return fair, m, err
}
