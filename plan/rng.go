package plan

import (
	"hash/fnv"
	"math/rand"
)

// Seeding is explicit everywhere in this package: the seed travels as an
// argument, never as ambient global state, so two concurrent Build calls
// with different seeds cannot observe each other.

const (
	// subsystemBaseline seeds the baseline generator's unit shuffle.
	// Uses the master seed directly so a given --seed keeps producing
	// the schedules it always produced.
	subsystemBaseline = "baseline"
)

// partitionedRNG hands out deterministic, isolated RNG instances per named
// subsystem. Two runs with the same master seed get identical streams; two
// subsystems of one run get independent streams.
//
// Derivation:
//   - subsystemBaseline: master seed directly
//   - anything else: masterSeed XOR fnv1a64(name)
//
// Not safe for concurrent use; the pipeline is single-threaded.
type partitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

func newPartitionedRNG(seed int64) *partitionedRNG {
	return &partitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// forSubsystem returns the cached RNG for name, creating it on first use.
func (p *partitionedRNG) forSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derived := p.seed
	if name != subsystemBaseline {
		derived ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(derived))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
