package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration MUST
// produce bit-for-bit identical results.
type SimulationKey int64

const (
	// SubsystemArrivals is the RNG subsystem for workload generation.
	// Uses the master seed directly.
	SubsystemArrivals = "arrivals"

	// SubsystemService is the RNG subsystem for the pre-generated
	// service-time stream. Isolated from arrivals so both disciplines
	// consume identical streams regardless of draw counts elsewhere.
	SubsystemService = "service"
)

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem. The arrivals subsystem uses the master seed directly; every
// other subsystem is seeded with masterSeed XOR fnv1a64(name).
//
// NOT thread-safe; the simulator is single-threaded by design.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemArrivals {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
