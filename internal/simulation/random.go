package simulation

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/iti/rngstream"
)

// Generator selects the random number generator behind each Monte Carlo run.
type Generator string

const (
	// GeneratorPCG seeds a PCG generator with (seed, run index), so a run's
	// draws depend only on its index.
	GeneratorPCG Generator = "pcg"

	// GeneratorMRG32k3a gives each run its own MRG32k3a stream. The package
	// seed is reset from the engine seed before the streams are created, so
	// run i gets the same stream in every scenario.
	GeneratorMRG32k3a Generator = "mrg32k3a"
)

// ParseGenerator validates a generator name.
func ParseGenerator(name string) (Generator, error) {
	switch g := Generator(name); g {
	case GeneratorPCG, GeneratorMRG32k3a:
		return g, nil
	case "":
		return GeneratorPCG, nil
	default:
		return "", fmt.Errorf("unknown random generator %q", name)
	}
}

// SetRngStreamMasterSeed uses seed..seed+5 as the package seed, which must
// stay below m2 = 4294944443.
const mrgSeedLimit = 4294944443 - 6

// rngstream hands out streams from a package-global seed.
var streamMu sync.Mutex

// newSources returns one independent source per run.
func newSources(gen Generator, seed uint64, runs int) []rand.Source {
	sources := make([]rand.Source, runs)
	if gen == GeneratorMRG32k3a {
		streamMu.Lock()
		defer streamMu.Unlock()
		rngstream.SetRngStreamMasterSeed(seed%(mrgSeedLimit-1) + 1)
		for i := range sources {
			sources[i] = &streamSource{rng: rngstream.New(fmt.Sprintf("run-%d", i))}
		}
		return sources
	}
	for i := range sources {
		sources[i] = rand.NewPCG(seed, uint64(i))
	}
	return sources
}

// streamSource adapts an MRG32k3a stream to math/rand/v2.Source.
type streamSource struct {
	rng *rngstream.RngStream
}

// Uint64 packs two 32-bit draws, the native resolution of MRG32k3a.
// rand.Float64 reads the low bits and the exponential sampler the high ones.
func (s *streamSource) Uint64() uint64 {
	hi := uint64(s.rng.RandU01() * (1 << 32))
	lo := uint64(s.rng.RandU01() * (1 << 32))
	return hi<<32 | lo
}
