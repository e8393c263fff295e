package behavior

import "math/rand"

// Rand is the injected randomness source for wander timing and
// direction picks. Production uses the shared math/rand source;
// tests inject a seeded one so movement scenarios reproduce.
type Rand interface {
	Float64() float64 // uniform in [0,1)
}

type sharedRand struct{}

func (sharedRand) Float64() float64 { return rand.Float64() }

// DefaultRand returns the production randomness source.
func DefaultRand() Rand { return sharedRand{} }

// durationIn picks a duration in [minMs, maxMs) milliseconds.
func durationIn(rng Rand, minMs, maxMs int64) int64 {
	if maxMs <= minMs {
		return minMs
	}
	return minMs + int64(rng.Float64()*float64(maxMs-minMs))
}
