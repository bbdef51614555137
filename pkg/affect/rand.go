package affect

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source threaded through trauma selection, regulation
// jitter, memory recall, trigger sampling, attachment gating and guidance cue
// selection. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewSeededRand returns a reproducible Rand for the given seed.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newDefaultRand() Rand {
	return NewSeededRand(uint64(time.Now().UnixNano()))
}

// uniform returns a value in [lo, hi).
func uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// sampleStrings picks up to k distinct items without replacement, keeping the
// order in which they were drawn.
func sampleStrings(r Rand, items []string, k int) []string {
	pool := append([]string(nil), items...)
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]string, 0, k)
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}
