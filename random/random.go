// Package random provides the seeded random source the sampler state draws
// from. Two Sources built from the same seed produce the same sequence.
package random

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a deterministic uniform and categorical generator.
type Source struct {
	src  *rand.PCG
	rand *rand.Rand
	seed uint64
}

// New returns a Source seeded with seed.
func New(seed uint64) *Source {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Source{src: src, rand: rand.New(src), seed: seed}
}

// Seed returns the seed the Source was built from.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.rand.Float64()
}

// IntN returns a uniform draw in [0, n).
func (s *Source) IntN(n int) int {
	return s.rand.IntN(n)
}

// Categorical returns index i with probability weights[i] / sum(weights).
// Weights need not be normalized but must be non-negative with a positive sum.
func (s *Source) Categorical(weights []float64) int {
	sum := 0.0
	for _, w := range weights {
		if w < 0.0 {
			panic(fmt.Sprintf("random: negative weight (%v)", w))
		}
		sum += w
	}
	if !(sum > 0.0) {
		panic(fmt.Sprintf("random: weights sum (%v) must be positive", sum))
	}
	cat := distuv.NewCategorical(weights, s.src)
	return int(cat.Rand())
}
