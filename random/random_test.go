package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	weights := []float64{1, 2, 3, 0.5}
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Categorical(weights), b.Categorical(weights))
		assert.Equal(t, a.IntN(7), b.IntN(7))
	}
	assert.Equal(t, uint64(42), a.Seed())
}

func TestCategoricalSkipsZeroWeights(t *testing.T) {
	s := New(1)
	weights := []float64{0, 1, 0}
	for i := 0; i < 200; i++ {
		assert.Equal(t, 1, s.Categorical(weights))
	}
}

func TestCategoricalFrequencies(t *testing.T) {
	s := New(7)
	weights := []float64{1, 3}
	counts := make([]int, 2)
	const n = 20000
	for i := 0; i < n; i++ {
		counts[s.Categorical(weights)]++
	}
	assert.InDelta(t, 0.75, float64(counts[1])/n, 0.02)
}

func TestCategoricalRejectsBadWeights(t *testing.T) {
	s := New(3)
	assert.Panics(t, func() { s.Categorical([]float64{0, 0}) })
	assert.Panics(t, func() { s.Categorical([]float64{1, -1}) })
	assert.Panics(t, func() { s.Categorical(nil) })
}

func TestFloat64Range(t *testing.T) {
	s := New(9)
	for i := 0; i < 1000; i++ {
		f := s.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}
