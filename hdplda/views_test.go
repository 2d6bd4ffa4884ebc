package hdplda

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordDistributionSumsToOne(t *testing.T) {
	docs := randomDocs(3, 10, 20, 30)
	s := newTestState(t, docs, 20, 4)
	phi := s.WordDistribution()
	require.Len(t, phi, s.NTopics())

	for x, k := range s.Dishes() {
		total := 0.0
		for v := 0; v < s.NWords(); v++ {
			total += phi[x].Get(v)
			assert.InDelta(t, s.Nkv(k, v)/s.Nk(k), phi[x].Get(v), 1e-15)
		}
		assert.InDelta(t, 1.0, total, 1e-9, "dish %v", k)
		assert.Equal(t, s.Beta()/s.Nk(k), phi[x].Default())
	}
}

func TestDocumentDistribution(t *testing.T) {
	docs := randomDocs(6, 10, 20, 30)
	s := newTestState(t, docs, 20, 4)
	theta := s.DocumentDistribution()
	require.Len(t, theta, s.NEntities())

	m := float64(s.M())
	for j, row := range theta {
		require.Len(t, row, s.NTopics()+1)
		assert.InDelta(t, 1.0, sum(row), 1e-9, "entity %v", j)
		reserved := s.Alpha() * s.Gamma() / (m + s.Gamma()) / (s.Alpha() + float64(s.NTerms(j)))
		assert.InDelta(t, reserved, row[0], 1e-12, "entity %v", j)
		for _, p := range row {
			assert.Greater(t, p, 0.0)
		}
	}
}

func TestPerplexityOfSingleTerm(t *testing.T) {
	s := newTestState(t, [][]int{{0}}, 2, 1)
	require.Equal(t, 1, s.NTopics())
	require.Equal(t, 1, s.M())

	a, b, g := s.Alpha(), s.Beta(), s.Gamma()
	seen := (b + 1) / (2*b + 1)
	p := (a*g/(1+g)*0.5 + (a/(1+g)+1)*seen) / (a + 1)
	assert.InDelta(t, 1/p, s.Perplexity(), 1e-12)
}

func TestPerplexityDoesNotDependOnParallelism(t *testing.T) {
	docs := randomDocs(9, 40, 50, 40)
	serial := newTestState(t, docs, 50, 12, WithParallelism(1))
	parallel := newTestState(t, docs, 50, 12, WithParallelism(8))

	before := serial.TableAssignments()
	pp := serial.Perplexity()
	assert.Equal(t, pp, parallel.Perplexity())
	assert.False(t, math.IsNaN(pp))
	assert.Greater(t, pp, 1.0)
	assert.Equal(t, before, serial.TableAssignments())
	checkInvariants(t, serial)
}

func TestAccessorsOfInactiveIDs(t *testing.T) {
	s := newTestState(t, scenarioDocs(), 3, 1)
	assert.Equal(t, 0, s.TableCount(1000))
	assert.Equal(t, s.Beta()*3, s.Nk(1000))
	assert.Equal(t, s.Beta(), s.Nkv(1000, 0))
	assert.Equal(t, 3, s.Definition().V())
	assert.Equal(t, 2, s.Definition().N())
	assert.Equal(t, len(s.Tables(0)), s.NTables(0))
}
