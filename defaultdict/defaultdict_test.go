package defaultdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsDefaultWithoutMaterializing(t *testing.T) {
	m := New[int, float64](0.5)

	assert.Equal(t, 0.5, m.Get(3))
	assert.False(t, m.Has(3))
	assert.Equal(t, 0, m.Len())
}

func TestAddMaterializes(t *testing.T) {
	m := New[int, float64](0.5)
	m.Add(3, 2)

	require.True(t, m.Has(3))
	assert.Equal(t, 2.5, m.Get(3))
	assert.Equal(t, 2.0, m.Offset(3))
	assert.Equal(t, 0.5, m.Get(4))
}

func TestIntegerAddsRoundTripExactly(t *testing.T) {
	// 0.1*3 is not representable, so a naive float add/sub would drift.
	m := New[int, float64](0.1 * 3)
	before := m.Get(0)
	m.Add(0, 7)
	m.Add(0, 2)
	m.Add(0, -9)
	assert.Equal(t, before, m.Get(0))
	assert.Equal(t, 0.0, m.SumOffsets())
}

func TestSetAndDelete(t *testing.T) {
	m := New[string, int](10)
	m.Set("a", 4)
	assert.Equal(t, 4, m.Get("a"))
	assert.Equal(t, -6, m.Offset("a"))

	m.Delete("a")
	assert.False(t, m.Has("a"))
	assert.Equal(t, 10, m.Get("a"))
}

func TestRangeKeysClone(t *testing.T) {
	m := New[int, int](1)
	m.Add(1, 1)
	m.Add(2, 3)

	seen := map[int]int{}
	m.Range(func(k, v int) bool {
		seen[k] = v
		return true
	})
	assert.Equal(t, map[int]int{1: 2, 2: 4}, seen)
	assert.ElementsMatch(t, []int{1, 2}, m.Keys())
	assert.Equal(t, 4, m.SumOffsets())

	c := m.Clone()
	c.Add(1, 5)
	assert.Equal(t, 2, m.Get(1))
	assert.Equal(t, 7, c.Get(1))
}

func TestRangeStopsEarly(t *testing.T) {
	m := New[int, int](0)
	for i := 0; i < 10; i++ {
		m.Add(i, 1)
	}
	n := 0
	m.Range(func(int, int) bool {
		n++
		return n < 3
	})
	assert.Equal(t, 3, n)
}
