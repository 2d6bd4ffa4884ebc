// Package defaultdict provides a sparse map that reads a configured default
// for absent keys.
package defaultdict

// Number is the set of value types a Map can hold.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Map is a sparse mapping from K to V that returns a configured default for
// keys that were never written. Reads never mutate the map; a key is
// materialized only by Set or Add.
//
// Entries are held as offsets from the default, so a sequence of integer
// valued Add calls that sums to zero restores the exact previous value.
type Map[K comparable, V Number] struct {
	def     V
	offsets map[K]V
}

// New returns an empty Map with default value def.
func New[K comparable, V Number](def V) *Map[K, V] {
	return &Map[K, V]{def: def, offsets: make(map[K]V)}
}

// Default returns the value read for absent keys.
func (m *Map[K, V]) Default() V {
	return m.def
}

// Get returns the value of k, or the default if k is absent.
func (m *Map[K, V]) Get(k K) V {
	return m.def + m.offsets[k]
}

// Offset returns Get(k) - Default() without the rounding a float
// subtraction would introduce.
func (m *Map[K, V]) Offset(k K) V {
	return m.offsets[k]
}

// Has reports whether k has been materialized.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.offsets[k]
	return ok
}

// Set materializes k with value v.
func (m *Map[K, V]) Set(k K, v V) {
	m.offsets[k] = v - m.def
}

// Add materializes k and adds delta to its value.
func (m *Map[K, V]) Add(k K, delta V) {
	m.offsets[k] += delta
}

// Delete drops k, so it reads as the default again.
func (m *Map[K, V]) Delete(k K) {
	delete(m.offsets, k)
}

// Len returns the number of materialized keys.
func (m *Map[K, V]) Len() int {
	return len(m.offsets)
}

// Range calls f for every materialized key until f returns false.
// Iteration order is unspecified.
func (m *Map[K, V]) Range(f func(k K, v V) bool) {
	for k, off := range m.offsets {
		if !f(k, m.def+off) {
			return
		}
	}
}

// Keys returns the materialized keys in unspecified order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.offsets))
	for k := range m.offsets {
		keys = append(keys, k)
	}
	return keys
}

// SumOffsets returns the sum of Get(k) - Default() over materialized keys.
func (m *Map[K, V]) SumOffsets() V {
	var sum V
	for _, off := range m.offsets {
		sum += off
	}
	return sum
}

// Clone returns an independent copy of m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{def: m.def, offsets: make(map[K]V, len(m.offsets))}
	for k, off := range m.offsets {
		c.offsets[k] = off
	}
	return c
}
