package hdplda

import (
	"fmt"

	"github.com/tomoris/HDPLDA/defaultdict"
)

// SuffStats is the per-dish conjugate accumulator. The state creates one
// group per dish, folds table term counts in and out of it, and destroys it
// with the dish. *dirichlet.GroupManager implements it.
type SuffStats interface {
	Create(k int)
	MergeIn(k, v, n int)
	MergeOut(k, v, n int)
	Destroy(k int)
}

// countingStats is implemented by accumulators that can report their
// counts, which lets ValidateNk cross-check them.
type countingStats interface {
	Count(k, v int) int
	Total(k int) int
}

// dishRegistry is the global topic bookkeeping shared by all restaurants.
type dishRegistry struct {
	dishes     idPool
	tableCount []int                            // m_k: number of tables serving each dish
	termTotal  *defaultdict.Map[int, float64]   // n_k: number of terms for each dish (+ beta * V)
	termCount  []*defaultdict.Map[int, float64] // n_kv: term to count for each dish (+ beta)
	stats      SuffStats
	m          int // number of active tables
	beta       float64
}

func newDishRegistry(v int, beta float64, stats SuffStats) *dishRegistry {
	reg := new(dishRegistry)
	reg.dishes = newIDPool()
	reg.tableCount = make([]int, 1, 8)
	reg.termTotal = defaultdict.New[int, float64](beta * float64(v))
	reg.termCount = make([]*defaultdict.Map[int, float64], 1, 8)
	reg.stats = stats
	reg.beta = beta
	return reg
}

func (reg *dishRegistry) create() int {
	k := reg.dishes.acquire()
	reg.open(k)
	return k
}

// createWithID opens dish k exactly. It reports false if k is active.
func (reg *dishRegistry) createWithID(k int) bool {
	if !reg.dishes.claim(k) {
		return false
	}
	reg.open(k)
	return true
}

func (reg *dishRegistry) open(k int) {
	for len(reg.tableCount) <= k {
		reg.tableCount = append(reg.tableCount, 0)
		reg.termCount = append(reg.termCount, nil)
	}
	reg.tableCount[k] = 0
	reg.termTotal.Delete(k)
	reg.termCount[k] = defaultdict.New[int, float64](reg.beta)
	reg.stats.Create(k)
}

func (reg *dishRegistry) destroy(k int) {
	if reg.tableCount[k] != 0 {
		errMsg := fmt.Sprintf("delete dish error. dish (%v) still serves %v tables", k, reg.tableCount[k])
		panic(errMsg)
	}
	reg.dishes.release(k)
	reg.termTotal.Delete(k)
	reg.termCount[k] = nil
	reg.stats.Destroy(k)
}

func (reg *dishRegistry) contains(k int) bool {
	return reg.dishes.contains(k)
}

// observed returns n_k[k] - beta * V.
func (reg *dishRegistry) observed(k int) float64 {
	return reg.termTotal.Offset(k)
}

func (reg *dishRegistry) addTable(k int) {
	reg.tableCount[k]++
	reg.m++
}

// removeTable reports whether dish k serves no table anymore.
func (reg *dishRegistry) removeTable(k int) bool {
	if reg.tableCount[k] <= 0 {
		errMsg := fmt.Sprintf("remove table error. dish (%v) serves no table", k)
		panic(errMsg)
	}
	reg.tableCount[k]--
	reg.m--
	return reg.tableCount[k] == 0
}

func (reg *dishRegistry) addTerm(k, v, n int) {
	reg.termCount[k].Add(v, float64(n))
	reg.termTotal.Add(k, float64(n))
	reg.stats.MergeIn(k, v, n)
}

func (reg *dishRegistry) removeTerm(k, v, n int) {
	if reg.termCount[k].Offset(v) < float64(n) {
		errMsg := fmt.Sprintf("remove error. term (%v) has count %v at dish (%v), removing %v", v, reg.termCount[k].Offset(v), k, n)
		panic(errMsg)
	}
	reg.termCount[k].Add(v, -float64(n))
	if reg.termCount[k].Offset(v) == 0 {
		reg.termCount[k].Delete(v)
	}
	reg.termTotal.Add(k, -float64(n))
	reg.stats.MergeOut(k, v, n)
}

// mergeIn folds all of a table's term counts into dish k.
func (reg *dishRegistry) mergeIn(k int, terms *defaultdict.Map[int, int]) {
	terms.Range(func(v, n int) bool {
		reg.addTerm(k, v, n)
		return true
	})
}

func (reg *dishRegistry) mergeOut(k int, terms *defaultdict.Map[int, int]) {
	terms.Range(func(v, n int) bool {
		reg.removeTerm(k, v, n)
		return true
	})
}
