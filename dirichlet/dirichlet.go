// Package dirichlet implements the exchangeable Dirichlet-Discrete
// conjugate pair: per-group category counts plus the predictive and
// marginal scores they determine.
package dirichlet

import (
	"fmt"
	"math"
	"sort"
)

// MaxVocabularySize is the largest number of categories a Group supports.
const MaxVocabularySize = 0x10000

// Group holds the sufficient statistics of one Dirichlet-Discrete group.
type Group struct {
	counts map[int]int // category to count
	total  int
}

// NewGroup returns an empty Group.
func NewGroup() *Group {
	return &Group{counts: make(map[int]int)}
}

// AddValue records n observations of category v.
func (g *Group) AddValue(v, n int) {
	checkCategory(v)
	if n < 0 {
		panic(fmt.Sprintf("dirichlet: AddValue with negative n (%v)", n))
	}
	if n == 0 {
		return
	}
	g.counts[v] += n
	g.total += n
}

// RemoveValue forgets n observations of category v.
func (g *Group) RemoveValue(v, n int) {
	checkCategory(v)
	if n < 0 {
		panic(fmt.Sprintf("dirichlet: RemoveValue with negative n (%v)", n))
	}
	if n == 0 {
		return
	}
	c := g.counts[v]
	if c < n {
		panic(fmt.Sprintf("dirichlet: remove error. category (%v) has count %v, removing %v", v, c, n))
	}
	if c == n {
		delete(g.counts, v)
	} else {
		g.counts[v] = c - n
	}
	g.total -= n
}

// Count returns the number of observations of category v.
func (g *Group) Count(v int) int {
	return g.counts[v]
}

// Total returns the number of observations in the group.
func (g *Group) Total() int {
	return g.total
}

// Categories returns the categories with a non-zero count, ascending.
func (g *Group) Categories() []int {
	cats := make([]int, 0, len(g.counts))
	for v := range g.counts {
		cats = append(cats, v)
	}
	sort.Ints(cats)
	return cats
}

// ScoreValue returns the log posterior predictive probability of one more
// observation of category v under a symmetric Dirichlet(alpha) prior over
// dim categories.
func (g *Group) ScoreValue(alpha float64, dim int, v int) float64 {
	checkCategory(v)
	return math.Log(float64(g.counts[v])+alpha) - math.Log(float64(g.total)+alpha*float64(dim))
}

// ScoreData returns the log marginal likelihood of the group's observations
// under a symmetric Dirichlet(alpha) prior over dim categories.
func (g *Group) ScoreData(alpha float64, dim int) float64 {
	a := alpha * float64(dim)
	score := lgamma(a) - lgamma(a+float64(g.total))
	la := lgamma(alpha)
	for _, c := range g.counts {
		score += lgamma(alpha+float64(c)) - la
	}
	return score
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func checkCategory(v int) {
	if v < 0 || v >= MaxVocabularySize {
		panic(fmt.Sprintf("dirichlet: category (%v) out of range [0, %v)", v, MaxVocabularySize))
	}
}
