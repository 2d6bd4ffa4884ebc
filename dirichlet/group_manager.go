package dirichlet

import (
	"fmt"
	"sort"
)

// GroupManager owns one Group per id and the shared prior.
type GroupManager struct {
	dim    int
	alpha  float64
	groups map[int]*Group
}

// NewGroupManager returns a manager for groups over dim categories with a
// symmetric Dirichlet(alpha) prior.
func NewGroupManager(dim int, alpha float64) *GroupManager {
	if dim <= 0 || dim > MaxVocabularySize {
		panic(fmt.Sprintf("dirichlet: dim (%v) out of range [1, %v]", dim, MaxVocabularySize))
	}
	if alpha <= 0.0 {
		panic(fmt.Sprintf("dirichlet: alpha (%v) must be positive", alpha))
	}
	return &GroupManager{dim: dim, alpha: alpha, groups: make(map[int]*Group)}
}

// Dim returns the number of categories.
func (gm *GroupManager) Dim() int { return gm.dim }

// Alpha returns the prior concentration.
func (gm *GroupManager) Alpha() float64 { return gm.alpha }

// Create allocates an empty group for id.
func (gm *GroupManager) Create(id int) {
	if _, ok := gm.groups[id]; ok {
		panic(fmt.Sprintf("dirichlet: group (%v) already exists", id))
	}
	gm.groups[id] = NewGroup()
}

// Destroy discards the group for id.
func (gm *GroupManager) Destroy(id int) {
	if _, ok := gm.groups[id]; !ok {
		panic(fmt.Sprintf("dirichlet: group (%v) does not exist", id))
	}
	delete(gm.groups, id)
}

// MergeIn adds n observations of category v to group id.
func (gm *GroupManager) MergeIn(id, v, n int) {
	gm.mustGroup(id).AddValue(v, n)
}

// MergeOut removes n observations of category v from group id.
func (gm *GroupManager) MergeOut(id, v, n int) {
	gm.mustGroup(id).RemoveValue(v, n)
}

// Count returns the count of category v in group id.
func (gm *GroupManager) Count(id, v int) int {
	return gm.mustGroup(id).Count(v)
}

// Total returns the number of observations in group id.
func (gm *GroupManager) Total(id int) int {
	return gm.mustGroup(id).Total()
}

// Group returns the group for id, or nil.
func (gm *GroupManager) Group(id int) *Group {
	return gm.groups[id]
}

// Len returns the number of live groups.
func (gm *GroupManager) Len() int {
	return len(gm.groups)
}

// IDs returns the live group ids, ascending.
func (gm *GroupManager) IDs() []int {
	ids := make([]int, 0, len(gm.groups))
	for id := range gm.groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ScoreValue returns the log predictive probability of category v in group id.
func (gm *GroupManager) ScoreValue(id, v int) float64 {
	return gm.mustGroup(id).ScoreValue(gm.alpha, gm.dim, v)
}

// ScoreData returns the summed log marginal likelihood of all groups.
func (gm *GroupManager) ScoreData() float64 {
	score := 0.0
	for _, id := range gm.IDs() {
		score += gm.groups[id].ScoreData(gm.alpha, gm.dim)
	}
	return score
}

func (gm *GroupManager) mustGroup(id int) *Group {
	g, ok := gm.groups[id]
	if !ok {
		panic(fmt.Sprintf("dirichlet: group (%v) does not exist", id))
	}
	return g
}
