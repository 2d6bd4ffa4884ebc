package hdplda

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// idPool hands out the smallest unused id in [1, MaxID] and tracks which
// ids are active. Id 0 is never handed out.
type idPool struct {
	active *roaring.Bitmap
	free   *roaring.Bitmap // released or skipped ids below next
	next   uint32          // smallest id never handed out
}

func newIDPool() idPool {
	return idPool{active: roaring.New(), free: roaring.New(), next: 1}
}

func (p *idPool) acquire() int {
	var id uint32
	if !p.free.IsEmpty() {
		id = p.free.Minimum()
		p.free.Remove(id)
	} else {
		if p.next > MaxID {
			panic(fmt.Sprintf("idPool: all %v ids are active", MaxID))
		}
		id = p.next
		p.next++
	}
	if !p.active.CheckedAdd(id) {
		panic(fmt.Sprintf("idPool: id (%v) handed out twice", id))
	}
	return int(id)
}

// claim marks a specific id active. It reports false if id is out of
// [1, MaxID] or already active.
func (p *idPool) claim(id int) bool {
	if id < 1 || id > MaxID {
		return false
	}
	u := uint32(id)
	if p.active.Contains(u) {
		return false
	}
	if u >= p.next {
		p.free.AddRange(uint64(p.next), uint64(u))
		p.next = u + 1
	} else {
		p.free.Remove(u)
	}
	p.active.Add(u)
	return true
}

func (p *idPool) release(id int) {
	if !p.contains(id) {
		panic(fmt.Sprintf("idPool: release of inactive id (%v)", id))
	}
	p.active.Remove(uint32(id))
	p.free.Add(uint32(id))
}

func (p *idPool) contains(id int) bool {
	return id >= 1 && id < int(p.next) && p.active.Contains(uint32(id))
}

// ids returns the active ids, ascending.
func (p *idPool) ids() []int {
	ids := make([]int, 0, p.active.GetCardinality())
	it := p.active.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids
}

func (p *idPool) len() int {
	return int(p.active.GetCardinality())
}

// span returns the length a slice indexed by id needs.
func (p *idPool) span() int {
	return int(p.next)
}
