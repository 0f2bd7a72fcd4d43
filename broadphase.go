package pinball

import (
	"cmp"
	"slices"
)

// SpatialIndexBB returns the box a Thing is indexed by.
type SpatialIndexBB func(obj *Thing) BB

// SpatialIndexQuery is called for every candidate pair.
type SpatialIndexQuery func(a, b *Thing, data any)

// SpatialIndexer is a broad phase over Things. BBTree and SweepAndPrune
// implement it.
type SpatialIndexer interface {
	// Count returns the number of indexed things.
	Count() int

	// Each calls f for every indexed thing in insertion order.
	Each(f func(obj *Thing))

	Contains(obj *Thing) bool
	Insert(obj *Thing)
	Remove(obj *Thing)

	// Reindex refreshes the indexed box of every thing.
	Reindex()

	// ReindexQuery reindexes and calls f once for every pair of things whose
	// boxes intersect, touching boxes included.
	ReindexQuery(f SpatialIndexQuery, data any)

	// Query calls f(obj, t, data) for every indexed thing t other than obj
	// whose box intersects bb.
	Query(obj *Thing, bb BB, f SpatialIndexQuery, data any)
}

// NextBBFunc indexes things by their tentative box.
func NextBBFunc(obj *Thing) BB {
	return obj.NextBB()
}

// SweepAndPrune is a one-axis broad phase over the X extents of the indexed
// things. Candidate pairs come out in a deterministic order: by left edge,
// ties broken by id.
type SweepAndPrune struct {
	bbfunc SpatialIndexBB
	things []*Thing
	boxes  map[*Thing]BB
	active []*Thing
}

func NewSweepAndPrune(bbfunc SpatialIndexBB) *SweepAndPrune {
	if bbfunc == nil {
		bbfunc = NextBBFunc
	}
	return &SweepAndPrune{
		bbfunc: bbfunc,
		boxes:  map[*Thing]BB{},
	}
}

func (index *SweepAndPrune) Count() int {
	return len(index.things)
}

func (index *SweepAndPrune) Contains(obj *Thing) bool {
	return slices.Contains(index.things, obj)
}

func (index *SweepAndPrune) Insert(obj *Thing) {
	if !index.Contains(obj) {
		index.things = append(index.things, obj)
	}
}

func (index *SweepAndPrune) Remove(obj *Thing) {
	index.things = slices.DeleteFunc(index.things, func(t *Thing) bool { return t == obj })
	delete(index.boxes, obj)
}

// Each calls f for every indexed thing in insertion order.
func (index *SweepAndPrune) Each(f func(obj *Thing)) {
	for _, t := range index.things {
		f(t)
	}
}

// Reindex recomputes every box and re-sorts the sweep order.
func (index *SweepAndPrune) Reindex() {
	clear(index.boxes)
	for _, t := range index.things {
		index.boxes[t] = index.bbfunc(t)
	}
	slices.SortStableFunc(index.things, func(a, b *Thing) int {
		if c := cmp.Compare(index.boxes[a].L, index.boxes[b].L); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
}

// ReindexQuery reindexes and calls f for every pair whose boxes intersect,
// touching boxes included.
func (index *SweepAndPrune) ReindexQuery(f SpatialIndexQuery, data any) {
	index.Reindex()
	index.active = index.active[:0]
	for _, t := range index.things {
		bb := index.boxes[t]
		index.active = slices.DeleteFunc(index.active, func(o *Thing) bool {
			return index.boxes[o].R < bb.L
		})
		for _, o := range index.active {
			if index.boxes[o].Intersects(bb) {
				f(o, t, data)
			}
		}
		index.active = append(index.active, t)
	}
}

// Query calls f(obj, t, data) for every indexed thing t whose last indexed
// box intersects bb.
func (index *SweepAndPrune) Query(obj *Thing, bb BB, f SpatialIndexQuery, data any) {
	for _, t := range index.things {
		box, ok := index.boxes[t]
		if !ok {
			box = index.bbfunc(t)
		}
		if t != obj && box.Intersects(bb) {
			f(obj, t, data)
		}
	}
}
