package pinball

// pairKey is an unordered pair of thing ids stored low id first.
type pairKey struct {
	a, b int
}

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// PairSet records which unordered pairs of Things were already processed in
// the current frame. One entry covers both argument orders.
type PairSet struct {
	visited map[pairKey]struct{}
}

func NewPairSet() *PairSet {
	return &PairSet{visited: make(map[pairKey]struct{})}
}

// Visit marks the pair and reports whether it was unmarked before.
func (s *PairSet) Visit(a, b *Thing) bool {
	key := newPairKey(a.id, b.id)
	if _, ok := s.visited[key]; ok {
		return false
	}
	s.visited[key] = struct{}{}
	return true
}

// Visited reports whether the pair was marked this frame.
func (s *PairSet) Visited(a, b *Thing) bool {
	_, ok := s.visited[newPairKey(a.id, b.id)]
	return ok
}

func (s *PairSet) Len() int {
	return len(s.visited)
}

// Reset forgets every pair.
func (s *PairSet) Reset() {
	clear(s.visited)
}
