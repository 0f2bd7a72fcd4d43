package pinball

import "fmt"

// Segment is a 1D interval used by the separating axis tests.
type Segment struct {
	Start, Length, End float64
}

// NewSegment returns the segment [start, end].
func NewSegment(start, end float64) Segment {
	return Segment{Start: start, Length: end - start, End: end}
}

// Relation classifies segment a against segment b. See Relate.
type Relation uint8

const (
	DisjointBefore Relation = iota // a ends before b starts
	AdjacentBefore                 // a ends where b starts
	OverlapBefore                  // a starts before b and ends inside it
	AlignedStart                   // same start, different end
	Nested                         // one strictly inside the other
	Coincident                     // same start and end
	AlignedEnd                     // same end, different start
	OverlapAfter                   // a starts inside b and ends after it
	AdjacentAfter                  // a starts where b ends
	DisjointAfter                  // a starts after b ends
)

var relationNames = [...]string{
	"DisjointBefore", "AdjacentBefore", "OverlapBefore", "AlignedStart", "Nested",
	"Coincident", "AlignedEnd", "OverlapAfter", "AdjacentAfter", "DisjointAfter",
}

func (r Relation) String() string {
	if int(r) < len(relationNames) {
		return relationNames[r]
	}
	return fmt.Sprintf("Relation(%d)", uint8(r))
}

// Mirror returns the relation of b against a given the relation of a against b.
func (r Relation) Mirror() Relation {
	switch r {
	case DisjointBefore, AdjacentBefore, OverlapBefore, OverlapAfter, AdjacentAfter, DisjointAfter:
		return DisjointAfter - r
	}
	return r
}

// Intersecting reports whether the segments share at least one point.
func (r Relation) Intersecting() bool {
	return r != DisjointBefore && r != DisjointAfter
}

// Relate classifies a against b with a code in [0,9].
//
// Adjacency is tested before partial overlap so that touching segments always
// report AdjacentBefore or AdjacentAfter. A pair that matches no case (NaN
// extents) is a logic error and panics.
func Relate(a, b Segment) Relation {
	x1, y1 := a.Start, a.End
	x2, y2 := b.Start, b.End
	deltaX := x1 - x2
	deltaY := y1 - y2

	switch {
	case y1 < x2:
		return DisjointBefore
	case x1 > y2:
		return DisjointAfter
	case deltaX == 0 && deltaY == 0:
		return Coincident
	case y1 == x2 && x1 < x2:
		return AdjacentBefore
	case x1 == y2 && x2 < x1:
		return AdjacentAfter
	case x1 < x2 && y1 < y2:
		return OverlapBefore
	case x1 > x2 && y1 > y2:
		return OverlapAfter
	case (deltaX > 0 && deltaY < 0) || (deltaX < 0 && deltaY > 0):
		return Nested
	case deltaX == 0 && deltaY != 0:
		return AlignedStart
	case deltaX != 0 && deltaY == 0:
		return AlignedEnd
	}
	panic(fmt.Sprintf("pinball: unclassifiable segments %+v %+v", a, b))
}

// Side is a sentinel direction returned by the box queries.
type Side uint8

const (
	NotIntersect Side = iota
	Left
	Right
	Top
	Bottom
	Center
)

func (s Side) String() string {
	switch s {
	case NotIntersect:
		return "NotIntersect"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	case Center:
		return "Center"
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

// low and high are the sides of a box on axis a.
func low(a Axis) Side {
	if a == AxisX {
		return Left
	}
	return Top
}

func high(a Axis) Side {
	if a == AxisX {
		return Right
	}
	return Bottom
}

// CheckBB runs Relate on both axes, this box against target: X first, then Y.
func CheckBB(this, target BB) [2]Relation {
	return [2]Relation{
		Relate(this.span(AxisX), target.span(AxisX)),
		Relate(this.span(AxisY), target.span(AxisY)),
	}
}

// OnBB reports on which side of this box target touches it, per axis.
// Either axis being NotIntersect means the boxes do not touch.
func OnBB(this, target BB) [2]Side {
	rel := CheckBB(this, target)
	var res [2]Side
	for i, r := range rel {
		a := Axis(i)
		switch r {
		case DisjointBefore, DisjointAfter:
			res[i] = NotIntersect
		case AdjacentBefore, OverlapBefore:
			res[i] = high(a)
		case OverlapAfter, AdjacentAfter:
			res[i] = low(a)
		default:
			res[i] = Center
		}
	}
	return res
}

// InBB treats this as a container and reports which of its edges target has
// crossed or touches, per axis. Center means strictly inside.
func InBB(this, target BB) [2]Side {
	rel := CheckBB(this, target)
	var res [2]Side
	for i, r := range rel {
		a := Axis(i)
		switch r {
		case AlignedStart, OverlapAfter, AdjacentAfter, DisjointAfter:
			res[i] = low(a)
		case Nested:
			res[i] = Center
		default:
			res[i] = high(a)
		}
	}
	return res
}

// OutBB reports on which side of this box target lies when they are disjoint.
func OutBB(this, target BB) [2]Side {
	rel := CheckBB(this, target)
	var res [2]Side
	for i, r := range rel {
		a := Axis(i)
		switch r {
		case DisjointBefore:
			res[i] = high(a)
		case DisjointAfter:
			res[i] = low(a)
		default:
			res[i] = Center
		}
	}
	return res
}
