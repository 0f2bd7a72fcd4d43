package pinball

import (
	"fmt"
	"math"

	"github.com/setanarut/vec"
)

// BB is an axis-aligned bounding box in screen space (left, top, right, bottom).
// Y grows downward, so T <= B.
type BB struct {
	L, T, R, B float64
}

// NewBB is convenience constructor for BB structs.
func NewBB(l, t, r, b float64) BB {
	return BB{
		L: l,
		T: t,
		R: r,
		B: b,
	}
}

// NewBBForRect constructs a BB from its top-left corner and size.
func NewBBForRect(topLeft vec.Vec2, w, h float64) BB {
	return BB{
		L: topLeft.X,
		T: topLeft.Y,
		R: topLeft.X + w,
		B: topLeft.Y + h,
	}
}

func (bb BB) String() string {
	return fmt.Sprintf("%v %v %v %v", bb.L, bb.T, bb.R, bb.B)
}

func (bb BB) Width() float64 {
	return bb.R - bb.L
}

func (bb BB) Height() float64 {
	return bb.B - bb.T
}

// TopLeft returns the (L, T) corner.
func (bb BB) TopLeft() vec.Vec2 {
	return vec.Vec2{X: bb.L, Y: bb.T}
}

// Intersects returns true if a and b intersect. Touching edges count.
func (bb BB) Intersects(b BB) bool {
	return bb.L <= b.R && b.L <= bb.R && bb.T <= b.B && b.T <= bb.B
}

// Contains returns true if other lies completely within bb.
func (bb BB) Contains(other BB) bool {
	return bb.L <= other.L && bb.R >= other.R && bb.T <= other.T && bb.B >= other.B
}

// ContainsVect returns true if bb contains v.
func (bb BB) ContainsVect(v vec.Vec2) bool {
	return bb.L <= v.X && bb.R >= v.X && bb.T <= v.Y && bb.B >= v.Y
}

// Merge returns a bounding box that holds both bounding boxes.
func (a BB) Merge(b BB) BB {
	return BB{
		math.Min(a.L, b.L),
		math.Min(a.T, b.T),
		math.Max(a.R, b.R),
		math.Max(a.B, b.B),
	}
}

// Center returns the center of a bounding box.
func (bb BB) Center() vec.Vec2 {
	return vec.Vec2{X: bb.L, Y: bb.T}.Lerp(vec.Vec2{X: bb.R, Y: bb.B}, 0.5)
}

// Area returns the area of the bounding box.
func (bb BB) Area() float64 {
	return (bb.R - bb.L) * (bb.B - bb.T)
}

// MergedArea merges a and b and returns the area of the merged bounding box.
func (a BB) MergedArea(b BB) float64 {
	return (math.Max(a.R, b.R) - math.Min(a.L, b.L)) * (math.Max(a.B, b.B) - math.Min(a.T, b.T))
}

// Proximity returns the Manhattan distance between the centres of a and b,
// doubled.
func (a BB) Proximity(b BB) float64 {
	return math.Abs(a.L+a.R-b.L-b.R) + math.Abs(a.T+a.B-b.T-b.B)
}

// Offset returns a bounding box offseted by v.
func (bb BB) Offset(v vec.Vec2) BB {
	return BB{
		bb.L + v.X,
		bb.T + v.Y,
		bb.R + v.X,
		bb.B + v.Y,
	}
}

// span returns the [low, high] interval of bb on axis a.
func (bb BB) span(a Axis) Segment {
	if a == AxisX {
		return NewSegment(bb.L, bb.R)
	}
	return NewSegment(bb.T, bb.B)
}
