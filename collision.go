package pinball

import (
	"fmt"
	"math"

	"github.com/setanarut/vec"
)

// ContactKind tells flat-edge contacts from rounded-corner contacts.
type ContactKind uint8

const (
	ContactEdge ContactKind = iota
	ContactCorner
)

func (k ContactKind) String() string {
	switch k {
	case ContactEdge:
		return "Edge"
	case ContactCorner:
		return "Corner"
	}
	return fmt.Sprintf("ContactKind(%d)", uint8(k))
}

// Contact describes one detected collision, seen from the body the test ran on.
type Contact struct {
	Thing *Thing
	Other *Thing
	Kind  ContactKind

	// Edge contacts: penetration axis and the side of this body that was hit.
	Axis Axis
	Side Side

	// Corner contacts: the corner of this body whose circle overlapped.
	Corner Corner

	// Separation is the signed displacement along Axis for edge contacts and
	// the penetration depth for corner contacts.
	Separation float64

	// Correction moves this body out of the partner.
	Correction vec.Vec2

	// Normal points from the partner towards this body.
	Normal vec.Vec2
}

func (c Contact) String() string {
	if c.Kind == ContactCorner {
		return fmt.Sprintf("%v corner %v vs %v depth %.4g", c.Thing, c.Corner, c.Other, c.Separation)
	}
	return fmt.Sprintf("%v edge %v vs %v %v=%.4g", c.Thing, c.Side, c.Other, c.Axis, c.Separation)
}

// CheckBB classifies the tentative box of t against target.
func (t *Thing) CheckBB(target BB) [2]Relation {
	return CheckBB(t.NextBB(), target)
}

// OnBB reports on which side of the tentative box of t target touches it.
func (t *Thing) OnBB(target BB) [2]Side {
	return OnBB(t.NextBB(), target)
}

// InBB treats the tentative box of t as a container for target.
func (t *Thing) InBB(target BB) [2]Side {
	return InBB(t.NextBB(), target)
}

// OutBB reports on which side of the tentative box of t target lies.
func (t *Thing) OutBB(target BB) [2]Side {
	return OutBB(t.NextBB(), target)
}

// shareLedger makes t and other record their pairs in the same PairSet.
func (t *Thing) shareLedger(other *Thing) {
	switch {
	case t.pairs == nil && other.pairs == nil:
		s := NewPairSet()
		t.pairs, other.pairs = s, s
	case t.pairs == nil:
		t.pairs = other.pairs
	case other.pairs == nil:
		other.pairs = t.pairs
	}
}

// engage marks the pair as processed for this frame and reports whether the
// pair may be tested. Self pairs and repeated pairs are refused.
func (t *Thing) engage(other *Thing) bool {
	if other == nil || t == other || t.id == other.id {
		return false
	}
	t.shareLedger(other)
	if t.pairs.Visited(t, other) || other.pairs.Visited(other, t) {
		return false
	}
	t.pairs.Visit(t, other)
	other.pairs.Visit(other, t)
	return true
}

// overlaps reports whether two flat spans share an interior. A span of zero
// length overlaps when its point lies inside the partner.
func overlaps(a, b Segment) bool {
	switch {
	case a.Length <= 0 && b.Length <= 0:
		return a.Start == b.Start
	case a.Length <= 0:
		return b.Start <= a.Start && a.Start <= b.End
	case b.Length <= 0:
		return a.Start <= b.Start && b.Start <= a.End
	}
	return math.Max(a.Start, b.Start) < math.Min(a.End, b.End)
}

// cornerCentre returns the centre of the corner circle c of box bb.
func cornerCentre(bb BB, r [4]float64, c Corner) vec.Vec2 {
	switch c {
	case TopLeft:
		return vec.Vec2{X: bb.L + r[TopLeft], Y: bb.T + r[TopLeft]}
	case TopRight:
		return vec.Vec2{X: bb.R - r[TopRight], Y: bb.T + r[TopRight]}
	case BottomRight:
		return vec.Vec2{X: bb.R - r[BottomRight], Y: bb.B - r[BottomRight]}
	case BottomLeft:
		return vec.Vec2{X: bb.L + r[BottomLeft], Y: bb.B - r[BottomLeft]}
	}
	panic(fmt.Sprintf("pinball: unknown corner %v", c))
}

// facing corners tested in order: this corner against the opposite corner of the partner.
var cornerPairs = [4][2]Corner{
	{BottomRight, TopLeft},
	{BottomLeft, TopRight},
	{TopRight, BottomLeft},
	{TopLeft, BottomRight},
}

// contactWith runs the pair guard and the shared geometry on the tentative
// boxes of t and other.
func (t *Thing) contactWith(other *Thing) (Contact, bool) {
	if !t.engage(other) {
		return Contact{}, false
	}
	a, b := t.NextBB(), other.NextBB()
	on := OnBB(a, b)
	if on[0] == NotIntersect || on[1] == NotIntersect {
		return Contact{}, false
	}
	ra, rb := t.radius, other.radius

	topS := b.T - a.B
	bottomS := a.T - b.B
	leftS := b.L - a.R
	rightS := a.L - b.R

	// Facing sides come from the live boxes, displacements from the tentative
	// ones. A body crossing more than half of a thin partner in one tick is
	// still pushed back the way it came.
	la, lb := t.BB(), other.BB()

	// Vertical contact: this sits above (hit on its bottom) or below the partner.
	vertical := Contact{Thing: t, Other: other, Kind: ContactEdge, Axis: AxisY}
	var vThis, vOther Segment
	if math.Abs(lb.T-la.B) < math.Abs(la.T-lb.B) {
		vertical.Side = Bottom
		vertical.Separation = topS
		vertical.Normal = vec.Vec2{Y: -1}
		vThis = NewSegment(a.L+ra[BottomLeft], a.R-ra[BottomRight])
		vOther = NewSegment(b.L+rb[TopLeft], b.R-rb[TopRight])
	} else {
		vertical.Side = Top
		vertical.Separation = -bottomS
		vertical.Normal = vec.Vec2{Y: 1}
		vThis = NewSegment(a.L+ra[TopLeft], a.R-ra[TopRight])
		vOther = NewSegment(b.L+rb[BottomLeft], b.R-rb[BottomRight])
	}
	vertical.Correction = vec.Vec2{Y: vertical.Separation}

	horizontal := Contact{Thing: t, Other: other, Kind: ContactEdge, Axis: AxisX}
	var hThis, hOther Segment
	if math.Abs(lb.L-la.R) < math.Abs(la.L-lb.R) {
		horizontal.Side = Right
		horizontal.Separation = leftS
		horizontal.Normal = vec.Vec2{X: -1}
		hThis = NewSegment(a.T+ra[TopRight], a.B-ra[BottomRight])
		hOther = NewSegment(b.T+rb[TopLeft], b.B-rb[BottomLeft])
	} else {
		horizontal.Side = Left
		horizontal.Separation = -rightS
		horizontal.Normal = vec.Vec2{X: 1}
		hThis = NewSegment(a.T+ra[TopLeft], a.B-ra[BottomLeft])
		hOther = NewSegment(b.T+rb[TopRight], b.B-rb[BottomRight])
	}
	horizontal.Correction = vec.Vec2{X: horizontal.Separation}

	vOK := overlaps(vThis, vOther)
	hOK := overlaps(hThis, hOther)
	switch {
	case vOK && hOK:
		if math.Abs(horizontal.Separation) < math.Abs(vertical.Separation) {
			return horizontal, true
		}
		return vertical, true
	case vOK:
		return vertical, true
	case hOK:
		return horizontal, true
	}

	for _, pair := range cornerPairs {
		mine, theirs := pair[0], pair[1]
		radiusSUM := ra[mine] + rb[theirs]
		if radiusSUM <= 0 {
			continue
		}
		thisPoint := cornerCentre(a, ra, mine)
		point := cornerCentre(b, rb, theirs)
		d := dist(thisPoint, point)
		if d > radiusSUM {
			continue
		}
		normal := unit(thisPoint.Sub(point))
		if d == 0 {
			normal = unit(a.Center().Sub(b.Center()))
			if normal.Dot(normal) == 0 {
				normal = vec.Vec2{Y: -1}
			}
		}
		depth := radiusSUM - d
		return Contact{
			Thing:      t,
			Other:      other,
			Kind:       ContactCorner,
			Corner:     mine,
			Separation: depth,
			Correction: normal.Scale(depth),
			Normal:     normal,
		}, true
	}
	return Contact{}, false
}

// CollideWithFunc tests t against other and calls fn with the contact, if any.
// A pair is tested at most once per frame, whichever body the call is made on.
func (t *Thing) CollideWithFunc(other *Thing, fn func(c Contact)) bool {
	c, ok := t.contactWith(other)
	if ok && fn != nil {
		fn(c)
	}
	return ok
}

// CollideAndReflect tests t against other and queues the position and
// velocity corrections of the contact.
//
// When mutual is set and other is a composed dynamic body, the position
// correction is split in half between both bodies and both velocities are
// reflected: other is pushed by the opposite half and reflected about the
// opposite normal. With a static partner, or mutual unset, t takes the whole
// correction and other is left alone.
func (t *Thing) CollideAndReflect(other *Thing, mutual bool) (Contact, bool) {
	t.mustBeComposed("CollideAndReflect")
	c, ok := t.contactWith(other)
	if !ok {
		return c, false
	}
	share := mutual && !other.Static && other.phase == phaseComposed
	k := 1.0
	if share {
		k = 0.5
	}
	switch c.Kind {
	case ContactEdge:
		t.corrections.Add(edgeCorrections(t.next, c.Axis, k*c.Separation)...)
		if share {
			other.corrections.Add(edgeCorrections(other.next, c.Axis, -k*c.Separation)...)
		}
	case ContactCorner:
		t.corrections.Add(cornerCorrections(t.next, c.Correction.Scale(k), c.Normal)...)
		if share {
			other.corrections.Add(cornerCorrections(other.next, c.Correction.Scale(-k), c.Normal.Neg())...)
		}
	}
	return c, true
}

func edgeCorrections(next State, a Axis, d float64) []Correction {
	return []Correction{
		{Op: SetPositionAxis, Axis: a, Scalar: component(next.Position, a) + d, Priority: PriorityEdge},
		{Op: SetVelocityAxis, Axis: a, Scalar: -component(next.Velocity, a), Priority: PriorityEdge},
	}
}

func cornerCorrections(next State, move, normal vec.Vec2) []Correction {
	return []Correction{
		{Op: SetPosition, Vec: next.Position.Add(move), Priority: PriorityCornerPosition},
		{Op: SetVelocityAngle, Scalar: angle(reflect(next.Velocity, normal)), Priority: PriorityCornerVelocity},
	}
}
