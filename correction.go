package pinball

import (
	"fmt"
	"slices"

	"github.com/setanarut/vec"
)

// CorrectionOp names the state mutation a Correction performs.
type CorrectionOp uint8

const (
	SetPosition CorrectionOp = iota
	SetPositionAxis
	AddPosition
	SetVelocity
	SetVelocityAxis
	AddVelocity
	// SetVelocityAngle changes the direction of the velocity, keeping its speed.
	SetVelocityAngle
	SetAcceleration
)

func (op CorrectionOp) String() string {
	switch op {
	case SetPosition:
		return "SetPosition"
	case SetPositionAxis:
		return "SetPositionAxis"
	case AddPosition:
		return "AddPosition"
	case SetVelocity:
		return "SetVelocity"
	case SetVelocityAxis:
		return "SetVelocityAxis"
	case AddVelocity:
		return "AddVelocity"
	case SetVelocityAngle:
		return "SetVelocityAngle"
	case SetAcceleration:
		return "SetAcceleration"
	}
	return fmt.Sprintf("CorrectionOp(%d)", uint8(op))
}

// Correction priorities. Lower values are applied first.
const (
	PriorityEdge           = 0
	PriorityCornerPosition = 9
	PriorityCornerVelocity = 10
	PriorityScene          = 100
)

// Correction is one pending mutation of a Thing's tentative state produced by
// collision response. Vec is used by whole-vector ops, Scalar by the axis and
// angle ops.
type Correction struct {
	Op       CorrectionOp
	Axis     Axis
	Vec      vec.Vec2
	Scalar   float64
	Priority int
}

func (c Correction) String() string {
	switch c.Op {
	case SetPositionAxis, SetVelocityAxis:
		return fmt.Sprintf("%v(%v=%v) p%d", c.Op, c.Axis, c.Scalar, c.Priority)
	case SetVelocityAngle:
		return fmt.Sprintf("%v(%v) p%d", c.Op, c.Scalar, c.Priority)
	}
	return fmt.Sprintf("%v(%v, %v) p%d", c.Op, c.Vec.X, c.Vec.Y, c.Priority)
}

// Apply performs the mutation on s.
func (c Correction) Apply(s *State) {
	switch c.Op {
	case SetPosition:
		s.Position = c.Vec
	case SetPositionAxis:
		s.Position = withComponent(s.Position, c.Axis, c.Scalar)
	case AddPosition:
		s.Position = s.Position.Add(c.Vec)
	case SetVelocity:
		s.Velocity = c.Vec
	case SetVelocityAxis:
		s.Velocity = withComponent(s.Velocity, c.Axis, c.Scalar)
	case AddVelocity:
		s.Velocity = s.Velocity.Add(c.Vec)
	case SetVelocityAngle:
		s.Velocity = withAngle(s.Velocity, c.Scalar)
	case SetAcceleration:
		s.Acceleration = c.Vec
	default:
		panic(fmt.Sprintf("pinball: unknown correction %v", c.Op))
	}
}

// Corrections is the queue of pending corrections for one Thing and frame.
type Corrections struct {
	results []Correction
}

func (q *Corrections) Len() int {
	return len(q.results)
}

// Add enqueues corrections in the given order.
func (q *Corrections) Add(c ...Correction) {
	q.results = append(q.results, c...)
}

// Each sorts the queue by priority and calls f for every correction. Equal
// priorities keep insertion order.
func (q *Corrections) Each(f func(c Correction)) {
	slices.SortStableFunc(q.results, func(a, b Correction) int {
		return a.Priority - b.Priority
	})
	for _, c := range q.results {
		f(c)
	}
}

// Clear empties the queue, keeping its storage.
func (q *Corrections) Clear() {
	q.results = q.results[:0]
}

// Slice returns a copy of the queued corrections in queue order.
func (q *Corrections) Slice() []Correction {
	return slices.Clone(q.results)
}
