package pinball

import (
	"fmt"
	"math"

	"github.com/setanarut/vec"
)

// ForceKind tags a Force.
type ForceKind uint8

const (
	Push ForceKind = iota
	Pull
	StaticFriction
)

func (k ForceKind) String() string {
	switch k {
	case Push:
		return "Push"
	case Pull:
		return "Pull"
	case StaticFriction:
		return "StaticFriction"
	}
	return fmt.Sprintf("ForceKind(%d)", uint8(k))
}

// ForceRule computes a force vector from the state of its source body.
type ForceRule func(source *Thing) vec.Vec2

// ForceCondition reports whether a force applies this frame.
type ForceCondition func(source *Thing) bool

// Force is an instantaneous or persistent force applied to Source.
//
// Forces are accumulated directly into acceleration during Thing.Composite.
// Instantaneous forces are removed when the frame commits.
type Force struct {
	Kind          ForceKind
	Source        *Thing
	Vector        vec.Vec2  // used when Rule is nil
	Rule          ForceRule // computes the vector from Source
	Instantaneous bool
	Condition     ForceCondition
}

// NewPushForce returns a persistent force of constant vector f.
func NewPushForce(source *Thing, f vec.Vec2) *Force {
	force := &Force{
		Kind:   Push,
		Source: source,
		Vector: f,
	}
	force.Condition = force.hasMagnitude
	return force
}

// NewPullForce returns an instantaneous force of vector f, applied for one frame.
func NewPullForce(source *Thing, f vec.Vec2) *Force {
	force := &Force{
		Kind:          Pull,
		Source:        source,
		Vector:        f,
		Instantaneous: true,
	}
	force.Condition = force.hasMagnitude
	return force
}

// NewStaticFriction returns a persistent friction force with coefficient mu.
// It opposes the velocity of source while source touches a surface and never
// reverses the direction of motion.
func NewStaticFriction(source *Thing, mu float64) *Force {
	return &Force{
		Kind:   StaticFriction,
		Source: source,
		Rule: func(t *Thing) vec.Vec2 {
			v := t.Velocity()
			return unit(v).Scale(-math.Min(mu, v.Mag()))
		},
		Condition: func(t *Thing) bool {
			return mu > 0 && t.InContact() && t.Velocity().Dot(t.Velocity()) > 0
		},
	}
}

func (f *Force) hasMagnitude(*Thing) bool {
	v := f.F()
	return v.Dot(v) > 0
}

// F returns the force vector for the current frame.
func (f *Force) F() vec.Vec2 {
	if f.Rule != nil {
		return f.Rule(f.Source)
	}
	return f.Vector
}

// Active reports whether the condition of the force holds. A nil Condition
// always holds.
func (f *Force) Active() bool {
	if f.Condition == nil {
		return true
	}
	return f.Condition(f.Source)
}

// Reaction returns the instantaneous pull that f exerts back on body.
func (f *Force) Reaction(body *Thing) *Force {
	return NewPullForce(body, f.F().Neg())
}

func (f *Force) String() string {
	v := f.F()
	return fmt.Sprintf("%v(%v, %v) instantaneous=%v", f.Kind, v.X, v.Y, f.Instantaneous)
}
