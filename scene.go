package pinball

import "github.com/setanarut/vec"

// Scene is the static container every Thing of a Space collides against.
type Scene struct {
	*Thing
}

// NewScene returns a w x h scene with its top-left corner at the origin.
func NewScene(w, h float64) (*Scene, error) {
	t, err := NewThing(ThingConfig{
		Name:   "scene",
		Width:  w,
		Height: h,
		Static: true,
	})
	if err != nil {
		return nil, err
	}
	return &Scene{t}, nil
}

// CollideWithScene keeps the tentative box of t inside scene. For every axis
// on which the box crossed or touches an edge, the position is clamped to that
// edge and the velocity component is reflected. Both axes may correct in the
// same frame.
func (t *Thing) CollideWithScene(scene *Scene) bool {
	t.mustBeComposed("CollideWithScene")
	bounds := scene.BB()
	sides := InBB(bounds, t.NextBB())
	if sides[0] == Center && sides[1] == Center {
		return false
	}
	size := vec.Vec2{X: t.width, Y: t.height}
	low := bounds.TopLeft()
	high := vec.Vec2{X: bounds.R, Y: bounds.B}
	for i, side := range sides {
		a := Axis(i)
		var p float64
		switch side {
		case Center:
			continue
		case Left, Top:
			p = component(low, a)
		case Right, Bottom:
			p = component(high, a) - component(size, a)
		}
		t.corrections.Add(
			Correction{Op: SetPositionAxis, Axis: a, Scalar: p, Priority: PriorityScene},
			Correction{Op: SetVelocityAxis, Axis: a, Scalar: -component(t.next.Velocity, a), Priority: PriorityScene},
		)
	}
	return true
}
