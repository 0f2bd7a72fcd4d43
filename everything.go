package pinball

import (
	"fmt"
	"math"

	"github.com/setanarut/vec"
)

// Axis selects one component of a vector.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// component returns the a component of v.
func component(v vec.Vec2, a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	}
	panic(fmt.Sprintf("pinball: unknown axis %v", a))
}

// withComponent returns v with the a component replaced by f.
func withComponent(v vec.Vec2, a Axis, f float64) vec.Vec2 {
	switch a {
	case AxisX:
		v.X = f
	case AxisY:
		v.Y = f
	default:
		panic(fmt.Sprintf("pinball: unknown axis %v", a))
	}
	return v
}

// clampMag clamps vector magnitude to m. m <= 0 means unlimited.
func clampMag(vect vec.Vec2, m float64) vec.Vec2 {
	if m <= 0 {
		return vect
	}
	if vect.Dot(vect) > m*m {
		return vect.Unit().Scale(m)
	}
	return vec.Vec2{X: vect.X, Y: vect.Y}
}

// unit is Vec2.Unit that maps the zero vector to itself.
func unit(vect vec.Vec2) vec.Vec2 {
	if vect.Dot(vect) == 0 {
		return vec.Vec2{}
	}
	return vect.Unit()
}

// reflect mirrors vect across the surface with normal n. The magnitude is kept.
func reflect(vect, n vec.Vec2) vec.Vec2 {
	n = unit(n)
	return vect.Sub(n.Scale(2 * vect.Dot(n)))
}

// angle returns the direction of vect in radians.
func angle(vect vec.Vec2) float64 {
	return math.Atan2(vect.Y, vect.X)
}

// withAngle rotates vect to point at radians, keeping its magnitude.
func withAngle(vect vec.Vec2, radians float64) vec.Vec2 {
	m := vect.Mag()
	return vec.Vec2{X: m * math.Cos(radians), Y: m * math.Sin(radians)}
}

func dist(a, b vec.Vec2) float64 {
	return a.Sub(b).Mag()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
