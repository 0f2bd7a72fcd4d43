package pinball_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/setanarut/pinball"
	"github.com/setanarut/vec"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newThing(t *testing.T, cfg pinball.ThingConfig) *pinball.Thing {
	t.Helper()
	thing, err := pinball.NewThing(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return thing
}

func box(x, y, w, h float64) pinball.ThingConfig {
	return pinball.ThingConfig{Position: vec.Vec2{X: x, Y: y}, Width: w, Height: h, Density: 1}
}

// tick runs one frame over things in the fixed order.
func tick(scene *pinball.Scene, things ...*pinball.Thing) {
	for _, t := range things {
		t.Composite()
	}
	for i, a := range things {
		for _, b := range things[i+1:] {
			if !a.Static {
				a.CollideAndReflect(b, false)
			}
		}
	}
	if scene != nil {
		for _, t := range things {
			if !t.Static {
				t.CollideWithScene(scene)
			}
		}
	}
	for _, t := range things {
		t.Resolve()
	}
	for _, t := range things {
		t.Commit()
	}
}

func TestNewThingValidation(t *testing.T) {
	cases := []struct {
		cfg  pinball.ThingConfig
		want error
	}{
		{box(0, 0, 0, 10), pinball.ErrInvalidSize},
		{box(0, 0, 10, -1), pinball.ErrInvalidSize},
		{pinball.ThingConfig{Width: 10, Height: 10, Radius: [4]float64{6, 0, 0, 0}}, pinball.ErrInvalidRadius},
		{pinball.ThingConfig{Width: 10, Height: 10, Radius: [4]float64{0, 0, -1, 0}}, pinball.ErrInvalidRadius},
		{pinball.ThingConfig{Width: 10, Height: 10, Density: -1}, pinball.ErrInvalidDensity},
	}
	for _, c := range cases {
		_, err := pinball.NewThing(c.cfg)
		if !errors.Is(err, c.want) {
			t.Errorf("NewThing(%+v) error %v, want %v", c.cfg, err, c.want)
		}
	}
}

func TestThingIDsAreUnique(t *testing.T) {
	a := newThing(t, box(0, 0, 1, 1))
	b := newThing(t, box(0, 0, 1, 1))
	if a.ID() == b.ID() {
		t.Error("ids should differ")
	}
}

func TestThingCachedValues(t *testing.T) {
	thing := newThing(t, pinball.ThingConfig{Width: 10, Height: 20, Density: 2})
	if thing.Mass() != 400 {
		t.Errorf("mass %v, want 400", thing.Mass())
	}
	if thing.HalfWidth() != 5 || thing.HalfHeight() != 10 {
		t.Errorf("half extents %v %v", thing.HalfWidth(), thing.HalfHeight())
	}
	if err := thing.SetWidth(5); err != nil {
		t.Fatal(err)
	}
	if thing.Mass() != 200 || thing.HalfWidth() != 2.5 {
		t.Errorf("after SetWidth mass %v half width %v", thing.Mass(), thing.HalfWidth())
	}
	if err := thing.SetDensity(1); err != nil {
		t.Fatal(err)
	}
	if thing.Mass() != 100 {
		t.Errorf("after SetDensity mass %v, want 100", thing.Mass())
	}
	if thing.Volume() != 100 || thing.CrossSection() != 20 {
		t.Errorf("volume %v cross section %v", thing.Volume(), thing.CrossSection())
	}
}

func TestThingResizeKeepsRadiusValid(t *testing.T) {
	thing := newThing(t, pinball.ThingConfig{Width: 10, Height: 10, Radius: [4]float64{5, 5, 5, 5}})
	err := thing.SetWidth(8)
	if !errors.Is(err, pinball.ErrInvalidRadius) {
		t.Errorf("SetWidth error %v, want ErrInvalidRadius", err)
	}
	if thing.Width() != 10 {
		t.Errorf("width changed to %v", thing.Width())
	}
	if err := thing.SetHeight(0); !errors.Is(err, pinball.ErrInvalidSize) {
		t.Errorf("SetHeight error %v, want ErrInvalidSize", err)
	}
}

func TestCompositeExplicitEuler(t *testing.T) {
	cfg := box(1, 2, 10, 10)
	cfg.Acceleration = vec.Vec2{X: 0.5, Y: -1}
	thing := newThing(t, cfg)
	thing.SetVelocity(vec.Vec2{X: 3, Y: 4})

	next := thing.Composite().Next()
	if next.Acceleration != (vec.Vec2{X: 0.5, Y: -1}) {
		t.Errorf("acceleration %v", next.Acceleration)
	}
	if next.Velocity != (vec.Vec2{X: 3.5, Y: 3}) {
		t.Errorf("velocity %v", next.Velocity)
	}
	if next.Position != (vec.Vec2{X: 4.5, Y: 5}) {
		t.Errorf("position %v", next.Position)
	}
	if thing.Position() != (vec.Vec2{X: 1, Y: 2}) {
		t.Error("Composite must not change live state")
	}

	thing.Resolve().Commit()
	if thing.Position() != next.Position || thing.Velocity() != next.Velocity {
		t.Errorf("commit without corrections: %v, want %v", thing.State(), next)
	}
	if thing.InContact() {
		t.Error("no corrections means no contact")
	}
}

func TestCompositeClampsSpeed(t *testing.T) {
	cfg := box(0, 0, 10, 10)
	cfg.MaxSpeed = 5
	thing := newThing(t, cfg)
	thing.SetVelocity(vec.Vec2{X: 30, Y: 40})
	v := thing.Composite().Next().Velocity
	if !near(v.X, 3) || !near(v.Y, 4) {
		t.Errorf("clamped velocity %v, want (3, 4)", v)
	}
}

func TestPhasePanics(t *testing.T) {
	thing := newThing(t, box(0, 0, 10, 10))
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Resolve before Composite should panic")
			}
		}()
		thing.Resolve()
	}()
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Commit before Resolve should panic")
			}
		}()
		thing.Composite().Commit()
	}()
}

func TestInstantaneousForces(t *testing.T) {
	thing := newThing(t, box(0, 0, 10, 10))
	base := len(thing.Forces())
	thing.Pull(vec.Vec2{X: 1})
	if len(thing.Forces()) != base+1 {
		t.Fatalf("forces %v", thing.Forces())
	}
	tick(nil, thing)
	if thing.Velocity() != (vec.Vec2{X: 1}) {
		t.Errorf("velocity %v, want (1, 0)", thing.Velocity())
	}
	if len(thing.Forces()) != base {
		t.Errorf("pull should be pruned, forces %v", thing.Forces())
	}
	tick(nil, thing)
	if thing.Velocity() != (vec.Vec2{X: 1}) {
		t.Errorf("velocity %v after pruning", thing.Velocity())
	}
}

func TestPushReaction(t *testing.T) {
	a := newThing(t, box(0, 0, 10, 10))
	b := newThing(t, box(100, 0, 10, 10))
	a.Push(b, vec.Vec2{X: 2})
	tick(nil, a, b)
	if a.Velocity() != (vec.Vec2{X: -2}) || b.Velocity() != (vec.Vec2{X: 2}) {
		t.Errorf("a %v b %v", a.Velocity(), b.Velocity())
	}
}

func TestStaticFrictionNeedsContact(t *testing.T) {
	scene, err := pinball.NewScene(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	cfg := box(20, 90, 10, 10)
	cfg.Friction = 0.5
	thing := newThing(t, cfg)
	thing.SetVelocity(vec.Vec2{X: 3})

	tick(scene, thing)
	if thing.Velocity().X != 3 {
		t.Errorf("first frame vx %v, friction must wait for contact", thing.Velocity().X)
	}
	if !thing.InContact() {
		t.Fatal("resting on the floor should be a contact")
	}
	tick(scene, thing)
	if !near(thing.Velocity().X, 2.5) {
		t.Errorf("vx %v, want 2.5", thing.Velocity().X)
	}
}

func TestStaticFrictionNeverReverses(t *testing.T) {
	thing := newThing(t, box(0, 0, 10, 10))
	thing.SetVelocity(vec.Vec2{X: 0.2})
	f := pinball.NewStaticFriction(thing, 0.5).F()
	if !near(f.X, -0.2) || f.Y != 0 {
		t.Errorf("friction %v, want (-0.2, 0)", f)
	}
}
