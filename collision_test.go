package pinball_test

import (
	"math"
	"testing"

	"github.com/setanarut/pinball"
	"github.com/setanarut/vec"
)

func TestCollideApartIsNoop(t *testing.T) {
	a := newThing(t, box(0, 0, 10, 10))
	b := newThing(t, box(20, 0, 10, 10))
	a.Composite()
	b.Composite()
	if _, ok := a.CollideAndReflect(b, false); ok {
		t.Error("boxes 10 apart should not collide")
	}
	if a.Corrections().Len() != 0 || b.Corrections().Len() != 0 {
		t.Error("no corrections expected")
	}
}

func TestCollideFlatEdge(t *testing.T) {
	ball := newThing(t, box(0, 0, 10, 10))
	ball.SetVelocity(vec.Vec2{X: 2, Y: 3})
	floorCfg := box(0, 12, 30, 10)
	floorCfg.Static = true
	floor := newThing(t, floorCfg)

	ball.Composite()
	floor.Composite()
	c, ok := ball.CollideAndReflect(floor, false)
	if !ok {
		t.Fatal("expected contact")
	}
	if c.Kind != pinball.ContactEdge || c.Axis != pinball.AxisY || c.Side != pinball.Bottom {
		t.Errorf("contact %v", c)
	}
	if c.Separation != -1 {
		t.Errorf("separation %v, want -1", c.Separation)
	}
	speed := ball.Next().Velocity.Mag()

	ball.Resolve().Commit()
	floor.Resolve().Commit()
	if ball.Position() != (vec.Vec2{X: 2, Y: 2}) {
		t.Errorf("position %v, want (2, 2)", ball.Position())
	}
	if ball.Velocity() != (vec.Vec2{X: 2, Y: -3}) {
		t.Errorf("velocity %v, want (2, -3)", ball.Velocity())
	}
	if ball.Velocity().Mag() != speed {
		t.Errorf("speed %v, want %v", ball.Velocity().Mag(), speed)
	}
	if !ball.InContact() {
		t.Error("ball should be in contact")
	}
	if floor.Position() != (vec.Vec2{X: 0, Y: 12}) {
		t.Error("the partner of a non-mutual collision must not move")
	}
}

func TestCollideMutualSplitsCorrection(t *testing.T) {
	a := newThing(t, box(0, 0, 10, 10))
	a.SetVelocity(vec.Vec2{Y: 3})
	b := newThing(t, box(0, 12, 10, 10))
	b.SetVelocity(vec.Vec2{Y: -3})

	tickMutual := func() {
		a.Composite()
		b.Composite()
		if _, ok := a.CollideAndReflect(b, true); !ok {
			t.Fatal("expected contact")
		}
		a.Resolve().Commit()
		b.Resolve().Commit()
	}
	tickMutual()

	if a.Position().Y != 1 || b.Position().Y != 11 {
		t.Errorf("positions %v %v, want y 1 and 11", a.Position(), b.Position())
	}
	if a.Velocity().Y != -3 || b.Velocity().Y != 3 {
		t.Errorf("velocities %v %v", a.Velocity(), b.Velocity())
	}
}

func TestCollidePairOncePerFrame(t *testing.T) {
	a := newThing(t, box(0, 0, 10, 10))
	b := newThing(t, box(5, 0, 10, 10))
	a.Composite()
	b.Composite()
	if _, ok := a.CollideAndReflect(b, false); !ok {
		t.Fatal("expected contact")
	}
	if _, ok := b.CollideAndReflect(a, false); ok {
		t.Error("swapped call in the same frame must be refused")
	}
	if _, ok := a.CollideAndReflect(b, false); ok {
		t.Error("repeated call in the same frame must be refused")
	}
	if a.Corrections().Len() != 2 || b.Corrections().Len() != 0 {
		t.Errorf("corrections %d %d", a.Corrections().Len(), b.Corrections().Len())
	}
	a.Resolve().Commit()
	b.Resolve().Commit()

	a.Composite()
	b.Composite()
	if !b.CollideWithFunc(a, nil) && !a.CollideWithFunc(b, nil) {
		t.Error("the pair guard must reset between frames")
	}
}

func TestCollideSelf(t *testing.T) {
	a := newThing(t, box(0, 0, 10, 10))
	a.Composite()
	if _, ok := a.CollideAndReflect(a, false); ok {
		t.Error("a thing must not collide with itself")
	}
}

func TestCollideWithFuncQueuesNothing(t *testing.T) {
	a := newThing(t, box(0, 0, 10, 10))
	b := newThing(t, box(0, 8, 10, 10))
	a.Composite()
	b.Composite()
	var got []pinball.Contact
	ok := a.CollideWithFunc(b, func(c pinball.Contact) {
		got = append(got, c)
	})
	if !ok || len(got) != 1 {
		t.Fatalf("callback calls %d", len(got))
	}
	if got[0].Side != pinball.Bottom || got[0].Separation != -2 || got[0].Other != b {
		t.Errorf("contact %v", got[0])
	}
	if a.Corrections().Len() != 0 {
		t.Error("CollideWithFunc must not queue corrections")
	}
}

func TestCollideRoundedCorner(t *testing.T) {
	round := [4]float64{5, 5, 5, 5}
	cfg := box(13, 13, 20, 20)
	cfg.Radius = round
	a := newThing(t, cfg)
	a.SetVelocity(vec.Vec2{X: -1, Y: -1})
	otherCfg := box(0, 0, 20, 20)
	otherCfg.Radius = round
	otherCfg.Static = true
	b := newThing(t, otherCfg)

	a.Composite()
	b.Composite()
	before := a.Next()
	c, ok := a.CollideAndReflect(b, false)
	if !ok {
		t.Fatal("expected corner contact")
	}
	if c.Kind != pinball.ContactCorner || c.Corner != pinball.TopLeft {
		t.Fatalf("contact %v", c)
	}
	wantDepth := 10 - math.Sqrt(8)
	if !near(c.Separation, wantDepth) {
		t.Errorf("depth %v, want %v", c.Separation, wantDepth)
	}

	a.Resolve().Commit()
	moved := a.Position().Sub(before.Position)
	if !near(moved.Mag(), wantDepth) {
		t.Errorf("translation %v, want length %v", moved, wantDepth)
	}
	if !near(a.Velocity().Mag(), before.Velocity.Mag()) {
		t.Errorf("speed %v, want %v", a.Velocity().Mag(), before.Velocity.Mag())
	}
	if !near(a.Velocity().X, 1) || !near(a.Velocity().Y, 1) {
		t.Errorf("velocity %v, want (1, 1)", a.Velocity())
	}
}

func TestCollideSquareCornersDoNotUseCircles(t *testing.T) {
	a := newThing(t, box(10, 10, 10, 10))
	b := newThing(t, box(0, 0, 10, 10))
	a.Composite()
	b.Composite()
	if _, ok := a.CollideAndReflect(b, false); ok {
		t.Error("square boxes touching only at a corner point should not collide")
	}
}

func TestCollideEdgeSides(t *testing.T) {
	cases := []struct {
		name     string
		pos, vel vec.Vec2
		side     pinball.Side
		axis     pinball.Axis
		wantPos  vec.Vec2
		wantVel  vec.Vec2
	}{
		{"from above", vec.Vec2{X: 20, Y: 8}, vec.Vec2{Y: 4}, pinball.Bottom, pinball.AxisY, vec.Vec2{X: 20, Y: 10}, vec.Vec2{Y: -4}},
		{"from below", vec.Vec2{X: 20, Y: 32}, vec.Vec2{Y: -4}, pinball.Top, pinball.AxisY, vec.Vec2{X: 20, Y: 30}, vec.Vec2{Y: 4}},
		{"from the left", vec.Vec2{X: 8, Y: 20}, vec.Vec2{X: 4}, pinball.Right, pinball.AxisX, vec.Vec2{X: 10, Y: 20}, vec.Vec2{X: -4}},
		{"from the right", vec.Vec2{X: 32, Y: 20}, vec.Vec2{X: -4}, pinball.Left, pinball.AxisX, vec.Vec2{X: 30, Y: 20}, vec.Vec2{X: 4}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mover := newThing(t, box(c.pos.X, c.pos.Y, 10, 10))
			mover.SetVelocity(c.vel)
			blockCfg := box(20, 20, 10, 10)
			blockCfg.Static = true
			block := newThing(t, blockCfg)

			mover.Composite()
			block.Composite()
			contact, ok := mover.CollideAndReflect(block, false)
			if !ok {
				t.Fatal("expected contact")
			}
			if contact.Kind != pinball.ContactEdge || contact.Side != c.side || contact.Axis != c.axis {
				t.Errorf("contact %v, want %v on %v", contact, c.side, c.axis)
			}
			mover.Resolve().Commit()
			block.Resolve().Commit()
			if mover.Position() != c.wantPos {
				t.Errorf("position %v, want %v", mover.Position(), c.wantPos)
			}
			if mover.Velocity() != c.wantVel {
				t.Errorf("velocity %v, want %v", mover.Velocity(), c.wantVel)
			}
		})
	}
}

func TestCollideThinWallKeepsApproachSide(t *testing.T) {
	s := pinball.NewSpace(nil)
	ball := s.AddThing(newThing(t, box(334, 40, 16, 16)))
	ball.SetVelocity(vec.Vec2{X: 12})
	wallCfg := box(350, 0, 6, 100)
	wallCfg.Static = true
	s.AddThing(newThing(t, wallCfg))

	for range 10 {
		s.Step()
		if ball.BB().R > 350 {
			t.Fatalf("frame %d: ball at %v crossed into the wall", s.Stamp(), ball.Position())
		}
		if ball.Velocity().X != -12 {
			t.Fatalf("frame %d: velocity %v, want -12", s.Stamp(), ball.Velocity())
		}
	}
	if len(s.Contacts()) != 0 {
		t.Errorf("ball should have left the wall, contacts %v", s.Contacts())
	}
}

func TestCollideCoincidentCornerCentres(t *testing.T) {
	round := [4]float64{5, 5, 5, 5}
	cfg := box(0, 0, 20, 20)
	cfg.Radius = round
	a := newThing(t, cfg)
	otherCfg := box(10, 10, 20, 20)
	otherCfg.Radius = round
	otherCfg.Static = true
	b := newThing(t, otherCfg)

	a.Composite()
	b.Composite()
	c, ok := a.CollideAndReflect(b, false)
	if !ok {
		t.Fatal("expected corner contact")
	}
	if c.Kind != pinball.ContactCorner || c.Corner != pinball.BottomRight {
		t.Fatalf("contact %v", c)
	}
	if c.Separation != 10 {
		t.Errorf("depth %v, want 10", c.Separation)
	}
	want := -math.Sqrt2 / 2
	if !near(c.Normal.X, want) || !near(c.Normal.Y, want) {
		t.Errorf("normal %v, want the box centre direction", c.Normal)
	}
	a.Resolve().Commit()
	if math.IsNaN(a.Position().X) || math.IsNaN(a.Position().Y) {
		t.Errorf("position %v", a.Position())
	}
}

func TestCollideMutualWithStaticPartner(t *testing.T) {
	ball := newThing(t, box(0, 0, 10, 10))
	ball.SetVelocity(vec.Vec2{Y: 3})
	floorCfg := box(0, 12, 10, 10)
	floorCfg.Static = true
	floor := newThing(t, floorCfg)

	ball.Composite()
	floor.Composite()
	if _, ok := ball.CollideAndReflect(floor, true); !ok {
		t.Fatal("expected contact")
	}
	if floor.Corrections().Len() != 0 {
		t.Errorf("static partner got %d corrections", floor.Corrections().Len())
	}
	ball.Resolve().Commit()
	floor.Resolve().Commit()
	if ball.Position().Y != 2 || ball.Velocity().Y != -3 {
		t.Errorf("ball %v %v, want the whole correction", ball.Position(), ball.Velocity())
	}
	if floor.Position() != (vec.Vec2{Y: 12}) {
		t.Errorf("floor moved to %v", floor.Position())
	}
}
