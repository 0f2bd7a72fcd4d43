package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/setanarut/pinball"
	"github.com/setanarut/vec"
)

// Drawer implements pinball.Drawer on an ebiten screen.
type Drawer struct {
	screen  *ebiten.Image
	flags   uint
	outline pinball.FColor
	contact pinball.FColor
	scene   pinball.FColor
}

func NewDrawer(debug bool) *Drawer {
	d := &Drawer{
		flags:   pinball.DrawThings,
		outline: pinball.FColor{R: 1, G: 1, B: 1, A: 1},
		contact: pinball.FColor{R: 1, G: 0.2, B: 0.2, A: 1},
		scene:   pinball.FColor{R: 0.08, G: 0.09, B: 0.14, A: 1},
	}
	if debug {
		d.flags |= pinball.DrawBoundingBoxes | pinball.DrawCollisionContacts
	}
	return d
}

// DrawRoundedRect fills the box minus its corner squares, then fills one
// circle per rounded corner. rotation is ignored, things are axis-aligned.
func (d *Drawer) DrawRoundedRect(bb pinball.BB, radius [4]float64, rotation float64, outline, fill pinball.FColor, data any) {
	if fill.A == 0 {
		return
	}
	clr := toRGBA(fill)
	tl, tr, br, bl := radius[pinball.TopLeft], radius[pinball.TopRight], radius[pinball.BottomRight], radius[pinball.BottomLeft]
	top := math.Max(tl, tr)
	bottom := math.Max(bl, br)

	rect := func(l, t, r, b float64) {
		if r > l && b > t {
			vector.DrawFilledRect(d.screen, float32(l), float32(t), float32(r-l), float32(b-t), clr, true)
		}
	}
	rect(bb.L, bb.T+top, bb.R, bb.B-bottom)
	rect(bb.L+tl, bb.T, bb.R-tr, bb.T+top)
	rect(bb.L, bb.T+tl, bb.L+tl, bb.T+top)
	rect(bb.R-tr, bb.T+tr, bb.R, bb.T+top)
	rect(bb.L+bl, bb.B-bottom, bb.R-br, bb.B)
	rect(bb.L, bb.B-bottom, bb.L+bl, bb.B-bl)
	rect(bb.R-br, bb.B-bottom, bb.R, bb.B-br)

	circle := func(x, y, r float64) {
		if r > 0 {
			vector.DrawFilledCircle(d.screen, float32(x), float32(y), float32(r), clr, true)
		}
	}
	circle(bb.L+tl, bb.T+tl, tl)
	circle(bb.R-tr, bb.T+tr, tr)
	circle(bb.R-br, bb.B-br, br)
	circle(bb.L+bl, bb.B-bl, bl)
}

func (d *Drawer) DrawSegment(a, b vec.Vec2, fill pinball.FColor, data any) {
	vector.StrokeLine(d.screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, toRGBA(fill), true)
}

func (d *Drawer) DrawDot(size float64, pos vec.Vec2, fill pinball.FColor, data any) {
	vector.DrawFilledCircle(d.screen, float32(pos.X), float32(pos.Y), float32(size/2), toRGBA(fill), true)
}

func (d *Drawer) Flags() uint {
	return d.flags
}

func (d *Drawer) OutlineColor() pinball.FColor {
	return d.outline
}

// ThingColor paints the scene dark and every other thing with its own color.
func (d *Drawer) ThingColor(thing *pinball.Thing, data any) pinball.FColor {
	if thing.Name == "scene" {
		return d.scene
	}
	return thing.Color
}

func (d *Drawer) CollisionPointColor() pinball.FColor {
	return d.contact
}

func (d *Drawer) Data() any {
	return nil
}
