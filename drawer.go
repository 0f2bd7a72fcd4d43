package pinball

import (
	"cmp"
	"slices"

	"github.com/setanarut/vec"
)

// Draw flags
const (
	DrawThings            = 1 << 0
	DrawBoundingBoxes     = 1 << 1
	DrawCollisionContacts = 1 << 2
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

// Drawer renders a Space. bb is in screen space with y pointing down.
type Drawer interface {
	DrawRoundedRect(bb BB, radius [4]float64, rotation float64, outline, fill FColor, data any)
	DrawSegment(a, b vec.Vec2, fill FColor, data any)
	DrawDot(size float64, pos vec.Vec2, fill FColor, data any)

	Flags() uint
	OutlineColor() FColor
	ThingColor(thing *Thing, data any) FColor
	CollisionPointColor() FColor
	Data() any
}

// DrawThing draws thing with the drawer implementation
func DrawThing(thing *Thing, drawer Drawer) {
	data := drawer.Data()
	fill := drawer.ThingColor(thing, data)
	fill.A *= float32(thing.Alpha)
	drawer.DrawRoundedRect(thing.BB(), thing.radius, thing.Rotation, drawer.OutlineColor(), fill, data)
}

// DrawSpace draws the scene and then every visible thing, lowest ZIndex first.
func DrawSpace(space *Space, drawer Drawer) {
	flags := drawer.Flags()
	data := drawer.Data()

	if space.Scene != nil && flags&DrawThings != 0 {
		DrawThing(space.Scene.Thing, drawer)
	}

	things := slices.DeleteFunc(space.Things(), func(t *Thing) bool { return !t.visible })
	slices.SortStableFunc(things, func(a, b *Thing) int {
		if c := cmp.Compare(a.ZIndex, b.ZIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	if flags&DrawThings != 0 {
		for _, t := range things {
			DrawThing(t, drawer)
		}
	}

	if flags&DrawBoundingBoxes != 0 {
		outline := drawer.OutlineColor()
		for _, t := range things {
			drawer.DrawRoundedRect(t.NextBB(), [4]float64{}, 0, outline, FColor{outline.R, outline.G, outline.B, 0.25}, data)
		}
	}

	if flags&DrawCollisionContacts != 0 {
		color := drawer.CollisionPointColor()
		for _, c := range space.contacts {
			p := c.Thing.BB().Center()
			drawer.DrawDot(4, p, color, data)
			drawer.DrawSegment(p, p.Add(c.Normal.Scale(8)), color, data)
		}
	}
}
