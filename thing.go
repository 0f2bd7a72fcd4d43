package pinball

import (
	"fmt"
	"math"
	"slices"

	"github.com/pkg/errors"
	"github.com/setanarut/vec"
)

var (
	ErrInvalidSize    = errors.New("pinball: width and height must be positive")
	ErrInvalidRadius  = errors.New("pinball: corner radius out of range")
	ErrInvalidDensity = errors.New("pinball: density must be non-negative")
)

var thingCur int = 0

// Corner indexes the per-corner radius array.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "TopLeft"
	case TopRight:
		return "TopRight"
	case BottomRight:
		return "BottomRight"
	case BottomLeft:
		return "BottomLeft"
	}
	return fmt.Sprintf("Corner(%d)", uint8(c))
}

// State is the kinematic state of a Thing for one frame.
type State struct {
	Position     vec.Vec2
	Velocity     vec.Vec2
	Acceleration vec.Vec2
}

type framePhase uint8

const (
	phaseIdle framePhase = iota
	phaseComposed
	phaseResolved
)

// ThingConfig holds the construction parameters of a Thing.
type ThingConfig struct {
	Name     string
	Position vec.Vec2 // top-left corner
	Width    float64
	Height   float64
	// Radius per corner, ordered TopLeft, TopRight, BottomRight, BottomLeft.
	Radius  [4]float64
	Density float64
	// Acceleration is applied every frame as a persistent push force.
	Acceleration vec.Vec2
	Friction     float64
	// MaxSpeed clamps the tentative velocity. 0 means unlimited.
	MaxSpeed float64
	ZIndex   int
	Color    FColor
	Alpha    float64 // 0 means opaque
	Static   bool
}

// Thing is a rectangular rigid body with optionally rounded corners.
//
// A frame runs Composite, then any number of CollideAndReflect and
// CollideWithScene calls, then Resolve and Commit. Live state only changes in
// Commit, so every collision test in a frame reads the same tentative state.
type Thing struct {
	// UserData is an object that this thing is associated with.
	UserData any
	Name     string
	ZIndex   int
	Color    FColor
	Alpha    float64
	Rotation float64 // render only
	// Static things never receive corrections from a Space.
	Static   bool
	MaxSpeed float64

	id         int
	width      float64
	height     float64
	halfWidth  float64
	halfHeight float64
	halfDirty  bool
	radius     [4]float64
	density    float64
	mass       float64
	massDirty  bool
	mu         float64
	visible    bool

	state   State
	next    State // tentative state computed by Composite
	newNext State // next merged with corrections, staged by Resolve
	staged  bool
	phase   framePhase
	contact bool
	applied int

	forces      []*Force
	corrections Corrections
	pairs       *PairSet
	space       *Space
}

// NewThing validates cfg and returns a new Thing at cfg.Position.
func NewThing(cfg ThingConfig) (*Thing, error) {
	if err := validateSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if err := validateRadius(cfg.Radius, cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if err := validateDensity(cfg.Density); err != nil {
		return nil, err
	}
	alpha := cfg.Alpha
	if alpha == 0 {
		alpha = 1
	}
	t := &Thing{
		Name:      cfg.Name,
		ZIndex:    cfg.ZIndex,
		Color:     cfg.Color,
		Alpha:     alpha,
		Static:    cfg.Static,
		MaxSpeed:  cfg.MaxSpeed,
		id:        thingCur,
		width:     cfg.Width,
		height:    cfg.Height,
		halfDirty: true,
		radius:    cfg.Radius,
		density:   cfg.Density,
		massDirty: true,
		mu:        cfg.Friction,
		visible:   true,
		state:     State{Position: cfg.Position},
	}
	thingCur++
	t.next = t.state

	if cfg.Acceleration.Dot(cfg.Acceleration) > 0 {
		t.AddForce(NewPushForce(t, cfg.Acceleration))
	}
	t.AddForce(NewStaticFriction(t, t.mu))
	return t, nil
}

func validateSize(w, h float64) error {
	if !(w > 0) || !(h > 0) || !isFinite(w) || !isFinite(h) {
		return errors.Wrapf(ErrInvalidSize, "width %v height %v", w, h)
	}
	return nil
}

func validateRadius(r [4]float64, w, h float64) error {
	limit := math.Min(w, h) / 2
	for i, ri := range r {
		if !(ri >= 0) || ri > limit {
			return errors.Wrapf(ErrInvalidRadius, "%v radius %v (limit %v)", Corner(i), ri, limit)
		}
	}
	return nil
}

func validateDensity(d float64) error {
	if !(d >= 0) || !isFinite(d) {
		return errors.Wrapf(ErrInvalidDensity, "density %v", d)
	}
	return nil
}

// String returns thing id and name as string
func (t *Thing) String() string {
	return fmt.Sprint("Thing ", t.id, " ", t.Name)
}

func (t *Thing) ID() int {
	return t.id
}

// Space returns the space the thing was added to, or nil.
func (t *Thing) Space() *Space {
	return t.space
}

func (t *Thing) assertUnlocked() {
	if t.space != nil && t.space.locked {
		panic("pinball: Space is locked")
	}
}

func (t *Thing) Width() float64 {
	return t.width
}

func (t *Thing) Height() float64 {
	return t.height
}

// SetWidth changes the width. The current radii must still fit.
func (t *Thing) SetWidth(w float64) error {
	return t.SetSize(w, t.height)
}

// SetHeight changes the height. The current radii must still fit.
func (t *Thing) SetHeight(h float64) error {
	return t.SetSize(t.width, h)
}

// SetSize changes width and height together.
func (t *Thing) SetSize(w, h float64) error {
	t.assertUnlocked()
	if err := validateSize(w, h); err != nil {
		return err
	}
	if err := validateRadius(t.radius, w, h); err != nil {
		return err
	}
	if w == t.width && h == t.height {
		return nil
	}
	t.width = w
	t.height = h
	t.halfDirty = true
	t.massDirty = true
	return nil
}

func (t *Thing) HalfWidth() float64 {
	t.updateHalfExtents()
	return t.halfWidth
}

func (t *Thing) HalfHeight() float64 {
	t.updateHalfExtents()
	return t.halfHeight
}

func (t *Thing) updateHalfExtents() {
	if t.halfDirty {
		t.halfWidth = t.width / 2
		t.halfHeight = t.height / 2
		t.halfDirty = false
	}
}

// Radius returns the corner radii ordered TopLeft, TopRight, BottomRight, BottomLeft.
func (t *Thing) Radius() [4]float64 {
	return t.radius
}

// SetRadius changes the corner radii.
func (t *Thing) SetRadius(r [4]float64) error {
	t.assertUnlocked()
	if err := validateRadius(r, t.width, t.height); err != nil {
		return err
	}
	t.radius = r
	return nil
}

// Density returns density of the thing
func (t *Thing) Density() float64 {
	return t.density
}

// SetDensity sets density of the thing
func (t *Thing) SetDensity(d float64) error {
	if err := validateDensity(d); err != nil {
		return err
	}
	if d != t.density {
		t.density = d
		t.massDirty = true
	}
	return nil
}

// Mass returns width * height * density. The value is cached until size or
// density change.
func (t *Thing) Mass() float64 {
	if t.massDirty {
		t.mass = t.width * t.height * t.density
		t.massDirty = false
	}
	return t.mass
}

// Volume returns mass / density, or the area when density is zero.
func (t *Thing) Volume() float64 {
	if t.density == 0 {
		return t.width * t.height
	}
	return t.Mass() / t.density
}

// CrossSection approximates the cross-section area as a fifth of the volume.
func (t *Thing) CrossSection() float64 {
	return t.Volume() / 5
}

// Friction returns the friction coefficient.
func (t *Thing) Friction() float64 {
	return t.mu
}

// Position returns the live top-left position.
func (t *Thing) Position() vec.Vec2 {
	return t.state.Position
}

// SetPosition teleports the thing. Must not be called during a frame.
func (t *Thing) SetPosition(p vec.Vec2) {
	t.assertUnlocked()
	t.state.Position = p
	if t.phase == phaseIdle {
		t.next.Position = p
	}
}

func (t *Thing) Velocity() vec.Vec2 {
	return t.state.Velocity
}

// SetVelocity sets the live velocity. Must not be called during a frame.
func (t *Thing) SetVelocity(v vec.Vec2) {
	t.assertUnlocked()
	t.state.Velocity = v
	if t.phase == phaseIdle {
		t.next.Velocity = v
	}
}

func (t *Thing) Acceleration() vec.Vec2 {
	return t.state.Acceleration
}

// State returns the live state.
func (t *Thing) State() State {
	return t.state
}

// Next returns the tentative state of the current frame. Outside a frame it
// equals the live state.
func (t *Thing) Next() State {
	if t.phase == phaseIdle {
		return t.state
	}
	return t.next
}

// BB returns the live bounding box.
func (t *Thing) BB() BB {
	return NewBBForRect(t.state.Position, t.width, t.height)
}

// NextBB returns the tentative bounding box, or the live one outside a frame.
func (t *Thing) NextBB() BB {
	return NewBBForRect(t.Next().Position, t.width, t.height)
}

func (t *Thing) Visible() bool {
	return t.visible
}

// SetVisible hides or shows the thing. Hidden things are skipped by the Space.
func (t *Thing) SetVisible(visible bool) {
	t.assertUnlocked()
	t.visible = visible
}

// InContact reports whether the last committed frame applied any collision
// correction to the thing.
func (t *Thing) InContact() bool {
	return t.contact
}

// Corrections returns the pending correction queue of the current frame.
func (t *Thing) Corrections() *Corrections {
	return &t.corrections
}

// Forces returns a copy of the active force list.
func (t *Thing) Forces() []*Force {
	return slices.Clone(t.forces)
}

// AddForce appends a force.
func (t *Thing) AddForce(f *Force) *Thing {
	t.forces = append(t.forces, f)
	return t
}

// RemoveForce removes f from the force list.
func (t *Thing) RemoveForce(f *Force) *Thing {
	t.forces = slices.DeleteFunc(t.forces, func(g *Force) bool { return g == f })
	return t
}

// Pull applies an instantaneous pull of v to the thing.
func (t *Thing) Pull(v vec.Vec2) *Thing {
	return t.AddForce(NewPullForce(t, v))
}

// Push applies an instantaneous push of v to target and its reaction to t.
func (t *Thing) Push(target *Thing, v vec.Vec2) *Thing {
	push := &Force{
		Kind:          Push,
		Source:        target,
		Vector:        v,
		Instantaneous: true,
	}
	push.Condition = push.hasMagnitude
	target.AddForce(push)
	return t.AddForce(push.Reaction(t))
}

// ClearForces removes instantaneous forces.
func (t *Thing) ClearForces() {
	t.forces = slices.DeleteFunc(t.forces, func(f *Force) bool { return f.Instantaneous })
}

// Composite accumulates the active forces into a new acceleration and
// integrates the tentative state with explicit Euler over one tick.
//
// Static things ignore their forces and stay where they are.
func (t *Thing) Composite() *Thing {
	if t.Static {
		t.next = State{Position: t.state.Position}
		t.phase = phaseComposed
		return t
	}
	acceleration := vec.Vec2{}
	for _, force := range t.forces {
		if !force.Active() {
			continue
		}
		if f := force.F(); f.Dot(f) > 0 {
			acceleration = acceleration.Add(f)
		}
	}
	velocity := clampMag(t.state.Velocity.Add(acceleration), t.MaxSpeed)
	t.next = State{
		Position:     t.state.Position.Add(velocity),
		Velocity:     velocity,
		Acceleration: acceleration,
	}
	t.phase = phaseComposed
	return t
}

func (t *Thing) mustBeComposed(op string) {
	if t.phase != phaseComposed {
		panic(fmt.Sprintf("pinball: %s on %v before Composite", op, t))
	}
}

// Resolve merges the tentative state with the queued corrections, in
// priority order, into the staged state and clears the pair ledger.
func (t *Thing) Resolve() *Thing {
	t.mustBeComposed("Resolve")
	t.newNext = t.next
	t.applied = t.corrections.Len()
	if t.applied > 0 {
		t.corrections.Each(func(c Correction) {
			c.Apply(&t.newNext)
		})
		t.corrections.Clear()
	}
	if t.pairs != nil {
		t.pairs.Reset()
	}
	t.staged = true
	t.phase = phaseResolved
	return t
}

// Commit copies the staged state onto the live state, ending the frame.
func (t *Thing) Commit() *Thing {
	if t.phase != phaseResolved || !t.staged {
		panic(fmt.Sprintf("pinball: Commit on %v before Resolve", t))
	}
	t.state = t.newNext
	t.next = t.state
	t.contact = t.applied > 0
	t.newNext = State{}
	t.staged = false
	t.applied = 0
	t.corrections.Clear()
	t.ClearForces()
	t.phase = phaseIdle
	return t
}
