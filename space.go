package pinball

import (
	"log"
	"slices"
)

// PostStepCallbackFunc is run by the Space after a step, when things may be
// added, removed or changed again.
type PostStepCallbackFunc func(space *Space, key any, data any)

type PostStepCallback struct {
	callback PostStepCallbackFunc
	key      any
	data     any
}

// ContactFunc is called for every contact resolved during a step. this is the
// body that received the corrections.
type ContactFunc func(space *Space, this, other *Thing, c Contact)

// Space drives one frame of the simulation for a set of Things inside a Scene.
type Space struct {
	UserData any

	// Scene is the container every dynamic thing is kept inside. nil disables
	// boundary collisions.
	Scene *Scene

	// Mutual splits corrections between two dynamic bodies instead of
	// correcting only the one with the lower id.
	Mutual bool

	// OnContact is called for every contact found in the narrow phase.
	OnContact ContactFunc

	PostStepCallbacks []*PostStepCallback

	things       []*Thing
	index        SpatialIndexer
	pairs        *PairSet
	contacts     []Contact
	stamp        uint
	locked       bool
	skipPostStep bool
}

// NewSpace allocates and initializes a Space
func NewSpace(scene *Scene) *Space {
	return &Space{
		Scene:             scene,
		things:            []*Thing{},
		index:             NewBBTree(NextBBFunc),
		pairs:             NewPairSet(),
		contacts:          []Contact{},
		PostStepCallbacks: []*PostStepCallback{},
	}
}

// AddThing adds thing to the space.
//
// Do not add the same Thing twice.
func (s *Space) AddThing(thing *Thing) *Thing {
	if s.locked {
		panic("pinball: Space is locked")
	}
	if thing.space != nil {
		panic("pinball: " + thing.String() + " already belongs to a Space")
	}
	if s.Scene != nil {
		scene := s.Scene.BB()
		if thing.width > scene.Width() || thing.height > scene.Height() {
			log.Println("Warning:", thing, "is larger than the scene")
		}
	}
	thing.space = s
	thing.pairs = s.pairs
	s.things = append(s.things, thing)
	s.index.Insert(thing)
	return thing
}

// RemoveThing removes thing from the simulation. Hide things with SetVisible
// to take them out of play during a game.
func (s *Space) RemoveThing(thing *Thing) {
	if s.locked {
		panic("pinball: Space is locked")
	}
	s.things = slices.DeleteFunc(s.things, func(t *Thing) bool {
		return t == thing
	})
	s.index.Remove(thing)
	thing.space = nil
	thing.pairs = nil
}

// SetSpatialIndex replaces the broad phase and indexes every thing of the
// space in it. A nil index restores the default BBTree.
func (s *Space) SetSpatialIndex(index SpatialIndexer) {
	if s.locked {
		panic("pinball: Space is locked")
	}
	if index == nil {
		index = NewBBTree(NextBBFunc)
	}
	for _, t := range s.things {
		index.Insert(t)
	}
	s.index = index
}

func (s *Space) ContainsThing(thing *Thing) bool {
	return thing.space == s
}

// Things returns the things of the space in insertion order.
func (s *Space) Things() []*Thing {
	return slices.Clone(s.things)
}

func (s *Space) ThingCount() int {
	return len(s.things)
}

// EachThing calls func f for each thing in the space
//
// Example:
//
//	s.EachThing(func(t *pinball.Thing) {
//		fmt.Println(t.Position())
//	})
func (s *Space) EachThing(f func(t *Thing)) {
	s.Lock()
	defer s.Unlock(true)

	for _, t := range s.things {
		f(t)
	}
}

// Contacts returns the contacts resolved during the last step.
func (s *Space) Contacts() []Contact {
	return slices.Clone(s.contacts)
}

// Stamp returns the number of steps taken.
func (s *Space) Stamp() uint {
	return s.stamp
}

// Step advances the simulation by one tick.
//
// Every visible thing is composed before any collision is tested, and no
// live state changes until every thing has been resolved.
func (s *Space) Step() {
	s.stamp++
	s.contacts = s.contacts[:0]

	s.Lock()
	{
		for _, t := range s.things {
			if t.visible {
				t.Composite()
			}
		}

		// Find colliding pairs.
		s.index.ReindexQuery(spaceCollideThings, s)

		if s.Scene != nil {
			for _, t := range s.things {
				if t.visible && !t.Static {
					t.CollideWithScene(s.Scene)
				}
			}
		}

		for _, t := range s.things {
			if t.visible {
				t.Resolve()
			}
		}
		for _, t := range s.things {
			if t.visible {
				t.Commit()
			}
		}
	}
	s.Unlock(true)
}

// spaceCollideThings is the narrow phase for one broad phase candidate pair.
func spaceCollideThings(a, b *Thing, data any) {
	space := data.(*Space)
	if !a.visible || !b.visible || (a.Static && b.Static) {
		return
	}
	this, other, mutual := a, b, space.Mutual
	switch {
	case a.Static:
		this, other, mutual = b, a, false
	case b.Static:
		mutual = false
	case b.id < a.id:
		this, other = b, a
	}
	c, ok := this.CollideAndReflect(other, mutual)
	if !ok {
		return
	}
	space.contacts = append(space.contacts, c)
	if space.OnContact != nil {
		space.OnContact(space, this, other, c)
	}
}

func (s *Space) Lock() {
	s.locked = true
}

// IsLocked returns true from inside a callback when things cannot be added/removed.
func (s *Space) IsLocked() bool {
	return s.locked
}

func (s *Space) Unlock(runPostStep bool) {
	s.locked = false

	if runPostStep && !s.skipPostStep {
		s.skipPostStep = true

		for _, callback := range s.PostStepCallbacks {
			f := callback.callback

			// Mark the func as nil in case calling it adds another callback.
			callback.callback = nil

			if f != nil {
				f(s, callback.key, callback.data)
			}
		}

		s.PostStepCallbacks = s.PostStepCallbacks[:0]
		s.skipPostStep = false
	}
}

func (s *Space) PostStepCallback(key any) *PostStepCallback {
	for _, callback := range s.PostStepCallbacks {
		if callback != nil && callback.key == key {
			return callback
		}
	}
	return nil
}

// AddPostStepCallback defines a callback to be run just before s.Step() finishes.
//
// Things cannot be added, removed or resized from an OnContact handler.
// Schedule the change here instead. Only one callback runs per key value,
// registering a second callback for the same key is a no-op. A nil key is
// never deduplicated.
func (s *Space) AddPostStepCallback(f PostStepCallbackFunc, key, data any) bool {
	if key == nil || s.PostStepCallback(key) == nil {
		callback := &PostStepCallback{
			key:  key,
			data: data,
		}
		if f != nil {
			callback.callback = f
		} else {
			callback.callback = PostStepDoNothing
		}
		s.PostStepCallbacks = append(s.PostStepCallbacks, callback)
		return true
	}
	return false
}

func PostStepDoNothing(space *Space, key, data any) {}
