package sim

import (
	"math"
)

// EntityID identifies an entity for the lifetime of a registry.
// IDs are handed out in increasing order and never reused within a run.
type EntityID uint64

// Vec2 is a 2D position or per-tick displacement
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum of v and o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Entity is a single animated plane.
// Entities are plain values: the registry owns the authoritative copy and
// snapshots hold their own copies, so a snapshot never changes under a reader.
type Entity struct {
	// ID is unique within the owning registry
	ID EntityID

	// Pos is the top-left corner of the sprite in screen pixels
	Pos Vec2

	// Velocity is the displacement applied on every tick
	Velocity Vec2

	// Remaining is the number of ticks left before the entity expires
	Remaining int

	// Texture is a key into the shared texture table
	Texture TextureID

	// Rotates makes the sprite turn as its lifetime runs out
	Rotates bool
}

// Advance moves the entity by one tick and burns one tick of lifetime.
// Positions are not bounded; planes are free to leave the screen.
func (e *Entity) Advance() {
	e.Pos = e.Pos.Add(e.Velocity)
	e.Remaining--
}

// IsExpired reports whether the entity has no lifetime left
func (e *Entity) IsExpired() bool {
	return e.Remaining <= 0
}

// Angle returns the display angle in whole degrees.
// Rotating planes spin with their remaining lifetime; static ones stay at 0.
func (e *Entity) Angle() float64 {
	if !e.Rotates {
		return 0
	}
	return math.Trunc(float64(e.Remaining) * 180 / math.Pi / 20)
}

// Render draws the entity onto s. Expired entities draw nothing.
func (e *Entity) Render(s Surface) {
	if e.IsExpired() {
		return
	}
	s.Draw(e.Texture, e.Pos.X, e.Pos.Y, e.Angle())
}
