package sim

import (
	"go.uber.org/zap"
)

// SpawnTemplate holds the parameters every spawned plane starts with
type SpawnTemplate struct {
	// Lifetime is the initial tick budget
	Lifetime int

	// Velocity is the per-tick displacement
	Velocity Vec2

	// Texture is the sprite every plane is drawn with
	Texture TextureID

	// Rotates enables lifetime-driven rotation
	Rotates bool
}

// Spawner creates planes and feeds them into a registry.
// Each Step moves a cursor by a fixed step and places one plane at every
// formation offset relative to the new cursor position.
type Spawner struct {
	registry  *Registry
	template  SpawnTemplate
	cursor    Vec2
	step      Vec2
	formation []Vec2

	// maxPopulation bounds the registry size; 0 means unbounded
	maxPopulation int
	log           *zap.Logger
}

// SpawnerOption configures a Spawner
type SpawnerOption func(*Spawner)

// WithCursor sets the starting cursor position
func WithCursor(start, step Vec2) SpawnerOption {
	return func(s *Spawner) {
		s.cursor = start
		s.step = step
	}
}

// WithFormation sets the offsets spawned on every step
func WithFormation(offsets ...Vec2) SpawnerOption {
	return func(s *Spawner) {
		s.formation = append([]Vec2(nil), offsets...)
	}
}

// WithMaxPopulation skips spawn steps once the registry holds n entities
func WithMaxPopulation(n int) SpawnerOption {
	return func(s *Spawner) {
		s.maxPopulation = n
	}
}

// NewSpawner creates a spawner writing into registry
func NewSpawner(registry *Registry, template SpawnTemplate, log *zap.Logger, opts ...SpawnerOption) *Spawner {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Spawner{
		registry:  registry,
		template:  template,
		formation: []Vec2{{}},
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Spawner) newEntity(pos Vec2) Entity {
	return Entity{
		ID:        s.registry.NextID(),
		Pos:       pos,
		Velocity:  s.template.Velocity,
		Remaining: s.template.Lifetime,
		Texture:   s.template.Texture,
		Rotates:   s.template.Rotates,
	}
}

// Seed creates one plane at each position and publishes them immediately.
// The registry must not have published anything yet.
func (s *Spawner) Seed(positions ...Vec2) ([]Entity, error) {
	spawned := make([]Entity, 0, len(positions))
	for _, pos := range positions {
		spawned = append(spawned, s.newEntity(pos))
	}
	if err := s.registry.Seed(spawned...); err != nil {
		return nil, err
	}
	s.log.Info("planes seeded", zap.Int("count", len(spawned)))
	return spawned, nil
}

// Step advances the cursor and adds one plane per formation offset.
// It returns the planes added, or nothing when the population cap is reached.
func (s *Spawner) Step() ([]Entity, error) {
	if s.maxPopulation > 0 && s.registry.Len() >= s.maxPopulation {
		return nil, nil
	}
	s.cursor = s.cursor.Add(s.step)

	spawned := make([]Entity, 0, len(s.formation))
	for _, off := range s.formation {
		e := s.newEntity(s.cursor.Add(off))
		if err := s.registry.Add(e); err != nil {
			return spawned, err
		}
		spawned = append(spawned, e)
	}
	s.log.Debug("planes spawned",
		zap.Int("count", len(spawned)),
		zap.Float64("cursor_x", s.cursor.X),
		zap.Float64("cursor_y", s.cursor.Y),
	)
	return spawned, nil
}

// Cursor returns the current cursor position
func (s *Spawner) Cursor() Vec2 {
	return s.cursor
}
