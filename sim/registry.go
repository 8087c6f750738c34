package sim

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrDuplicateEntity is returned by Add when an entity with the same ID is already live.
var ErrDuplicateEntity = errors.New("duplicate entity id")

// ErrAlreadySeeded is returned by Seed once a snapshot has been published.
var ErrAlreadySeeded = errors.New("registry already seeded")

// Snapshot is an immutable view of the live entities produced by one update pass.
// The Entities slice is shared between readers and must not be modified.
type Snapshot struct {
	// Generation counts completed update passes; seeding publishes generation 0
	Generation uint64

	// Entities are the live entities in insertion order
	Entities []Entity
}

// Len returns the number of entities in the snapshot
func (s Snapshot) Len() int {
	return len(s.Entities)
}

// Registry owns the authoritative entity list and publishes snapshots of it.
// The updater and the spawner mutate it; the render pass only reads snapshots.
// All locking happens inside the registry.
type Registry struct {
	mu sync.RWMutex

	// entities is the authoritative list, guarded by mu
	entities []Entity
	live     map[EntityID]struct{}

	// published is replaced wholesale on every update, guarded by mu
	published Snapshot

	nextID atomic.Uint64
	log    *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		entities: make([]Entity, 0, 64),
		live:     make(map[EntityID]struct{}, 64),
		log:      log,
	}
}

// NextID hands out the next entity id. Safe for concurrent use.
func (r *Registry) NextID() EntityID {
	return EntityID(r.nextID.Add(1) - 1)
}

// reserve keeps the id allocator ahead of ids assigned by callers
func (r *Registry) reserve(id EntityID) {
	for {
		cur := r.nextID.Load()
		if uint64(id) < cur || r.nextID.CompareAndSwap(cur, uint64(id)+1) {
			return
		}
	}
}

// Add appends e to the authoritative list. It becomes visible to the render
// pass after the next update.
func (r *Registry) Add(e Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(e)
}

func (r *Registry) addLocked(e Entity) error {
	if _, ok := r.live[e.ID]; ok {
		return fmt.Errorf("add entity %d: %w", e.ID, ErrDuplicateEntity)
	}
	r.reserve(e.ID)
	r.live[e.ID] = struct{}{}
	r.entities = append(r.entities, e)
	return nil
}

// Seed adds the startup set and publishes it right away, so it is drawn
// before the first tick. It only works on a fresh registry: once anything was
// published or updated, later entities go through Add. Already expired
// entities are kept out of the snapshot and dropped by the next update.
// Entities queued with Add before Seed stay hidden until the next update.
func (r *Registry) Seed(entities ...Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.published.Generation > 0 || r.published.Entities != nil {
		return ErrAlreadySeeded
	}
	visible := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if err := r.addLocked(e); err != nil {
			return err
		}
		if !e.IsExpired() {
			visible = append(visible, e)
		}
	}
	r.published = Snapshot{Entities: visible}
	return nil
}

// UpdateAll advances every entity, drops the expired ones and publishes a new
// snapshot. Readers see either the previous snapshot or the new one.
func (r *Registry) UpdateAll() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]Entity, 0, len(r.entities))
	expired := 0
	for i := range r.entities {
		e := r.entities[i]
		e.Advance()
		if ce := r.log.Check(zap.DebugLevel, "plane advanced"); ce != nil {
			ce.Write(
				zap.Uint64("id", uint64(e.ID)),
				zap.Float64("x", e.Pos.X),
				zap.Float64("y", e.Pos.Y),
				zap.Float64("dx", e.Velocity.X),
				zap.Float64("dy", e.Velocity.Y),
				zap.Int("remaining", e.Remaining),
			)
		}
		if e.IsExpired() {
			delete(r.live, e.ID)
			expired++
			continue
		}
		kept = append(kept, e)
	}
	r.entities = kept

	// The snapshot gets its own backing array; the next update rewrites kept.
	visible := make([]Entity, len(kept))
	copy(visible, kept)
	r.published = Snapshot{Generation: r.published.Generation + 1, Entities: visible}

	if expired > 0 {
		r.log.Info("planes expired",
			zap.Int("expired", expired),
			zap.Int("live", len(kept)),
			zap.Uint64("generation", r.published.Generation),
		)
	}
	return r.published
}

// Snapshot returns the most recently published snapshot.
// Calls between two updates return the same data.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.published
}

// Len returns the number of entities in the authoritative list,
// including ones added since the last update
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}
