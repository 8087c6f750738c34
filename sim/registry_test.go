package sim

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestRegistryLifetimeScenario(t *testing.T) {
	r := NewRegistry(zaptest.NewLogger(t))
	if err := r.Add(Entity{ID: 0, Velocity: Vec2{X: 10}, Remaining: 3}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	snap := r.UpdateAll()
	if snap.Len() != 1 {
		t.Fatalf("Expected 1 entity after first tick, got %d", snap.Len())
	}
	got := snap.Entities[0]
	if got.Pos != (Vec2{X: 10}) || got.Remaining != 2 {
		t.Errorf("Expected (10,0) remaining 2, got %v remaining %d", got.Pos, got.Remaining)
	}

	r.UpdateAll()
	snap = r.UpdateAll()
	if snap.Len() != 0 {
		t.Errorf("Expected entity to be gone after 3 ticks, snapshot has %d", snap.Len())
	}
	if r.Len() != 0 {
		t.Errorf("Expected authoritative list to be empty, got %d", r.Len())
	}
	if snap.Generation != 3 {
		t.Errorf("Expected generation 3, got %d", snap.Generation)
	}
}

func TestRegistrySnapshotNeverHoldsExpired(t *testing.T) {
	r := NewRegistry(nil)
	for i, lifetime := range []int{1, 2, 3, 5, 8, 0, -2} {
		if err := r.Add(Entity{ID: EntityID(i), Remaining: lifetime}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	for tick := 1; tick <= 10; tick++ {
		snap := r.UpdateAll()
		for _, e := range snap.Entities {
			if e.IsExpired() {
				t.Errorf("tick %d: expired entity %d in snapshot", tick, e.ID)
			}
		}
	}
}

func TestRegistryInsertionOrder(t *testing.T) {
	r := NewRegistry(nil)
	lifetimes := []int{5, 1, 5, 1, 5}
	for i, l := range lifetimes {
		if err := r.Add(Entity{ID: EntityID(i), Remaining: l}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	snap := r.UpdateAll()
	var ids []EntityID
	for _, e := range snap.Entities {
		ids = append(ids, e.ID)
	}
	want := []EntityID{0, 2, 4}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected ids %v, got %v", want, ids)
	}
}

func TestRegistryAddNotVisibleUntilUpdate(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Add(Entity{ID: 7, Remaining: 1}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if r.Snapshot().Len() != 0 {
		t.Error("Expected Add to leave the published snapshot untouched")
	}
	// Expires in the tick it first advances, so it is never drawn.
	if snap := r.UpdateAll(); snap.Len() != 0 {
		t.Errorf("Expected entity with lifetime 1 never to be published, got %d", snap.Len())
	}
}

func TestRegistryDuplicateID(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Add(Entity{ID: 1, Remaining: 2}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := r.Add(Entity{ID: 1, Remaining: 2})
	if !errors.Is(err, ErrDuplicateEntity) {
		t.Errorf("Expected ErrDuplicateEntity, got %v", err)
	}

	// Once expired, the id is free again.
	r.UpdateAll()
	r.UpdateAll()
	if err := r.Add(Entity{ID: 1, Remaining: 2}); err != nil {
		t.Errorf("Expected re-adding an expired id to succeed, got %v", err)
	}
}

func TestRegistryNextIDSkipsReserved(t *testing.T) {
	r := NewRegistry(nil)
	if id := r.NextID(); id != 0 {
		t.Errorf("Expected first id 0, got %d", id)
	}
	if err := r.Add(Entity{ID: 10, Remaining: 1}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id := r.NextID(); id != 11 {
		t.Errorf("Expected next id 11 after manual id 10, got %d", id)
	}
}

func TestRegistrySnapshotIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	for i := 0; i < 3; i++ {
		if err := r.Add(Entity{ID: r.NextID(), Pos: Vec2{X: float64(i)}, Velocity: Vec2{Y: 1}, Remaining: 4}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	r.UpdateAll()

	a := r.Snapshot()
	// Mutations of the authoritative list must not leak into the published one.
	if err := r.Add(Entity{ID: r.NextID(), Remaining: 4}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	b := r.Snapshot()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical snapshots between updates:\n%+v\n%+v", a, b)
	}

	r.UpdateAll()
	if a.Entities[0].Pos.Y != 1 {
		t.Errorf("Expected old snapshot to keep its data after an update, got %v", a.Entities[0].Pos)
	}
}

func TestRegistrySeedPublishes(t *testing.T) {
	r := NewRegistry(nil)
	err := r.Seed(
		Entity{ID: 0, Pos: Vec2{X: 0.3, Y: 0.3}, Remaining: 100},
		Entity{ID: 1, Pos: Vec2{X: 6, Y: 300}, Remaining: 100},
		Entity{ID: 2, Remaining: 0},
	)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	snap := r.Snapshot()
	if snap.Generation != 0 {
		t.Errorf("Expected generation 0, got %d", snap.Generation)
	}
	if snap.Len() != 2 {
		t.Errorf("Expected 2 visible seeded planes, got %d", snap.Len())
	}
	if r.Len() != 3 {
		t.Errorf("Expected 3 entities in the registry, got %d", r.Len())
	}
	if snap := r.UpdateAll(); snap.Len() != 2 {
		t.Errorf("Expected expired seed to be dropped, got %d", snap.Len())
	}
}

func TestRegistrySeedAfterUpdate(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Add(Entity{ID: 0, Remaining: 10}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	r.UpdateAll()
	if err := r.Add(Entity{ID: 1, Remaining: 10}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before := r.Snapshot()

	if err := r.Seed(Entity{ID: 2, Remaining: 10}); !errors.Is(err, ErrAlreadySeeded) {
		t.Errorf("Expected ErrAlreadySeeded, got %v", err)
	}
	after := r.Snapshot()
	if after.Generation != before.Generation || after.Len() != before.Len() {
		t.Errorf("Expected snapshot gen=%d len=%d to be unchanged, got gen=%d len=%d",
			before.Generation, before.Len(), after.Generation, after.Len())
	}
	if r.Len() != 2 {
		t.Errorf("Expected rejected seed to add nothing, got %d entities", r.Len())
	}
}

func TestRegistrySeedHidesQueuedAdds(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Add(Entity{ID: 5, Remaining: 10}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := r.Seed(Entity{ID: 0, Remaining: 10}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	snap := r.Snapshot()
	if snap.Len() != 1 || snap.Entities[0].ID != 0 {
		t.Errorf("Expected only the seeded plane to be visible, got %+v", snap.Entities)
	}
	if err := r.Seed(Entity{ID: 1, Remaining: 10}); !errors.Is(err, ErrAlreadySeeded) {
		t.Errorf("Expected second Seed to fail with ErrAlreadySeeded, got %v", err)
	}
	if snap := r.UpdateAll(); snap.Len() != 2 {
		t.Errorf("Expected queued plane to appear after the update, got %d", snap.Len())
	}
}

func TestRegistryConcurrentReadersSeeWholeGenerations(t *testing.T) {
	r := NewRegistry(nil)
	const planes = 50
	for i := 0; i < planes; i++ {
		// Every plane starts at x=0 and moves 1 per tick, so x equals the generation.
		if err := r.Add(Entity{ID: r.NextID(), Velocity: Vec2{X: 1}, Remaining: 1000}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan string, 8)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := r.Snapshot()
				for _, e := range snap.Entities {
					if uint64(e.Pos.X) != snap.Generation || e.Remaining != 1000-int(snap.Generation) {
						select {
						case errs <- "mixed generation in snapshot":
						default:
						}
						return
					}
				}
				if snap.Generation > 0 && snap.Len() != planes {
					select {
					case errs <- "partial snapshot":
					default:
					}
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		r.UpdateAll()
	}
	close(stop)
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
