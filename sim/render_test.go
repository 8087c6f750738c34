package sim

import (
	"reflect"
	"testing"
)

func TestRenderPassOrder(t *testing.T) {
	r := NewRegistry(nil)
	err := r.Seed(
		Entity{ID: 0, Pos: Vec2{X: 1, Y: 2}, Remaining: 3, Texture: 1},
		Entity{ID: 1, Pos: Vec2{X: 5, Y: 6}, Remaining: 3, Texture: 1},
	)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	p := NewRenderPass(r, 0)
	s := &recordingSurface{}
	p.Frame(s)

	wantOps := []string{"clear", "draw", "draw", "draw", "present"}
	if !reflect.DeepEqual(s.ops, wantOps) {
		t.Errorf("Expected ops %v, got %v", wantOps, s.ops)
	}
	wantDraws := []drawCall{
		{tex: 0},
		{tex: 1, x: 1, y: 2},
		{tex: 1, x: 5, y: 6},
	}
	if !reflect.DeepEqual(s.draws, wantDraws) {
		t.Errorf("Expected draws %+v, got %+v", wantDraws, s.draws)
	}
}

func TestRenderPassRedrawsWithoutUpdate(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Add(Entity{ID: 0, Velocity: Vec2{X: 10}, Remaining: 3}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	r.UpdateAll()

	p := NewRenderPass(r, NoTexture)
	a := &recordingSurface{}
	b := &recordingSurface{}
	p.Frame(a)
	p.Frame(b)

	if !reflect.DeepEqual(a.draws, b.draws) {
		t.Errorf("Expected identical frames between ticks, got %+v and %+v", a.draws, b.draws)
	}
	if p.Frames() != 2 || p.LastGeneration() != 1 {
		t.Errorf("Expected 2 frames of generation 1, got %d frames of generation %d", p.Frames(), p.LastGeneration())
	}

	r.UpdateAll()
	r.UpdateAll()
	c := &recordingSurface{}
	p.Frame(c)
	if len(c.draws) != 1 {
		t.Errorf("Expected only the background after expiry, got %d draws", len(c.draws))
	}
}
