package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"skyplanes/sim"
)

func TestHUDText(t *testing.T) {
	snap := sim.Snapshot{Generation: 7, Entities: make([]sim.Entity, 3)}
	got := hudText(snap, 420, 60, 59.5)

	for _, want := range []string{"gen: 7", "planes: 3", "frames: 420", "TPS: 60.0", "FPS: 59.5"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected HUD to contain %q, got %q", want, got)
		}
	}
}

func TestLoadTextureMissingAsset(t *testing.T) {
	table := &TextureTable{}
	id := LoadTexture(table, filepath.Join(t.TempDir(), "plane1.bmp"), 40, 40, zaptest.NewLogger(t))

	if _, ok := table.Lookup(id); ok {
		t.Error("Expected missing asset to resolve to no image")
	}
	if table.Len() != 1 {
		t.Errorf("Expected the failed load to keep its slot, got %d slots", table.Len())
	}
}

func TestProfilerCaptureAndCooldown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")
	p := NewProfiler(dir, 20*time.Millisecond, zaptest.NewLogger(t))

	if err := p.Capture("test"); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := p.Capture("again"); !errors.Is(err, errProfileBusy) && !errors.Is(err, errProfileCooldown) {
		t.Errorf("Expected busy or cooldown error, got %v", err)
	}
	p.Close()
	if p.Busy() {
		t.Error("Expected capture to be finished after Close")
	}
	if err := p.Capture("cooldown"); !errors.Is(err, errProfileCooldown) {
		t.Errorf("Expected cooldown error, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	var prof, trace bool
	for _, e := range entries {
		prof = prof || strings.HasSuffix(e.Name(), ".cpu.prof")
		trace = trace || strings.HasSuffix(e.Name(), ".trace")
	}
	if !prof || !trace {
		t.Errorf("Expected cpu profile and trace files, got %v", entries)
	}
}
