package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"skyplanes/sim"
)

// DebugState holds the overlay toggles
type DebugState struct {
	ShowHUD bool // Show tick generation, plane count and frame rates
}

// hudText formats the overlay for the snapshot drawn this frame
func hudText(snap sim.Snapshot, frames uint64, tps, fps float64) string {
	return fmt.Sprintf("gen: %d\nplanes: %d\nframes: %d\nTPS: %.1f FPS: %.1f\nF1: toggle HUD  Esc: quit",
		snap.Generation, snap.Len(), frames, tps, fps)
}

func drawHUD(screen *ebiten.Image, snap sim.Snapshot, frames uint64) {
	ebitenutil.DebugPrint(screen, hudText(snap, frames, ebiten.ActualTPS(), ebiten.ActualFPS()))
}
