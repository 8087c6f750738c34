package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"skyplanes/sim"
)

var colorClear = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// screenSurface draws onto the ebiten screen for a single frame
type screenSurface struct {
	screen   *ebiten.Image
	textures *TextureTable
}

func (s *screenSurface) Clear() {
	s.screen.Fill(colorClear)
}

// Draw scales the texture to its slot size and rotates it around its centre
func (s *screenSurface) Draw(tex sim.TextureID, x, y, angle float64) {
	slot, ok := s.textures.Lookup(tex)
	if !ok || slot.Image == nil {
		return
	}
	b := slot.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(slot.Width/w, slot.Height/h)
	op.GeoM.Rotate(angle * math.Pi / 180)
	op.GeoM.Translate(x+slot.Width/2, y+slot.Height/2)
	op.Filter = ebiten.FilterLinear
	s.screen.DrawImage(slot.Image, op)
}

// Present is a no-op; ebiten presents once Draw returns
func (s *screenSurface) Present() {}
