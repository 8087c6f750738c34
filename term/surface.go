// Package term renders snapshots into a terminal, one cell per scaled pixel block.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"skyplanes/sim"
)

// Glyph is the terminal stand-in for a texture
type Glyph struct {
	// Rune is drawn for sprites; ignored when Fill is set
	Rune  rune
	Style tcell.Style

	// Fill paints every cell the texture covers, used for backgrounds
	Fill bool
}

// GlyphTable maps texture keys to glyphs
type GlyphTable = sim.Textures[Glyph]

// Surface maps a world of worldW x worldH pixels onto the terminal grid
type Surface struct {
	screen         tcell.Screen
	glyphs         *GlyphTable
	worldW, worldH float64
}

// NewSurface creates a terminal surface
func NewSurface(screen tcell.Screen, glyphs *GlyphTable, worldW, worldH float64) *Surface {
	return &Surface{
		screen: screen,
		glyphs: glyphs,
		worldW: worldW,
		worldH: worldH,
	}
}

func (s *Surface) Clear() {
	s.screen.Clear()
}

// Draw places the glyph in the cell under the sprite centre.
// Sprites off the grid are skipped.
func (s *Surface) Draw(tex sim.TextureID, x, y, angle float64) {
	slot, ok := s.glyphs.Lookup(tex)
	if !ok {
		return
	}
	cols, rows := s.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	if slot.Image.Fill {
		for cy := 0; cy < rows; cy++ {
			for cx := 0; cx < cols; cx++ {
				s.screen.SetContent(cx, cy, ' ', nil, slot.Image.Style)
			}
		}
		return
	}

	cx := int(math.Floor((x + slot.Width/2) * float64(cols) / s.worldW))
	cy := int(math.Floor((y + slot.Height/2) * float64(rows) / s.worldH))
	if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
		return
	}
	r := slot.Image.Rune
	if r == 0 {
		r = Heading(angle)
	}
	s.screen.SetContent(cx, cy, r, nil, slot.Image.Style)
}

// Present flushes the frame to the terminal
func (s *Surface) Present() {
	s.screen.Show()
}

// Heading picks an arrow for an angle in degrees, clockwise from pointing right
func Heading(angle float64) rune {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	switch {
	case a < 45 || a >= 315:
		return '>'
	case a < 135:
		return 'v'
	case a < 225:
		return '<'
	default:
		return '^'
	}
}
