package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"skyplanes/assets"
	"skyplanes/config"
	"skyplanes/scene"
	"skyplanes/sim"
)

// TextureTable holds every image uploaded to the GPU for this run
type TextureTable = sim.Textures[*ebiten.Image]

// LoadTexture decodes path and uploads it. A failed load is logged and leaves
// a slot without an image, which draws as nothing.
func LoadTexture(table *TextureTable, path string, width, height float64, log *zap.Logger) sim.TextureID {
	log.Info("loading texture", zap.String("path", path))
	img, err := assets.Load(path, int(width), int(height))
	if err != nil {
		log.Warn("couldn't load texture", zap.String("path", path), zap.Error(err))
		return table.InsertMissing(path, width, height)
	}
	return table.Insert(path, width, height, ebiten.NewImageFromImage(img))
}

// LoadSceneTextures loads the background and the plane sprite
func LoadSceneTextures(cfg *config.Config, log *zap.Logger) (*TextureTable, scene.Textures) {
	table := sim.NewTextures[*ebiten.Image]()
	bg := LoadTexture(table, cfg.Background.Path, float64(cfg.Window.Width), float64(cfg.Window.Height), log)
	plane := LoadTexture(table, cfg.Planes.Sprite, cfg.Planes.Width, cfg.Planes.Height, log)
	return table, scene.Textures{Plane: plane, Background: bg}
}
