// Command placeholders writes stand-in background and plane images so the
// windowed program has something to load.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"go.uber.org/zap"

	"skyplanes/assets"
	"skyplanes/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file whose asset paths and sizes to use")
	flag.Parse()

	cfg, err := config.Load(config.Resolve(*configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	bg := assets.BackgroundImage(cfg.Window.Width, cfg.Window.Height,
		color.RGBA{R: 70, G: 130, B: 200, A: 255},
		color.RGBA{R: 190, G: 220, B: 245, A: 255},
	)
	if err := assets.Save(cfg.Background.Path, bg); err != nil {
		return fmt.Errorf("write background: %w", err)
	}
	log.Info("wrote background", zap.String("path", cfg.Background.Path),
		zap.Int("width", cfg.Window.Width), zap.Int("height", cfg.Window.Height))

	w, h := int(cfg.Planes.Width), int(cfg.Planes.Height)
	plane := assets.PlaneImage(w, h, color.RGBA{R: 90, G: 90, B: 100, A: 255})
	if err := assets.Save(cfg.Planes.Sprite, plane); err != nil {
		return fmt.Errorf("write plane: %w", err)
	}
	log.Info("wrote plane sprite", zap.String("path", cfg.Planes.Sprite), zap.Int("width", w), zap.Int("height", h))
	return nil
}
