package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// PlaneImage draws a simple plane silhouette pointing right on a transparent background
func PlaneImage(width, height int, clr color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	outline := color.RGBA{0, 0, 0, 255}

	cy := float64(height) / 2
	half := float64(height) / 3
	for y := 0; y < height; y++ {
		relY := math.Abs(float64(y) - cy)
		if relY >= half {
			continue
		}
		// Fuselage narrows towards the nose on the right.
		edgeX := float64(width) * (1 - relY/half)
		for x := 0; x < width; x++ {
			fx := float64(x)
			switch {
			case fx < edgeX-1:
				img.Set(x, y, clr)
			case fx < edgeX:
				img.Set(x, y, outline)
			}
		}
	}
	return img
}

// BackgroundImage fills a vertical sky gradient from top to bottom
func BackgroundImage(width, height int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		row := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 255,
		}
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, row)
		}
	}
	return img
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// Save writes img to path as BMP or PNG depending on the extension
func Save(path string, img image.Image) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create asset dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return writeImage(f, path, img, encode)
}

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return bmp.Encode, nil
	case ".png":
		return png.Encode, nil
	}
	return nil, fmt.Errorf("unsupported asset format %q", filepath.Ext(path))
}

// writeImage encodes img into w and closes it; a failed close fails the write
func writeImage(w io.WriteCloser, path string, img image.Image, encode encodeFunc) error {
	if err := encode(w, img); err != nil {
		w.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
