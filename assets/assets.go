// Package assets decodes sprite and background images from disk.
// PNG and BMP files are decoded as-is; SVG files are rasterized at the
// requested size.
package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
)

// Load reads the image at path. width and height are only used to rasterize SVG files.
func Load(path string, width, height int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		img, err := RasterizeSVG(data, width, height)
		if err != nil {
			return nil, fmt.Errorf("rasterize %s: %w", path, err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", path, err)
	}
	return img, nil
}

// RasterizeSVG converts SVG data to an RGBA image of the given size
func RasterizeSVG(svgData []byte, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
