// Package renderer rasterises resolved folder covers to PNGs that fit within
// a requested size.
package renderer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/mohkale/dotdirectory"
	"github.com/nfnt/resize"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// CoverRenderer turns cover files into images no larger than a given size
type CoverRenderer struct {
	// Interpolation used when scaling raster covers
	Interpolation resize.InterpolationFunction
}

func New() *CoverRenderer {
	return &CoverRenderer{
		Interpolation: resize.Lanczos3,
	}
}

// RenderResult renders the cover of a GetImage result.
func (cr *CoverRenderer) RenderResult(result dotdirectory.ImageResult, size int) (image.Image, error) {
	if !result.HasImage {
		return nil, fmt.Errorf("result has no image")
	}
	return cr.render(result.Path, result.Format, size)
}

// RenderFile renders the cover at path. SVG covers fill a size×size canvas;
// raster covers are scaled so their longer side is size, keeping the aspect
// ratio, which leaves the shorter side below size for non-square images.
func (cr *CoverRenderer) RenderFile(path string, size int) (image.Image, error) {
	return cr.render(path, dotdirectory.DetectImageFormat(path), size)
}

func (cr *CoverRenderer) render(path string, format dotdirectory.ImageFormat, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}

	switch format {
	case dotdirectory.ImageFormatSVG:
		return cr.renderSVG(path, size)
	case dotdirectory.ImageFormatUnknown, dotdirectory.ImageFormatICO:
		return nil, fmt.Errorf("unsupported cover format %s: %s", format, path)
	default:
		return cr.renderRaster(path, size)
	}
}

func (cr *CoverRenderer) renderSVG(path string, size int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SVG file: %w", err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	return img, nil
}

func (cr *CoverRenderer) renderRaster(path string, size int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cover: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == size && bounds.Dy() == size {
		return img, nil
	}

	// covers are rarely square, fit the longer side and keep the aspect ratio
	var w, h uint
	if bounds.Dx() >= bounds.Dy() {
		w = uint(size)
	} else {
		h = uint(size)
	}
	return resize.Resize(w, h, img, cr.Interpolation), nil
}

// SavePNG writes img to outputPath as a PNG.
func (cr *CoverRenderer) SavePNG(img image.Image, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return file.Close()
}
