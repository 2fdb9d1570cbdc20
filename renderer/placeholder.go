package renderer

import (
	"image"
	"image/color"
)

// Placeholder draws a size×size stand-in for a folder without a cover: a
// faded border around a crossed out frame.
func Placeholder(size int, fg color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}

	r, g, b, a := fg.RGBA()
	solid := color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	faded := solid
	faded.A = uint8(float64(solid.A) * 0.6)

	border := max(1, size/32)
	frame := func(lo, hi, width int, c color.Color) {
		for i := 0; i < width; i++ {
			for x := lo; x < hi; x++ {
				img.Set(x, lo+i, c)
				img.Set(x, hi-1-i, c)
				img.Set(lo+i, x, c)
				img.Set(hi-1-i, x, c)
			}
		}
	}
	frame(0, size, border, faded)

	// inner frame with a diagonal cross through it
	inner := size / 3
	lo, hi := (size-inner)/2, (size-inner)/2+inner
	line := max(1, size/64)
	frame(lo, hi, line, solid)
	for i := 0; i < inner; i++ {
		for j := 0; j < line; j++ {
			img.Set(lo+i+j, lo+i, solid)
			img.Set(hi-1-i-j, lo+i, solid)
		}
	}

	return img
}
