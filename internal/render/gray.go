// Package render turns noise fields into grayscale images.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/MeKo-Tech/noisefield/internal/interp"
	"github.com/MeKo-Tech/noisefield/internal/noise"
	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// binarizeThreshold splits clamped output into black and white.
const binarizeThreshold = 0.5

// Binarize maps v to 1 when v >= 0.5, else 0.
func Binarize(v float64) float64 {
	if v >= binarizeThreshold {
		return 1
	}
	return 0
}

// Shade returns the displayed intensity of a field value.
func Shade(v float64, clamp bool) float64 {
	if clamp {
		return Binarize(v)
	}
	return interp.Clamp01(v)
}

// grayLevel converts an intensity to an 8-bit gray level.
func grayLevel(v float64) uint8 {
	return uint8(math.Round(interp.Clamp01(v) * 255))
}

// ToGray renders one pixel per field cell.
func ToGray(f *noise.Field, clamp bool) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: grayLevel(Shade(f.At(x, y), clamp))})
		}
	}
	return img
}

// Upscale enlarges img so that every pixel becomes a factor x factor block.
func Upscale(img *image.Gray, factor int) *image.Gray {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Soften applies a Gaussian blur and returns a grayscale image. A
// non-positive sigma returns img unchanged.
func Soften(img image.Image, sigma float32) image.Image {
	if sigma <= 0 {
		return img
	}
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
