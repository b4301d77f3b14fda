package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/noisefield/internal/interp"
)

// Palette maps intensity 0 to Ink and intensity 1 to Paper.
type Palette struct {
	Ink   color.NRGBA
	Paper color.NRGBA
}

// GrayPalette reproduces the plain grayscale mapping.
var GrayPalette = Palette{
	Ink:   color.NRGBA{A: 255},
	Paper: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" (the '#' is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Colorize maps the luminance of every pixel of img onto the palette.
func Colorize(img image.Image, p Palette) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(bounds)

	mix := func(a, b uint8, t float64) uint8 {
		return uint8(math.Round(interp.Lerp(float64(a), float64(b), t)))
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			t := float64(g.Y) / 255.0

			dst.SetNRGBA(x, y, color.NRGBA{
				R: mix(p.Ink.R, p.Paper.R, t),
				G: mix(p.Ink.G, p.Paper.G, t),
				B: mix(p.Ink.B, p.Paper.B, t),
				A: mix(p.Ink.A, p.Paper.A, t),
			})
		}
	}

	return dst
}
