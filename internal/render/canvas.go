package render

import (
	"fmt"
	"image"
	"math"

	"github.com/MeKo-Tech/noisefield/internal/noise"
	"github.com/gogpu/gg"
)

// PaintOptions controls rectangle painting.
type PaintOptions struct {
	// CellSize is the edge length, in pixels, of the square painted for
	// each field cell. Values below 1 are treated as 1.
	CellSize float64
	Clamp    bool
}

// Paint draws the field on a gg canvas, one filled square per cell at
// (floor(x*cell), floor(y*cell)).
func Paint(f *noise.Field, opts PaintOptions) (image.Image, error) {
	cell := opts.CellSize
	if cell < 1 {
		cell = 1
	}
	w := int(math.Ceil(float64(f.Width) * cell))
	h := int(math.Ceil(float64(f.Height) * cell))
	if w == 0 || h == 0 {
		return image.NewGray(image.Rect(0, 0, w, h)), nil
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := Shade(f.At(x, y), opts.Clamp)
			dc.SetRGB(v, v, v)
			dc.DrawRectangle(math.Floor(float64(x)*cell), math.Floor(float64(y)*cell), cell, cell)
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("failed to paint cell (%d,%d): %w", x, y, err)
			}
		}
	}

	if err := dc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush canvas: %w", err)
	}
	return dc.Image(), nil
}
