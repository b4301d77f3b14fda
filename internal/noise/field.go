package noise

import (
	"math"

	"github.com/MeKo-Tech/noisefield/internal/interp"
	"github.com/dgravesa/go-parallel/parallel"
)

// lerpStep is the fraction of the distance moved by each interpolation.
const lerpStep = 0.3

// Field is a dense width x height grid of intensities, stored row-major.
type Field struct {
	Width  int
	Height int
	Values []float64
}

// NewField returns a field with every cell set to the neutral 0.5.
func NewField(width, height int) *Field {
	f := newField(width, height)
	f.Fill(neutral)
	return f
}

func newField(width, height int) *Field {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Field{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

func (f *Field) idx(x, y int) int { return y*f.Width + x }

// At returns the value at (x, y).
func (f *Field) At(x, y int) float64 { return f.Values[f.idx(x, y)] }

// Set stores v at (x, y).
func (f *Field) Set(x, y int, v float64) { f.Values[f.idx(x, y)] = v }

// Fill sets every cell to v.
func (f *Field) Fill(v float64) {
	for i := range f.Values {
		f.Values[i] = v
	}
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := newField(f.Width, f.Height)
	copy(c.Values, f.Values)
	return c
}

// gridCell maps a canvas coordinate onto the grid of an octave with the
// given rounded cell size. Rounding is half to even.
func gridCell(v int, cs float64) int {
	return int(math.RoundToEven(float64(v) / cs))
}

// roundedCellSize is the integral cell size used when resampling o.
func roundedCellSize(o Octave) float64 {
	cs := math.RoundToEven(o.CellSize)
	if cs < 1 {
		cs = 1
	}
	return cs
}

// stepFraction is the signed interpolation step used by the second
// interpolation when depth octaves are folded. Its magnitude shrinks as
// depth grows.
func stepFraction(current, target float64, depth int) float64 {
	if depth < 1 {
		depth = 1
	}
	return lerpStep * interp.Sign(current, target) / float64(depth)
}

// smoothSample returns the octave value seen by canvas cell (xi, yi) after
// nudging it away from its up-left neighbour.
func smoothSample(o Octave, xi, yi int) float64 {
	point := o.At(xi, yi)

	px, py := xi, yi
	if px > 0 {
		px--
	}
	if py > 0 {
		py--
	}
	lastPoint := o.At(px, py)

	if point == lastPoint {
		return point
	}
	return interp.Clamp01(interp.Lerp(lastPoint, point, lerpStep*interp.Sign(lastPoint, point)))
}

// Fold blends one octave into the field in place. depth is the total number
// of octaves being combined; it divides the step so that each octave's
// influence shrinks as more octaves are requested.
//
// Rows are processed in parallel. Each cell reads and writes only itself, so
// callers must not fold two octaves into the same field concurrently.
func (f *Field) Fold(o Octave, depth int) {
	if f.Width == 0 || f.Height == 0 {
		return
	}
	cs := roundedCellSize(o)

	parallel.For(f.Height, func(y, _ int) {
		yi := gridCell(y, cs)
		row := f.Values[y*f.Width : (y+1)*f.Width]
		for x := range row {
			first := smoothSample(o, gridCell(x, cs), yi)
			current := row[x]
			if current == first {
				continue
			}
			row[x] = interp.Clamp01(interp.Lerp(current, first, stepFraction(current, first, depth)))
		}
	})
}

// accumulate adds the octave's nearest sample divided by depth to every cell.
func (f *Field) accumulate(o Octave, depth int) {
	if f.Width == 0 || f.Height == 0 {
		return
	}
	cs := roundedCellSize(o)
	weight := 1 / float64(max(depth, 1))

	parallel.For(f.Height, func(y, _ int) {
		yi := gridCell(y, cs)
		row := f.Values[y*f.Width : (y+1)*f.Width]
		for x := range row {
			row[x] += o.At(gridCell(x, cs), yi) * weight
		}
	})
}
