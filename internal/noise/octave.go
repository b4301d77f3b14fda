package noise

// neutral is the value of an untouched field cell, and the lookup result
// for an octave that has no samples at all.
const neutral = 0.5

// Octave is one sparse random grid. Grid coordinates (x, y) map to
// Values[x*Height+y].
type Octave struct {
	Index    int
	CellSize float64
	Width    int
	Height   int
	Values   []float64
}

// OctaveSet holds the octaves of one generation, finest first.
type OctaveSet []Octave

// Empty reports whether the octave has no samples.
func (o Octave) Empty() bool { return len(o.Values) == 0 }

// At returns the sample at (x, y). Coordinates outside the grid fall back to
// the bottom-right sample; an empty grid yields the neutral value.
func (o Octave) At(x, y int) float64 {
	if o.Empty() {
		return neutral
	}
	if x < 0 || y < 0 || x >= o.Width || y >= o.Height {
		return o.Values[len(o.Values)-1]
	}
	return o.Values[x*o.Height+y]
}

// Sample draws one grid per octave 1..depth. Octave d uses cells of
// d*scale canvas pixels, so its grid is floor(width/(d*scale)) by
// floor(height/(d*scale)). Either dimension may be zero.
func Sample(width, height, depth int, scale float64, src Source) OctaveSet {
	set := make(OctaveSet, 0, depth)
	for d := 1; d <= depth; d++ {
		cellSize := float64(d) * scale
		o := Octave{
			Index:    d,
			CellSize: cellSize,
			Width:    int(float64(width) / cellSize),
			Height:   int(float64(height) / cellSize),
		}
		if o.Width <= 0 || o.Height <= 0 {
			o.Width, o.Height = 0, 0
		}

		o.Values = make([]float64, o.Width*o.Height)
		for x := 0; x < o.Width; x++ {
			for y := 0; y < o.Height; y++ {
				o.Values[x*o.Height+y] = src.Float64()
			}
		}
		set = append(set, o)
	}
	return set
}
