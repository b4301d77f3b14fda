// Package noise generates multi-octave noise fields.
//
// A field is built in two steps. Sample draws one sparse random grid per
// octave, each coarser than the previous one. Blend resamples every grid onto
// the full canvas and folds the octaves into a single dense field through
// chained, sign-aware interpolation.
package noise

import "fmt"

// Params describes one generation request.
type Params struct {
	Width  int
	Height int
	Depth  int
	Scale  float64
	// Clamp asks the consumer to binarize values when rendering. The
	// generator never modifies the field because of it.
	Clamp bool
}

// Validate checks the ranges callers are expected to enforce before
// handing Params to a Generator. The generator itself accepts anything.
func (p Params) Validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("width and height must be non-negative, got %dx%d", p.Width, p.Height)
	}
	if p.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", p.Depth)
	}
	if p.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %g", p.Scale)
	}
	return nil
}
