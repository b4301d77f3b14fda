package noise

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
)

// Source yields uniform values in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// SourceFunc adapts a function to Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// NewSeededSource returns a deterministic source.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewEntropySource returns a source seeded from the system entropy pool.
func NewEntropySource() Source {
	return NewSeededSource(EntropySeed())
}

// EntropySeed reads a seed from crypto/rand, falling back to the clock if
// the entropy pool is unavailable.
func EntropySeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// perlinStride walks the 1D noise off the integer lattice, where Perlin
// noise is always zero.
const perlinStride = 0.6180339887498949

// PerlinSource draws spatially correlated values by walking 1D Perlin noise.
// Consecutive draws land close together on the noise curve, so neighbouring
// grid samples are similar and the resulting field looks softer than with
// independent draws.
type PerlinSource struct {
	p *perlin.Perlin
	t float64
}

// NewPerlinSource returns a deterministic Perlin-backed source.
func NewPerlinSource(seed int64) *PerlinSource {
	return &PerlinSource{p: perlin.NewPerlin(2, 2, 3, seed)}
}

// Float64 returns the next value in [0,1).
func (s *PerlinSource) Float64() float64 {
	s.t += perlinStride
	v := (s.p.Noise1D(s.t) + 1) / 2
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}

// SourceByName resolves a source kind. A zero seed draws one from the
// entropy pool.
func SourceByName(name string, seed int64) (Source, error) {
	if seed == 0 {
		seed = EntropySeed()
	}
	switch name {
	case "", "random":
		return NewSeededSource(seed), nil
	case "perlin":
		return NewPerlinSource(seed), nil
	default:
		return nil, fmt.Errorf("unknown source %q: must be 'random' or 'perlin'", name)
	}
}
