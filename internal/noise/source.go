package noise

import (
	"fmt"

	"github.com/aquilax/go-perlin"
)

// Source is a deterministic scalar noise field over the plane. It is
// the seam between the noise core and its consumers (rasterizer,
// pipeline): every implementation is a pure function of its
// configuration and the sample coordinates.
type Source interface {
	// At returns the raw noise value at (x, y).
	At(x, y float64) float64
	// Amplitude returns the analytic bound on |At|, used by callers
	// that rescale to a display range. It may be zero for degenerate
	// configurations (octave count 0).
	Amplitude() float64
}

// Backend names accepted by NewSource.
const (
	BackendLattice = "lattice" // gradient noise on an integer lattice (default)
	BackendSimplex = "simplex" // seamless fractal simplex, periodic per Scale
	BackendPerlin  = "perlin"  // github.com/aquilax/go-perlin, kept for cross-checking
)

// NewSource builds the named backend with the given seed and params.
func NewSource(backend string, seed int64, params Params) (Source, error) {
	switch backend {
	case "", BackendLattice:
		return NewFractal(seed, params)
	case BackendSimplex:
		return NewSimplex(seed, params)
	case BackendPerlin:
		return NewLibPerlin(seed, params)
	default:
		return nil, fmt.Errorf("unknown noise backend %q: must be lattice, simplex or perlin", backend)
	}
}

// LibPerlin adapts github.com/aquilax/go-perlin to the Source
// interface. Persistence maps onto the library's alpha parameter (the
// per-octave amplitude divisor), so persistence 0 is rejected here.
type LibPerlin struct {
	p     *perlin.Perlin
	scale float64
}

func NewLibPerlin(seed int64, params Params) (*LibPerlin, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Octaves < 1 {
		return nil, fmt.Errorf("perlin backend requires at least one octave, got %d", params.Octaves)
	}
	if params.Persistence == 0 {
		return nil, fmt.Errorf("perlin backend requires positive persistence")
	}
	alpha := 1 / params.Persistence
	return &LibPerlin{
		p:     perlin.NewPerlin(alpha, 2.0, int32(params.Octaves), seed),
		scale: params.Scale,
	}, nil
}

func (l *LibPerlin) At(x, y float64) float64 {
	return l.p.Noise2D(x/l.scale, y/l.scale)
}

func (l *LibPerlin) Amplitude() float64 { return 1 }
