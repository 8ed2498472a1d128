package noise

import (
	"fmt"
	"math"
)

// Params configures fractal octave compositing. A Params value is
// immutable for the duration of a call; nothing is persisted between
// calls.
type Params struct {
	// Scale is the lattice cell size in sample-space units. Larger
	// scales produce broader features.
	Scale float64
	// Octaves is the number of layers summed. Zero is allowed and
	// yields a constant zero field.
	Octaves int
	// Persistence is the per-octave amplitude decay in [0, 1].
	Persistence float64
}

// Validate reports the first invalid parameter, if any. Out-of-range
// input is rejected here rather than silently producing NaN or
// unbounded output.
func (p Params) Validate() error {
	if math.IsNaN(p.Scale) || p.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", p.Scale)
	}
	if p.Octaves < 0 {
		return fmt.Errorf("octaves must be non-negative, got %d", p.Octaves)
	}
	if math.IsNaN(p.Persistence) || p.Persistence < 0 || p.Persistence > 1 {
		return fmt.Errorf("persistence must be within [0,1], got %v", p.Persistence)
	}
	return nil
}

// AmplitudeSum returns the theoretical maximum of the octave amplitude
// series, sum of Persistence^n for n < Octaves. Fractal output is not
// normalized internally; callers needing a bounded display range
// rescale by AmplitudeSum * MaxSample.
func (p Params) AmplitudeSum() float64 {
	sum := 0.0
	amp := 1.0
	for n := 0; n < p.Octaves; n++ {
		sum += amp
		amp *= p.Persistence
	}
	return sum
}

// Fractal composites persistence-weighted gradient-noise octaves at
// geometrically scaled frequencies. Like Sampler it is stateless
// beyond its configuration and safe for concurrent use.
type Fractal struct {
	sampler *Sampler
	params  Params
}

// NewFractal validates params and returns a compositor for the seed.
func NewFractal(seed int64, params Params) (*Fractal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Fractal{sampler: NewSampler(seed), params: params}, nil
}

// At returns the octave sum at (x, y): for each n in [0, Octaves) the
// sampler is evaluated at ((x/Scale)*2^n, (y/Scale)*2^n) and weighted
// by Persistence^n. The summed range grows with the octave count, up
// to AmplitudeSum() * MaxSample in magnitude.
//
// Cost is one gradient-noise evaluation per octave, so a sample is
// O(Octaves); rasterizing large grids with large octave counts slows
// down proportionally.
func (f *Fractal) At(x, y float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	for n := 0; n < f.params.Octaves; n++ {
		sum += f.sampler.Sample(x/f.params.Scale*freq, y/f.params.Scale*freq) * amp
		amp *= f.params.Persistence
		freq *= 2
	}
	return sum
}

// Amplitude implements Source. It returns the analytic bound on |At|.
func (f *Fractal) Amplitude() float64 {
	return f.params.AmplitudeSum() * MaxSample
}

// Params returns the compositor's configuration.
func (f *Fractal) Params() Params { return f.params }
