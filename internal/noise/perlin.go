package noise

import "math"

// MaxSample is the analytic bound on |Sampler.Sample| for unit-length
// gradients on a unit lattice in 2D: sqrt(2)/2. Callers that need a
// bounded display range divide by this instead of clamping; the
// sampler itself never clamps.
const MaxSample = invSqrt2

// Sampler evaluates gradient noise for a fixed seed. It carries no
// state beyond the seed, so a single Sampler may be shared freely
// between goroutines.
type Sampler struct {
	seed int64
}

// NewSampler returns a sampler bound to the given seed. Two samplers
// with different seeds produce statistically independent fields; the
// same seed reproduces the same field exactly.
func NewSampler(seed int64) *Sampler {
	return &Sampler{seed: seed}
}

// Seed returns the seed the sampler was created with.
func (s *Sampler) Seed() int64 { return s.seed }

// Sample returns the noise value at (x, y), in [-MaxSample, MaxSample].
// The value at every integer lattice point is exactly 0: the offset
// from the enclosing corner is the zero vector, and the faded weights
// select that corner's dot product alone.
func (s *Sampler) Sample(x, y float64) float64 {
	cx := int64(math.Floor(x))
	cy := int64(math.Floor(y))
	fx := x - float64(cx)
	fy := y - float64(cy)

	g00x, g00y := GradientAt(s.seed, cx, cy)
	g10x, g10y := GradientAt(s.seed, cx+1, cy)
	g01x, g01y := GradientAt(s.seed, cx, cy+1)
	g11x, g11y := GradientAt(s.seed, cx+1, cy+1)

	// Dot product of each corner gradient with the corner-to-point
	// offset vector.
	d00 := g00x*fx + g00y*fy
	d10 := g10x*(fx-1) + g10y*fy
	d01 := g01x*fx + g01y*(fy-1)
	d11 := g11x*(fx-1) + g11y*(fy-1)

	u := fade(fx)
	v := fade(fy)

	return lerp(lerp(d00, d10, u), lerp(d01, d11, u), v)
}

// SampleUnit rescales Sample into [0, 1] for display use.
func (s *Sampler) SampleUnit(x, y float64) float64 {
	return (s.Sample(x, y)/MaxSample + 1) * 0.5
}

// fade is the quintic ease curve 6t^5 - 15t^4 + 10t^3. Its first and
// second derivatives vanish at 0 and 1, which removes the grid-aligned
// creases plain linear weights leave at cell boundaries.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
