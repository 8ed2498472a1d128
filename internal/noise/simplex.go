package noise

import (
	"math"
	"math/rand"
)

// Simplex is a seamless fractal simplex source. Sample coordinates are
// mapped onto two circles in 4D simplex space, so the field is
// periodic with period Scale in both axes; a tile rasterized over
// exactly one period wraps without a visible seam, which is what the
// texture tooling uses it for.
//
// Unlike Fractal it keeps a shuffled permutation table, built once at
// construction from the seed and read-only afterwards.
type Simplex struct {
	perm   [512]uint8
	params Params
}

// NewSimplex validates params and builds the permutation table for the
// seed.
func NewSimplex(seed int64, params Params) (*Simplex, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Simplex{params: params}
	r := rand.New(rand.NewSource(seed))
	p := make([]uint8, 256)
	for i := range p {
		p[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := r.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	for i := 0; i < 512; i++ {
		s.perm[i] = p[i&255]
	}
	return s, nil
}

// At returns the normalized octave sum at (x, y), in [-1, 1].
func (s *Simplex) At(x, y float64) float64 {
	u := x / s.params.Scale
	v := y / s.params.Scale

	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := 1.0
	for n := 0; n < s.params.Octaves; n++ {
		sum += s.seamless2D(u, v, freq) * amp
		norm += amp
		amp *= s.params.Persistence
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Amplitude implements Source. The octave sum is normalized in At, so
// the bound is 1 whenever any octave contributes.
func (s *Simplex) Amplitude() float64 {
	if s.params.Octaves == 0 {
		return 0
	}
	return 1
}

// Params returns the source's configuration.
func (s *Simplex) Params() Params { return s.params }

// seamless2D maps (u, v) onto two orthogonal circles and evaluates 4D
// simplex noise there. Both axes wrap with period 1.
func (s *Simplex) seamless2D(u, v, freq float64) float64 {
	theta := 2 * math.Pi * u
	phi := 2 * math.Pi * v
	return s.noise4D(
		math.Cos(theta)*freq,
		math.Sin(theta)*freq,
		math.Cos(phi)*freq,
		math.Sin(phi)*freq,
	)
}

var simplexGrad4 = [32][4]float64{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

func fastFloor(x float64) int {
	if x >= 0 {
		return int(x)
	}
	return int(x) - 1
}

func dot4(g [4]float64, x, y, z, w float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z + g[3]*w
}

// noise4D is classic 4D simplex noise over the shuffled permutation
// table, scaled to roughly [-1, 1].
func (s *Simplex) noise4D(x, y, z, w float64) float64 {
	const f4 = 0.30901699437494745 // (sqrt(5) - 1) / 4
	const g4 = 0.1381966011250105  // (5 - sqrt(5)) / 20

	t := (x + y + z + w) * f4
	i := fastFloor(x + t)
	j := fastFloor(y + t)
	k := fastFloor(z + t)
	l := fastFloor(w + t)

	t0 := float64(i+j+k+l) * g4
	x0 := x - (float64(i) - t0)
	y0 := y - (float64(j) - t0)
	z0 := z - (float64(k) - t0)
	w0 := w - (float64(l) - t0)

	// Rank the offsets to pick the simplex traversal order.
	var rx, ry, rz, rw int
	gt := func(a, b float64, ra, rb *int) {
		if a > b {
			*ra++
		} else {
			*rb++
		}
	}
	gt(x0, y0, &rx, &ry)
	gt(x0, z0, &rx, &rz)
	gt(x0, w0, &rx, &rw)
	gt(y0, z0, &ry, &rz)
	gt(y0, w0, &ry, &rw)
	gt(z0, w0, &rz, &rw)

	step := func(rank, threshold int) int {
		if rank >= threshold {
			return 1
		}
		return 0
	}
	i1, j1, k1, l1 := step(rx, 3), step(ry, 3), step(rz, 3), step(rw, 3)
	i2, j2, k2, l2 := step(rx, 2), step(ry, 2), step(rz, 2), step(rw, 2)
	i3, j3, k3, l3 := step(rx, 1), step(ry, 1), step(rz, 1), step(rw, 1)

	corners := [5][4]float64{
		{x0, y0, z0, w0},
		{x0 - float64(i1) + g4, y0 - float64(j1) + g4, z0 - float64(k1) + g4, w0 - float64(l1) + g4},
		{x0 - float64(i2) + 2*g4, y0 - float64(j2) + 2*g4, z0 - float64(k2) + 2*g4, w0 - float64(l2) + 2*g4},
		{x0 - float64(i3) + 3*g4, y0 - float64(j3) + 3*g4, z0 - float64(k3) + 3*g4, w0 - float64(l3) + 3*g4},
		{x0 - 1 + 4*g4, y0 - 1 + 4*g4, z0 - 1 + 4*g4, w0 - 1 + 4*g4},
	}

	ii, jj, kk, ll := i&255, j&255, k&255, l&255
	gi := [5]uint8{
		s.perm[ii+int(s.perm[jj+int(s.perm[kk+int(s.perm[ll])])])] % 32,
		s.perm[ii+i1+int(s.perm[jj+j1+int(s.perm[kk+k1+int(s.perm[ll+l1])])])] % 32,
		s.perm[ii+i2+int(s.perm[jj+j2+int(s.perm[kk+k2+int(s.perm[ll+l2])])])] % 32,
		s.perm[ii+i3+int(s.perm[jj+j3+int(s.perm[kk+k3+int(s.perm[ll+l3])])])] % 32,
		s.perm[ii+1+int(s.perm[jj+1+int(s.perm[kk+1+int(s.perm[ll+1])])])] % 32,
	}

	total := 0.0
	for c := 0; c < 5; c++ {
		p := corners[c]
		att := 0.6 - p[0]*p[0] - p[1]*p[1] - p[2]*p[2] - p[3]*p[3]
		if att > 0 {
			att *= att
			total += att * att * dot4(simplexGrad4[gi[c]], p[0], p[1], p[2], p[3])
		}
	}
	return 27 * total
}
