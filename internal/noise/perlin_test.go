package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleCornerExactness(t *testing.T) {
	for _, seed := range []int64{0, 1, 20, -7, 1337} {
		s := NewSampler(seed)
		for cx := -5; cx <= 5; cx++ {
			for cy := -5; cy <= 5; cy++ {
				require.Zero(t, s.Sample(float64(cx), float64(cy)),
					"seed %d lattice point (%d,%d)", seed, cx, cy)
			}
		}
	}
}

func TestSampleBounded(t *testing.T) {
	s := NewSampler(1337)
	for i := 0; i < 200; i++ {
		for j := 0; j < 200; j++ {
			x := -10 + float64(i)*0.1
			y := -10 + float64(j)*0.1
			v := s.Sample(x, y)
			require.False(t, math.IsNaN(v))
			require.LessOrEqual(t, math.Abs(v), MaxSample+1e-12,
				"sample at (%v,%v) outside analytic bound", x, y)
		}
	}
}

func TestSampleDeterminism(t *testing.T) {
	s1 := NewSampler(20)
	s2 := NewSampler(20)
	for i := 0; i < 100; i++ {
		x := math.Sqrt(float64(i)) * 1.7
		y := float64(i) * 0.37
		require.Equal(t, s1.Sample(x, y), s2.Sample(x, y))
		require.Equal(t, s1.Sample(x, y), s1.Sample(x, y))
	}
}

// A small step in the input must produce a proportionally small step
// in the output, everywhere, including across cell boundaries.
func TestSampleContinuity(t *testing.T) {
	const eps = 1e-6
	// Gradient magnitude of the interpolated surface stays small on a
	// unit cell; 10 is a generous Lipschitz constant.
	const lipschitz = 10.0

	s := NewSampler(99)
	points := [][2]float64{
		{0.5, 0.5}, {0.25, 0.75}, {-3.3, 2.8}, {7.999999, 4.2}, {-0.000001, 0.5},
	}
	for _, p := range points {
		v := s.Sample(p[0], p[1])
		require.InDelta(t, v, s.Sample(p[0]+eps, p[1]), lipschitz*eps)
		require.InDelta(t, v, s.Sample(p[0], p[1]+eps), lipschitz*eps)
	}
}

func TestSampleBoundaryConvergence(t *testing.T) {
	const eps = 1e-9
	s := NewSampler(4)
	// Approach the cell boundary y=1 from both adjacent cells.
	for _, x := range []float64{0.1, 0.5, 0.9, -2.3} {
		below := s.Sample(x, 1-eps)
		above := s.Sample(x, 1+eps)
		require.InDelta(t, below, above, 1e-6, "discontinuity at cell boundary, x=%v", x)
	}
}

func TestSampleUnitRange(t *testing.T) {
	s := NewSampler(8)
	for i := 0; i < 500; i++ {
		x := float64(i) * 0.173
		y := float64(i) * 0.311
		u := s.SampleUnit(x, y)
		require.GreaterOrEqual(t, u, 0.0)
		require.LessOrEqual(t, u, 1.0)
		require.InDelta(t, (s.Sample(x, y)/MaxSample+1)*0.5, u, 1e-15)
	}
}
