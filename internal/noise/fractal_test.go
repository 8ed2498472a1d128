package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	valid := Params{Scale: 30, Octaves: 3, Persistence: 0.5}
	require.NoError(t, valid.Validate())
	require.NoError(t, Params{Scale: 1, Octaves: 0, Persistence: 0}.Validate())

	cases := []struct {
		name string
		p    Params
	}{
		{"zero scale", Params{Scale: 0, Octaves: 1, Persistence: 0.5}},
		{"negative scale", Params{Scale: -2, Octaves: 1, Persistence: 0.5}},
		{"NaN scale", Params{Scale: math.NaN(), Octaves: 1, Persistence: 0.5}},
		{"negative octaves", Params{Scale: 1, Octaves: -1, Persistence: 0.5}},
		{"persistence above one", Params{Scale: 1, Octaves: 1, Persistence: 1.5}},
		{"negative persistence", Params{Scale: 1, Octaves: 1, Persistence: -0.1}},
		{"NaN persistence", Params{Scale: 1, Octaves: 1, Persistence: math.NaN()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.p.Validate())
			_, err := NewFractal(1, tc.p)
			require.Error(t, err)
		})
	}
}

func TestFractalZeroOctaves(t *testing.T) {
	f, err := NewFractal(20, Params{Scale: 10, Octaves: 0, Persistence: 0.5})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.Zero(t, f.At(float64(i)*1.3, float64(i)*0.7))
	}
	require.Zero(t, f.Amplitude())
}

func TestFractalSingleOctaveMatchesSampler(t *testing.T) {
	const scale = 30.0
	f, err := NewFractal(20, Params{Scale: scale, Octaves: 1, Persistence: 0.5})
	require.NoError(t, err)
	s := NewSampler(20)
	for i := 0; i < 100; i++ {
		x := float64(i) * 2.13
		y := float64(i) * 1.91
		require.Equal(t, s.Sample(x/scale, y/scale), f.At(x, y))
	}
}

func TestFractalZeroPersistenceDegeneratesToFirstOctave(t *testing.T) {
	f, err := NewFractal(11, Params{Scale: 16, Octaves: 4, Persistence: 0})
	require.NoError(t, err)
	single, err := NewFractal(11, Params{Scale: 16, Octaves: 1, Persistence: 0})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		x := float64(i) * 0.83
		y := float64(i) * 1.27
		require.Equal(t, single.At(x, y), f.At(x, y))
	}
}

// Integer-cell corners of a single-octave field are exact zeros: the
// scaled coordinates land on lattice points.
func TestFractalCornerScenario(t *testing.T) {
	f, err := NewFractal(20, Params{Scale: 30, Octaves: 1, Persistence: 0.5})
	require.NoError(t, err)
	require.Zero(t, f.At(0, 0))
	require.Zero(t, f.At(30, 0))
	require.Zero(t, f.At(0, 30))
}

func TestFractalOctaveSumIdentity(t *testing.T) {
	const (
		seed        = int64(20)
		scale       = 53.0
		octaves     = 3
		persistence = 0.5
	)
	f, err := NewFractal(seed, Params{Scale: scale, Octaves: octaves, Persistence: persistence})
	require.NoError(t, err)
	s := NewSampler(seed)

	for _, p := range [][2]float64{{0, 0}, {7.3, 11.9}, {-42.1, 100.6}} {
		want := 0.0
		amp := 1.0
		freq := 1.0
		for n := 0; n < octaves; n++ {
			want += s.Sample(p[0]/scale*freq, p[1]/scale*freq) * amp
			amp *= persistence
			freq *= 2
		}
		require.Equal(t, want, f.At(p[0], p[1]), "at (%v,%v)", p[0], p[1])
	}
	// All octaves hit lattice corners at the origin.
	require.Zero(t, f.At(0, 0))
}

func TestAmplitudeSum(t *testing.T) {
	require.Zero(t, Params{Scale: 1, Octaves: 0, Persistence: 0.5}.AmplitudeSum())
	require.Equal(t, 1.0, Params{Scale: 1, Octaves: 1, Persistence: 0.5}.AmplitudeSum())
	require.Equal(t, 1.75, Params{Scale: 1, Octaves: 3, Persistence: 0.5}.AmplitudeSum())
	require.Equal(t, 1.0, Params{Scale: 1, Octaves: 5, Persistence: 0}.AmplitudeSum())
}

func TestFractalBoundedByAmplitude(t *testing.T) {
	f, err := NewFractal(3, Params{Scale: 8, Octaves: 4, Persistence: 0.7})
	require.NoError(t, err)
	bound := f.Amplitude()
	for i := 0; i < 100; i++ {
		for j := 0; j < 100; j++ {
			v := f.At(float64(i)*0.37, float64(j)*0.53)
			require.LessOrEqual(t, math.Abs(v), bound+1e-12)
		}
	}
}
