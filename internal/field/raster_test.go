package field

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/noisefield/internal/noise"
)

func testSource(t *testing.T) noise.Source {
	t.Helper()
	src, err := noise.NewFractal(1337, noise.Params{Scale: 8, Octaves: 3, Persistence: 0.5})
	require.NoError(t, err)
	return src
}

func TestGenerateDimensionsAndRange(t *testing.T) {
	r := NewRasterizer(testSource(t), 4)
	f, err := r.Generate(context.Background(), Spec{Width: 32, Height: 16, Step: 1})
	require.NoError(t, err)
	require.Equal(t, 32, f.W)
	require.Equal(t, 16, f.H)
	require.Len(t, f.Values, 32*16)
	for _, v := range f.Values {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestGenerateSpecValidation(t *testing.T) {
	r := NewRasterizer(testSource(t), 1)
	_, err := r.Generate(context.Background(), Spec{Width: 0, Height: 4, Step: 1})
	require.Error(t, err)
	_, err = r.Generate(context.Background(), Spec{Width: 4, Height: 4, Step: 0})
	require.Error(t, err)
	_, err = r.Generate(context.Background(), Spec{Width: 4, Height: -1, Step: 1})
	require.Error(t, err)
}

// The worker count must never change the output.
func TestGenerateWorkerCountIndependence(t *testing.T) {
	spec := Spec{Width: 40, Height: 40, OriginX: -7.5, OriginY: 3.25, Step: 0.37}
	serial, err := NewRasterizer(testSource(t), 1).Generate(context.Background(), spec)
	require.NoError(t, err)
	parallel, err := NewRasterizer(testSource(t), 8).Generate(context.Background(), spec)
	require.NoError(t, err)
	require.Equal(t, serial.Values, parallel.Values)
}

func TestGenerateRawMatchesSource(t *testing.T) {
	src := testSource(t)
	r := NewRasterizer(src, 2)
	spec := Spec{Width: 8, Height: 8, OriginX: 1.5, OriginY: -2.5, Step: 0.5}
	f, err := r.GenerateRaw(context.Background(), spec)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := src.At(1.5+float64(x)*0.5, -2.5+float64(y)*0.5)
			require.Equal(t, want, f.At(x, y))
		}
	}
}

func TestGenerateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRasterizer(testSource(t), 2)
	_, err := r.Generate(ctx, Spec{Width: 64, Height: 64, Step: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateZeroAmplitudeSource(t *testing.T) {
	src, err := noise.NewFractal(1, noise.Params{Scale: 8, Octaves: 0, Persistence: 0.5})
	require.NoError(t, err)
	f, err := NewRasterizer(src, 1).Generate(context.Background(), Spec{Width: 4, Height: 4, Step: 1})
	require.NoError(t, err)
	for _, v := range f.Values {
		require.Equal(t, 0.5, v)
	}
}
