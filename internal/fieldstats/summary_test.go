package fieldstats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/noisefield/internal/field"
)

func TestSummarizeMoments(t *testing.T) {
	f := field.New(2, 2)
	copy(f.Values, []float64{0.0, 0.5, 0.5, 1.0})

	s := Summarize(f, 4)
	require.Equal(t, 4, s.Count)
	require.Equal(t, 0.0, s.Min)
	require.Equal(t, 1.0, s.Max)
	require.InDelta(t, 0.5, s.Mean, 1e-12)
	require.InDelta(t, 0.408248, s.StdDev, 1e-5)
}

func TestSummarizeHistogram(t *testing.T) {
	f := field.New(4, 1)
	copy(f.Values, []float64{0.1, 0.1, 0.6, 1.0})

	s := Summarize(f, 4)
	require.Equal(t, []int{2, 0, 1, 1}, s.Histogram)
}

func TestSummarizeClampsOutOfRange(t *testing.T) {
	f := field.New(2, 1)
	copy(f.Values, []float64{-0.5, 1.5})

	s := Summarize(f, 4)
	require.Equal(t, []int{1, 0, 0, 1}, s.Histogram)
}

func TestSummarizeEmptyField(t *testing.T) {
	s := Summarize(&field.Field{}, 4)
	require.Zero(t, s.Count)
	require.Zero(t, s.Mean)
}

func TestSummarizeDefaultBins(t *testing.T) {
	f := field.New(1, 1)
	f.Values[0] = 0.5

	s := Summarize(f, 0)
	require.Len(t, s.Histogram, DefaultBins)
}

func TestSummaryString(t *testing.T) {
	f := field.New(4, 1)
	copy(f.Values, []float64{0.1, 0.1, 0.6, 1.0})

	out := Summarize(f, 4).String()
	require.Contains(t, out, "samples: 4")
	require.Contains(t, out, "mean:")
	require.Contains(t, out, "█")
	require.Equal(t, 4, strings.Count(out, "[0."), "one line per bin")
}
