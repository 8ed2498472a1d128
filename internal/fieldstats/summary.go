// Package fieldstats summarizes sample fields: moments and a value
// histogram, for inspecting noise configurations before a long tile
// run.
package fieldstats

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/MeKo-Tech/noisefield/internal/field"
)

// DefaultBins is the histogram resolution used by Summarize.
const DefaultBins = 16

// Summary describes the value distribution of one field.
type Summary struct {
	Count     int
	Min       float64
	Max       float64
	Mean      float64
	StdDev    float64
	Histogram []int
}

// Summarize computes a summary over all samples of f. Histogram bins
// partition [0, 1] evenly; out-of-range samples land in the edge bins.
func Summarize(f *field.Field, bins int) Summary {
	if bins <= 0 {
		bins = DefaultBins
	}

	s := Summary{
		Count:     len(f.Values),
		Histogram: make([]int, bins),
	}
	if s.Count == 0 {
		return s
	}

	s.Min, s.Max = f.MinMax()
	s.Mean = stat.Mean(f.Values, nil)
	if s.Count > 1 {
		s.StdDev = stat.StdDev(f.Values, nil)
	}

	for _, v := range f.Values {
		i := int(v * float64(bins))
		if i < 0 {
			i = 0
		}
		if i >= bins {
			i = bins - 1
		}
		s.Histogram[i]++
	}
	return s
}

// String formats the summary for terminal output, one histogram bin
// per line with a bar scaled to the largest bin.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "samples: %d\n", s.Count)
	fmt.Fprintf(&b, "min:     %.6f\n", s.Min)
	fmt.Fprintf(&b, "max:     %.6f\n", s.Max)
	fmt.Fprintf(&b, "mean:    %.6f\n", s.Mean)
	fmt.Fprintf(&b, "stddev:  %.6f\n", s.StdDev)

	peak := 0
	for _, n := range s.Histogram {
		if n > peak {
			peak = n
		}
	}
	if peak == 0 {
		return b.String()
	}

	const barWidth = 40
	bins := len(s.Histogram)
	for i, n := range s.Histogram {
		lo := float64(i) / float64(bins)
		hi := float64(i+1) / float64(bins)
		filled := int(math.Round(float64(n) / float64(peak) * barWidth))
		fmt.Fprintf(&b, "[%.2f, %.2f) %s %d\n", lo, hi, strings.Repeat("█", filled), n)
	}
	return b.String()
}
