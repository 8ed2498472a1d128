package field

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/MeKo-Tech/noisefield/internal/noise"
)

// Spec describes a sample grid: Width×Height points starting at
// (OriginX, OriginY) in sample space, Step apart on both axes.
type Spec struct {
	Width, Height    int
	OriginX, OriginY float64
	Step             float64
}

func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", s.Step)
	}
	return nil
}

// Rasterizer evaluates a noise source over sample grids. Rows are
// evaluated in parallel; every sample is an independent pure
// evaluation, so the partitioning never affects the output.
type Rasterizer struct {
	src     noise.Source
	workers int
}

// NewRasterizer wraps src with up to workers concurrent row workers.
// workers <= 0 defaults to the CPU count.
func NewRasterizer(src noise.Source, workers int) *Rasterizer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Rasterizer{src: src, workers: workers}
}

// Generate fills a field with display-ready samples in [0, 1], rescaled
// from the source's analytic amplitude. Cancellation is checked per
// row; a cancelled context returns the context error and no field.
func (r *Rasterizer) Generate(ctx context.Context, spec Spec) (*Field, error) {
	amp := r.src.Amplitude()
	return r.generate(ctx, spec, func(v float64) float64 { return unit(v, amp) })
}

// GenerateRaw fills a field with raw, unrescaled source values.
func (r *Rasterizer) GenerateRaw(ctx context.Context, spec Spec) (*Field, error) {
	return r.generate(ctx, spec, func(v float64) float64 { return v })
}

func (r *Rasterizer) generate(ctx context.Context, spec Spec, post func(float64) float64) (*Field, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	f := New(spec.Width, spec.Height)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for y := 0; y < spec.Height; y++ {
		y := y
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			sy := spec.OriginY + float64(y)*spec.Step
			row := f.Values[y*spec.Width : (y+1)*spec.Width]
			for x := range row {
				row[x] = post(r.src.At(spec.OriginX+float64(x)*spec.Step, sy))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// unit maps a raw sample in [-amp, amp] onto [0, 1]. A zero-amplitude
// source (octave count 0) rasterizes to mid-gray.
func unit(v, amp float64) float64 {
	if amp <= 0 {
		return 0.5
	}
	u := (v/amp + 1) * 0.5
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
