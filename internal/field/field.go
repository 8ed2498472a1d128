// Package field provides dense scalar sample grids and the rasterizer
// that fills them from a noise source.
package field

// Field is a dense row-major grid of scalar samples: Values[y*W+x]
// holds the sample for column x of row y.
type Field struct {
	W, H   int
	Values []float64
}

// New allocates a zeroed w×h field.
func New(w, h int) *Field {
	return &Field{W: w, H: h, Values: make([]float64, w*h)}
}

// Idx returns the flat index of (x, y).
func (f *Field) Idx(x, y int) int { return y*f.W + x }

// At returns the sample at (x, y).
func (f *Field) At(x, y int) float64 { return f.Values[y*f.W+x] }

// Set stores v at (x, y).
func (f *Field) Set(x, y int, v float64) { f.Values[y*f.W+x] = v }

// MinMax returns the smallest and largest sample. An empty field
// returns (0, 0).
func (f *Field) MinMax() (min, max float64) {
	if len(f.Values) == 0 {
		return 0, 0
	}
	min, max = f.Values[0], f.Values[0]
	for _, v := range f.Values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Normalize rescales samples to [0, 1] by the observed min/max. A
// constant field becomes all 0.5.
//
// Min/max normalization is view-dependent: two fields of the same
// source normalize differently. Tiled output must rescale by the
// source amplitude instead (the rasterizer does), or tile borders
// won't line up.
func (f *Field) Normalize() {
	min, max := f.MinMax()
	span := max - min
	if span == 0 {
		for i := range f.Values {
			f.Values[i] = 0.5
		}
		return
	}
	for i := range f.Values {
		f.Values[i] = (f.Values[i] - min) / span
	}
}
