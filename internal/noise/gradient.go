package noise

const invSqrt2 = 0.7071067811865476

// gradients holds the 8 cardinal and intercardinal unit directions a
// lattice corner can be assigned.
var gradients = [8][2]float64{
	{1, 0},
	{invSqrt2, invSqrt2},
	{0, 1},
	{-invSqrt2, invSqrt2},
	{-1, 0},
	{-invSqrt2, -invSqrt2},
	{0, -1},
	{invSqrt2, -invSqrt2},
}

// Offsets applied to the lattice point before hashing, so the gradient
// choice is decorrelated from callers hashing the raw coordinates.
const (
	gradientOffX = 374761393
	gradientOffY = 668265263
)

// GradientAt returns the unit gradient vector assigned to lattice
// point (cx, cy) for the given seed. The assignment is a pure function
// of (seed, cx, cy).
func GradientAt(seed, cx, cy int64) (gx, gy float64) {
	h := Hash(seed, cx+gradientOffX, cy+gradientOffY)
	// Hash can return exactly 1.0, which would floor to one past the
	// end of the table. Clamp to the last entry.
	i := int(h * float64(len(gradients)))
	if i >= len(gradients) {
		i = len(gradients) - 1
	}
	g := gradients[i]
	return g[0], g[1]
}
