// Package tile addresses square regions of noise sample space in a
// power-of-two pyramid: zoom z splits the world into 2^z × 2^z tiles,
// the same addressing scheme slippy-map clients use.
package tile

import "fmt"

// DefaultWorldSpan is the extent of sample space covered per axis by
// the zoom-0 tile, in lattice units.
const DefaultWorldSpan = 256.0

// Coords identifies one tile (z/x/y).
type Coords struct {
	Z uint32 // zoom level
	X uint32 // column
	Y uint32 // row
}

// NewCoords creates a Coords from zoom, x, y values.
func NewCoords(z, x, y uint32) Coords {
	return Coords{Z: z, X: x, Y: y}
}

// String returns the tile coordinate as "z{zoom}_x{x}_y{y}".
func (c Coords) String() string {
	return fmt.Sprintf("z%d_x%d_y%d", c.Z, c.X, c.Y)
}

// Path returns the flat file name for this tile.
func (c Coords) Path(extension string) string {
	return fmt.Sprintf("%s.%s", c.String(), extension)
}

// ParseCoords parses a tile string like "z3_x4_y7" into Coords.
func ParseCoords(s string) (Coords, error) {
	var c Coords
	if _, err := fmt.Sscanf(s, "z%d_x%d_y%d", &c.Z, &c.X, &c.Y); err != nil {
		return c, fmt.Errorf("invalid tile coordinate format: %s", s)
	}
	return c, nil
}

// Valid reports whether X and Y fit the 2^Z × 2^Z grid at zoom Z.
func (c Coords) Valid() bool {
	if c.Z > 31 {
		return false
	}
	n := uint64(1) << c.Z
	return uint64(c.X) < n && uint64(c.Y) < n
}

// Bounds returns [minX, minY, maxX, maxY] in sample space for a world
// spanning worldSpan units per axis at zoom 0. Neighboring tiles share
// their boundary exactly, which is what keeps a rendered pyramid
// seamless.
func (c Coords) Bounds(worldSpan float64) [4]float64 {
	size := worldSpan / float64(uint64(1)<<c.Z)
	minX := float64(c.X) * size
	minY := float64(c.Y) * size
	return [4]float64{minX, minY, minX + size, minY + size}
}

// TilesInRange returns every tile of the full pyramid between the two
// zoom levels, inclusive.
func TilesInRange(zoomMin, zoomMax uint32) []Coords {
	tiles := make([]Coords, 0, TileCount(zoomMin, zoomMax))
	for z := zoomMin; z <= zoomMax; z++ {
		n := uint32(1) << z
		for x := uint32(0); x < n; x++ {
			for y := uint32(0); y < n; y++ {
				tiles = append(tiles, NewCoords(z, x, y))
			}
		}
	}
	return tiles
}

// TileCount returns the number of tiles in the pyramid between the two
// zoom levels, inclusive. Useful for progress estimation without
// allocating the tile list.
func TileCount(zoomMin, zoomMax uint32) int {
	count := 0
	for z := zoomMin; z <= zoomMax; z++ {
		n := 1 << z
		count += n * n
	}
	return count
}
