package noise

import (
	"math"
	"testing"
)

func TestHashDeterminism(t *testing.T) {
	coords := [][2]int64{
		{0, 0}, {1, 0}, {0, 1}, {-1, -1}, {123456789, -987654321},
	}
	for _, c := range coords {
		first := Hash(42, c[0], c[1])
		for i := 0; i < 10; i++ {
			if got := Hash(42, c[0], c[1]); got != first {
				t.Fatalf("Hash(42, %d, %d) not deterministic: %v != %v", c[0], c[1], got, first)
			}
		}
	}
}

func TestHashRange(t *testing.T) {
	for x := int64(-50); x <= 50; x++ {
		for y := int64(-50); y <= 50; y++ {
			h := Hash(7, x, y)
			if h < 0 || h > 1 || math.IsNaN(h) {
				t.Fatalf("Hash(7, %d, %d) = %v, want value in [0,1]", x, y, h)
			}
		}
	}
}

// Adjacent coordinates must look independent: for independent uniform
// values the expected |a-b| is 1/3, so a mean far below that would
// indicate low-bit correlation between neighbors.
func TestHashNeighborDecorrelation(t *testing.T) {
	var sumX, sumY float64
	n := 0
	for x := int64(-32); x < 32; x++ {
		for y := int64(-32); y < 32; y++ {
			h := Hash(99, x, y)
			sumX += math.Abs(h - Hash(99, x+1, y))
			sumY += math.Abs(h - Hash(99, x, y+1))
			n++
		}
	}
	if meanX := sumX / float64(n); meanX < 0.25 {
		t.Errorf("mean |h(x,y)-h(x+1,y)| = %v, want around 1/3", meanX)
	}
	if meanY := sumY / float64(n); meanY < 0.25 {
		t.Errorf("mean |h(x,y)-h(x,y+1)| = %v, want around 1/3", meanY)
	}
}

func TestHashSeedIndependence(t *testing.T) {
	same := 0
	total := 0
	for x := int64(0); x < 64; x++ {
		for y := int64(0); y < 64; y++ {
			if Hash(1, x, y) == Hash(2, x, y) {
				same++
			}
			total++
		}
	}
	if same > total/100 {
		t.Errorf("%d of %d cells hash identically for different seeds", same, total)
	}
}
