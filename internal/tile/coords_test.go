package tile

import "testing"

func TestCoordsStringAndPath(t *testing.T) {
	c := NewCoords(3, 4, 7)
	if got := c.String(); got != "z3_x4_y7" {
		t.Errorf("String() = %q, want %q", got, "z3_x4_y7")
	}
	if got := c.Path("png"); got != "z3_x4_y7.png" {
		t.Errorf("Path() = %q, want %q", got, "z3_x4_y7.png")
	}
}

func TestParseCoords(t *testing.T) {
	tests := []struct {
		input   string
		want    Coords
		wantErr bool
	}{
		{input: "z3_x4_y7", want: Coords{Z: 3, X: 4, Y: 7}},
		{input: "z0_x0_y0", want: Coords{}},
		{input: "z13_x4297_y2754", want: Coords{Z: 13, X: 4297, Y: 2754}},
		{input: "3/4/7", wantErr: true},
		{input: "z3_x4", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCoords(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCoords(%q) expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCoords(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCoords(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCoordsValid(t *testing.T) {
	tests := []struct {
		c    Coords
		want bool
	}{
		{Coords{Z: 0, X: 0, Y: 0}, true},
		{Coords{Z: 0, X: 1, Y: 0}, false},
		{Coords{Z: 2, X: 3, Y: 3}, true},
		{Coords{Z: 2, X: 4, Y: 0}, false},
		{Coords{Z: 32, X: 0, Y: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestCoordsBounds(t *testing.T) {
	b := NewCoords(0, 0, 0).Bounds(256)
	if b != [4]float64{0, 0, 256, 256} {
		t.Errorf("zoom 0 bounds = %v", b)
	}

	b = NewCoords(1, 1, 0).Bounds(256)
	if b != [4]float64{128, 0, 256, 128} {
		t.Errorf("zoom 1 tile (1,0) bounds = %v", b)
	}

	// Adjacent tiles share their boundary exactly.
	left := NewCoords(3, 2, 5).Bounds(256)
	right := NewCoords(3, 3, 5).Bounds(256)
	if left[2] != right[0] {
		t.Errorf("adjacent tiles disagree on shared edge: %v vs %v", left[2], right[0])
	}
}

func TestTilesInRange(t *testing.T) {
	tiles := TilesInRange(0, 2)
	if len(tiles) != 21 {
		t.Fatalf("len(TilesInRange(0,2)) = %d, want 21", len(tiles))
	}
	if got := TileCount(0, 2); got != 21 {
		t.Errorf("TileCount(0,2) = %d, want 21", got)
	}
	for _, c := range tiles {
		if !c.Valid() {
			t.Errorf("TilesInRange produced invalid tile %v", c)
		}
	}
}
