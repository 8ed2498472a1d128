package cmd

import (
	"testing"
)

func TestParseOrigin(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantX   float64
		wantY   float64
		wantErr bool
	}{
		{
			name:  "origin",
			input: "0,0",
		},
		{
			name:  "positive values",
			input: "12.5,640",
			wantX: 12.5,
			wantY: 640,
		},
		{
			name:  "negative values",
			input: "-100.25,-0.5",
			wantX: -100.25,
			wantY: -0.5,
		},
		{
			name:  "values with spaces",
			input: " 3 , 4 ",
			wantX: 3,
			wantY: 4,
		},
		{
			name:    "too few values",
			input:   "1",
			wantErr: true,
		},
		{
			name:    "too many values",
			input:   "1,2,3",
			wantErr: true,
		},
		{
			name:    "invalid x",
			input:   "abc,2",
			wantErr: true,
		},
		{
			name:    "invalid y",
			input:   "1,xyz",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, err := parseOrigin(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseOrigin(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrigin(%q) unexpected error: %v", tt.input, err)
			}
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("parseOrigin(%q) = (%v, %v), want (%v, %v)", tt.input, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
