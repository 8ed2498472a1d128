// Package render turns sample fields into PNG images: grayscale or
// hypsometric palettes, optional smoothing, and supersampled output.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/noisefield/internal/field"
)

// Palette names accepted by Image.
const (
	PaletteGray    = "gray"
	PaletteTerrain = "terrain"
)

// CompressionLevel maps a user-facing name to a png.CompressionLevel.
func CompressionLevel(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return 0, fmt.Errorf("invalid png compression %q: must be default, speed, best or none", name)
	}
}

// Image renders a unit-range field with the named palette.
func Image(f *field.Field, palette string) (image.Image, error) {
	switch palette {
	case "", PaletteGray:
		return Gray(f), nil
	case PaletteTerrain:
		return Terrain(f), nil
	default:
		return nil, fmt.Errorf("invalid palette %q: must be gray or terrain", palette)
	}
}

// Gray converts a unit-range field to an 8-bit grayscale image, one
// pixel per sample.
func Gray(f *field.Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetGray(x, y, color.Gray{Y: toByte(f.At(x, y))})
		}
	}
	return img
}

// terrainStops is a simple hypsometric ramp: deep water through sand,
// vegetation and rock up to snow.
var terrainStops = []struct {
	at  float64
	col color.NRGBA
}{
	{0.00, color.NRGBA{R: 18, G: 49, B: 119, A: 255}},
	{0.40, color.NRGBA{R: 62, G: 120, B: 178, A: 255}},
	{0.48, color.NRGBA{R: 218, G: 201, B: 166, A: 255}},
	{0.55, color.NRGBA{R: 112, G: 153, B: 89, A: 255}},
	{0.75, color.NRGBA{R: 128, G: 119, B: 106, A: 255}},
	{0.90, color.NRGBA{R: 236, G: 240, B: 243, A: 255}},
	{1.00, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
}

// Terrain maps a unit-range field through the hypsometric ramp.
func Terrain(f *field.Field) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetNRGBA(x, y, terrainColor(f.At(x, y)))
		}
	}
	return img
}

func terrainColor(v float64) color.NRGBA {
	if v <= terrainStops[0].at {
		return terrainStops[0].col
	}
	for i := 1; i < len(terrainStops); i++ {
		if v <= terrainStops[i].at {
			lo, hi := terrainStops[i-1], terrainStops[i]
			t := (v - lo.at) / (hi.at - lo.at)
			return color.NRGBA{
				R: mixByte(lo.col.R, hi.col.R, t),
				G: mixByte(lo.col.G, hi.col.G, t),
				B: mixByte(lo.col.B, hi.col.B, t),
				A: 255,
			}
		}
	}
	return terrainStops[len(terrainStops)-1].col
}

func mixByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Encode writes img as PNG at the given compression level.
func Encode(w io.Writer, img image.Image, level png.CompressionLevel) error {
	enc := &png.Encoder{CompressionLevel: level}
	return enc.Encode(w, img)
}

// WriteFile encodes img to path, creating parent directories as needed.
func WriteFile(path string, img image.Image, level png.CompressionLevel) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := Encode(file, img, level); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
