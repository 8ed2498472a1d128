package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/noisefield/internal/field"
	"github.com/MeKo-Tech/noisefield/internal/noise"
	"github.com/MeKo-Tech/noisefield/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a single noise image",
	Long: `Render a rectangular region of the noise field to one PNG file.

The region starts at --origin in sample space and covers
width*step by height*step units.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Int("width", 512, "Image width in pixels")
	renderCmd.Flags().Int("height", 512, "Image height in pixels")
	renderCmd.Flags().String("origin", "0,0", "Sample-space origin: x,y")
	renderCmd.Flags().Float64("step", 1, "Sample-space distance between pixels")
	renderCmd.Flags().String("palette", "gray", "Color palette (gray, terrain)")
	renderCmd.Flags().Float64("blur", 0, "Gaussian blur sigma applied to the image (0 disables)")
	renderCmd.Flags().Int("supersample", 1, "Render at N times the resolution and downscale")
	renderCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	renderCmd.Flags().IntP("workers", "w", 0, "Number of parallel raster workers (default: number of CPUs)")
	renderCmd.Flags().StringP("out", "o", "noise.png", "Output file path")

	addNoiseFlags(renderCmd, "render")
	mustBindPrefixed(renderCmd, "render", map[string]string{
		"width":           "width",
		"height":          "height",
		"origin":          "origin",
		"step":            "step",
		"palette":         "palette",
		"blur":            "blur",
		"supersample":     "supersample",
		"png_compression": "png-compression",
		"workers":         "workers",
		"out":             "out",
	})
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	width := viper.GetInt("render.width")
	height := viper.GetInt("render.height")
	step := viper.GetFloat64("render.step")
	palette := viper.GetString("render.palette")
	blur := viper.GetFloat64("render.blur")
	supersample := viper.GetInt("render.supersample")
	compression := viper.GetString("render.png_compression")
	workers := viper.GetInt("render.workers")
	out := viper.GetString("render.out")
	seed, backend, params := noiseFromViper("render")

	originX, originY, err := parseOrigin(viper.GetString("render.origin"))
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if supersample < 1 {
		return fmt.Errorf("supersample must be at least 1, got %d", supersample)
	}

	level, err := render.CompressionLevel(compression)
	if err != nil {
		return err
	}

	src, err := noise.NewSource(backend, seed, params)
	if err != nil {
		return err
	}

	logger.Info("Rendering noise image",
		"size", fmt.Sprintf("%dx%d", width, height),
		"origin", fmt.Sprintf("%g,%g", originX, originY),
		"step", step,
		"seed", seed,
		"backend", backend,
		"supersample", supersample,
		"out", out,
	)

	spec := field.Spec{
		Width:   width * supersample,
		Height:  height * supersample,
		OriginX: originX,
		OriginY: originY,
		Step:    step / float64(supersample),
	}

	raster := field.NewRasterizer(src, workers)
	f, err := raster.Generate(context.Background(), spec)
	if err != nil {
		return fmt.Errorf("failed to rasterize: %w", err)
	}

	img, err := render.Image(f, palette)
	if err != nil {
		return err
	}
	if blur > 0 {
		img = render.Smooth(img, float32(blur))
	}
	if supersample > 1 {
		img = render.Downscale(img, width, height)
	}

	if err := render.WriteFile(out, img, level); err != nil {
		return err
	}

	logger.Info("Image written", "path", out)
	return nil
}

// parseOrigin parses "x,y" into sample-space coordinates.
func parseOrigin(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 2 comma-separated values, got %d", len(parts))
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y: %w", err)
	}
	return x, y, nil
}
