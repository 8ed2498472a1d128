// Package pipeline wires the noise source, rasterizer and renderer
// into a single tile generation step.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MeKo-Tech/noisefield/internal/field"
	"github.com/MeKo-Tech/noisefield/internal/noise"
	"github.com/MeKo-Tech/noisefield/internal/render"
	"github.com/MeKo-Tech/noisefield/internal/tile"
)

// Folder layouts for file output.
const (
	FolderFlat   = "flat"   // outputDir/z3_x4_y7.png
	FolderNested = "nested" // outputDir/3/4/7.png
)

// DefaultTileSize is the pixel edge length of a generated tile.
const DefaultTileSize = 256

// TileWriter receives encoded tiles instead of the filesystem.
// Implemented by archive.Writer.
type TileWriter interface {
	WriteTile(z, x, y int, pngData []byte) error
}

// Config configures a Generator.
type Config struct {
	Seed    int64
	Backend string
	Noise   noise.Params

	// WorldSpan is the sample-space width and height covered by zoom 0.
	// Zero selects tile.DefaultWorldSpan.
	WorldSpan float64

	TileSize        int
	Palette         string
	Compression     string
	BlurSigma       float64
	OutputDir       string
	FolderStructure string

	// Writer, when set, receives encoded tiles and no files are
	// written.
	Writer TileWriter

	// RasterWorkers bounds row parallelism inside one tile. Zero means
	// one worker per CPU; tile-level parallelism comes from the worker
	// pool, so 1 is the right value under it.
	RasterWorkers int
}

// Generator produces one PNG tile per coordinate, deterministically.
type Generator struct {
	raster *field.Rasterizer
	logger *slog.Logger
	cfg    Config
	level  png.CompressionLevel
}

// NewGenerator validates the configuration and prepares a generator.
func NewGenerator(cfg Config, logger *slog.Logger) (*Generator, error) {
	if cfg.TileSize == 0 {
		cfg.TileSize = DefaultTileSize
	}
	if cfg.TileSize < 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", cfg.TileSize)
	}
	if cfg.WorldSpan == 0 {
		cfg.WorldSpan = tile.DefaultWorldSpan
	}
	if cfg.WorldSpan < 0 {
		return nil, fmt.Errorf("world span must be positive, got %v", cfg.WorldSpan)
	}
	switch cfg.FolderStructure {
	case "", FolderFlat:
		cfg.FolderStructure = FolderFlat
	case FolderNested:
	default:
		return nil, fmt.Errorf("invalid folder structure %q: must be flat or nested", cfg.FolderStructure)
	}
	switch cfg.Palette {
	case "", render.PaletteGray, render.PaletteTerrain:
	default:
		return nil, fmt.Errorf("invalid palette %q: must be gray or terrain", cfg.Palette)
	}

	level, err := render.CompressionLevel(cfg.Compression)
	if err != nil {
		return nil, err
	}

	src, err := noise.NewSource(cfg.Backend, cfg.Seed, cfg.Noise)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:    cfg,
		raster: field.NewRasterizer(src, cfg.RasterWorkers),
		level:  level,
		logger: logger,
	}, nil
}

// Generate renders one tile and writes it to the configured sink. The
// returned path identifies the tile: a file path for directory output,
// the tile name for archive output. Existing files are reused unless
// force is set; suffix "@2x" doubles the pixel resolution.
func (g *Generator) Generate(ctx context.Context, coords tile.Coords, force bool, suffix string) (string, error) {
	if !coords.Valid() {
		return "", fmt.Errorf("invalid tile coordinates %s", coords)
	}

	size := g.cfg.TileSize
	if suffix == "@2x" {
		size *= 2
	}

	var outPath string
	if g.cfg.Writer == nil {
		outPath = g.tilePath(coords, suffix)
		if !force {
			if _, err := os.Stat(outPath); err == nil {
				g.log().Debug("tile exists, skipping", "coords", coords.String(), "path", outPath)
				return outPath, nil
			}
		}
	}

	img, err := g.renderTile(ctx, coords, size)
	if err != nil {
		return "", err
	}

	if g.cfg.Writer != nil {
		var buf bytes.Buffer
		if err := render.Encode(&buf, img, g.level); err != nil {
			return "", fmt.Errorf("failed to encode tile %s: %w", coords, err)
		}
		if err := g.cfg.Writer.WriteTile(int(coords.Z), int(coords.X), int(coords.Y), buf.Bytes()); err != nil {
			return "", fmt.Errorf("failed to store tile %s: %w", coords, err)
		}
		return coords.String() + suffix, nil
	}

	if err := render.WriteFile(outPath, img, g.level); err != nil {
		return "", err
	}
	g.log().Debug("wrote tile", "coords", coords.String(), "path", outPath)
	return outPath, nil
}

func (g *Generator) renderTile(ctx context.Context, coords tile.Coords, size int) (image.Image, error) {
	bounds := coords.Bounds(g.cfg.WorldSpan)
	spec := field.Spec{
		Width:   size,
		Height:  size,
		OriginX: bounds[0],
		OriginY: bounds[1],
		Step:    (bounds[2] - bounds[0]) / float64(size),
	}

	f, err := g.raster.Generate(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize tile %s: %w", coords, err)
	}

	img, err := render.Image(f, g.cfg.Palette)
	if err != nil {
		return nil, err
	}
	if g.cfg.BlurSigma > 0 {
		img = render.Smooth(img, float32(g.cfg.BlurSigma))
	}
	return img, nil
}

func (g *Generator) tilePath(coords tile.Coords, suffix string) string {
	if g.cfg.FolderStructure == FolderNested {
		name := strconv.FormatUint(uint64(coords.Y), 10) + suffix + ".png"
		return filepath.Join(g.cfg.OutputDir,
			strconv.FormatUint(uint64(coords.Z), 10),
			strconv.FormatUint(uint64(coords.X), 10),
			name)
	}
	name := coords.String() + suffix + ".png"
	return filepath.Join(g.cfg.OutputDir, name)
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
