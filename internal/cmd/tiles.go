package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/noisefield/internal/archive"
	"github.com/MeKo-Tech/noisefield/internal/pipeline"
	"github.com/MeKo-Tech/noisefield/internal/tile"
	"github.com/MeKo-Tech/noisefield/internal/worker"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Generate a tile pyramid",
	Long: `Generate noise tiles for a zoom range, either as a folder of PNG
files or as a single SQLite archive.

With --tile, only the named tile (for example z3_x2_y5) is generated.`,
	RunE: runTiles,
}

func init() {
	rootCmd.AddCommand(tilesCmd)

	tilesCmd.Flags().String("tile", "", "Generate a single tile (e.g. z3_x2_y5) instead of a zoom range")
	tilesCmd.Flags().Int("zoom-min", 0, "Minimum zoom level")
	tilesCmd.Flags().Int("zoom-max", 4, "Maximum zoom level")
	tilesCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	tilesCmd.Flags().Bool("progress", true, "Show progress bar")
	tilesCmd.Flags().Bool("allow-failures", false, "Continue even if some tiles fail")
	tilesCmd.Flags().Bool("force", false, "Regenerate tiles that already exist")
	tilesCmd.Flags().Bool("hidpi", false, "Also generate 2x (@2x) tiles")

	tilesCmd.Flags().Int("tile-size", 256, "Tile size in pixels")
	tilesCmd.Flags().Float64("world-span", tile.DefaultWorldSpan, "Sample-space width covered by zoom 0")
	tilesCmd.Flags().String("palette", "gray", "Color palette (gray, terrain)")
	tilesCmd.Flags().Float64("blur", 0, "Gaussian blur sigma applied to tiles (0 disables)")
	tilesCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	tilesCmd.Flags().String("format", "folder", "Output format: folder or archive")
	tilesCmd.Flags().String("output-file", "", "Archive file path for --format=archive (e.g. tiles.mbtiles)")
	tilesCmd.Flags().String("folder-structure", "flat", "Folder layout: flat (z{z}_x{x}_y{y}.png) or nested ({z}/{x}/{y}.png)")

	addNoiseFlags(tilesCmd, "tiles")
	mustBindPrefixed(tilesCmd, "tiles", map[string]string{
		"tile":             "tile",
		"zoom_min":         "zoom-min",
		"zoom_max":         "zoom-max",
		"workers":          "workers",
		"progress":         "progress",
		"allow_failures":   "allow-failures",
		"force":            "force",
		"hidpi":            "hidpi",
		"tile_size":        "tile-size",
		"world_span":       "world-span",
		"palette":          "palette",
		"blur":             "blur",
		"png_compression":  "png-compression",
		"format":           "format",
		"output_file":      "output-file",
		"folder_structure": "folder-structure",
	})
}

func runTiles(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	single := viper.GetString("tiles.tile")
	zoomMin := viper.GetInt("tiles.zoom_min")
	zoomMax := viper.GetInt("tiles.zoom_max")
	workers := viper.GetInt("tiles.workers")
	showProgress := viper.GetBool("tiles.progress")
	allowFailures := viper.GetBool("tiles.allow_failures")
	force := viper.GetBool("tiles.force")
	hidpi := viper.GetBool("tiles.hidpi")
	format := viper.GetString("tiles.format")
	outputFile := viper.GetString("tiles.output_file")
	outputDir := viper.GetString("output-dir")
	seed, backend, params := noiseFromViper("tiles")

	cfg := pipeline.Config{
		Seed:            seed,
		Backend:         backend,
		Noise:           params,
		WorldSpan:       viper.GetFloat64("tiles.world_span"),
		TileSize:        viper.GetInt("tiles.tile_size"),
		Palette:         viper.GetString("tiles.palette"),
		Compression:     viper.GetString("tiles.png_compression"),
		BlurSigma:       viper.GetFloat64("tiles.blur"),
		OutputDir:       outputDir,
		FolderStructure: viper.GetString("tiles.folder_structure"),
		// Parallelism comes from the worker pool; keep rasterization
		// single threaded per tile.
		RasterWorkers: 1,
	}

	if single != "" {
		return runSingleTile(cfg, single, force, hidpi)
	}

	if zoomMin < 0 || zoomMax < 0 {
		return fmt.Errorf("zoom levels must be non-negative")
	}
	if zoomMin > zoomMax {
		return fmt.Errorf("--zoom-min (%d) must be <= --zoom-max (%d)", zoomMin, zoomMax)
	}

	switch format {
	case "folder":
	case "archive":
		if outputFile == "" {
			return fmt.Errorf("--output-file is required when using --format=archive")
		}
	default:
		return fmt.Errorf("invalid format %q: must be 'folder' or 'archive'", format)
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tiles := tile.TilesInRange(uint32(zoomMin), uint32(zoomMax))

	logger.Info("Starting tile generation",
		"zoom_range", fmt.Sprintf("%d-%d", zoomMin, zoomMax),
		"tiles", len(tiles),
		"hidpi", hidpi,
		"workers", workers,
		"format", format,
		"seed", seed,
		"backend", cfg.Backend,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	meta := archive.Metadata{
		Name:        "noisefield",
		Description: "Deterministic noise tiles",
		Version:     "1.0",
		MinZoom:     zoomMin,
		MaxZoom:     zoomMax,
		Seed:        seed,
		Backend:     cfg.Backend,
		Scale:       params.Scale,
		Octaves:     params.Octaves,
		Persistence: params.Persistence,
	}

	runPass := func(cfg pipeline.Config, suffix, archivePath string) error {
		if format == "archive" {
			w, err := archive.NewWriter(archivePath, meta)
			if err != nil {
				return fmt.Errorf("failed to create archive: %w", err)
			}
			defer w.Close()
			cfg.Writer = w
		}

		gen, err := pipeline.NewGenerator(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to init generator: %w", err)
		}

		tasks := make([]worker.Task, 0, len(tiles))
		for _, coords := range tiles {
			tasks = append(tasks, worker.Task{Coords: coords, Force: force, Suffix: suffix})
		}

		progress := worker.NewProgress(len(tasks), showProgress)
		pool := worker.New(worker.Config{
			Workers:    workers,
			Generator:  gen,
			OnProgress: progress.Callback(),
		})

		results := pool.Run(ctx, tasks)
		progress.Done()

		var failed int
		for _, r := range results {
			if r.Err != nil {
				failed++
				logger.Error("Tile generation failed", "coords", r.Task.Coords.String(), "suffix", r.Task.Suffix, "error", r.Err)
			}
		}
		logger.Info(progress.Summary())

		if failed > 0 {
			if allowFailures {
				logger.Warn("Some tiles failed, continuing due to --allow-failures", "failed_count", failed)
				return nil
			}
			return fmt.Errorf("%d tiles failed to generate", failed)
		}
		return nil
	}

	if err := runPass(cfg, "", outputFile); err != nil {
		return err
	}

	if hidpi {
		logger.Info("Generating HiDPI tiles", "count", len(tiles))
		hidpiFile := outputFile
		if format == "archive" {
			hidpiFile = strings.TrimSuffix(outputFile, ".mbtiles") + "@2x.mbtiles"
		}
		if err := runPass(cfg, "@2x", hidpiFile); err != nil {
			return err
		}
	}

	return nil
}

func runSingleTile(cfg pipeline.Config, name string, force, hidpi bool) error {
	coords, err := tile.ParseCoords(name)
	if err != nil {
		return fmt.Errorf("invalid tile %q: %w", name, err)
	}

	gen, err := pipeline.NewGenerator(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	path, err := gen.Generate(context.Background(), coords, force, "")
	if err != nil {
		return fmt.Errorf("failed to generate tile: %w", err)
	}
	logger.Info("Tile generated", "coords", coords.String(), "path", path)

	if hidpi {
		path2x, err := gen.Generate(context.Background(), coords, force, "@2x")
		if err != nil {
			return fmt.Errorf("failed to generate hidpi tile: %w", err)
		}
		logger.Info("HiDPI tile generated", "coords", coords.String(), "path", path2x)
	}

	return nil
}
