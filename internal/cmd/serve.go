package cmd

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/noisefield/internal/pipeline"
	"github.com/MeKo-Tech/noisefield/internal/server"
	"github.com/MeKo-Tech/noisefield/internal/tile"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tiles over HTTP (optionally generating missing tiles on-demand)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("tiles-dir", "", "Directory containing tiles (defaults to --output-dir)")
	serveCmd.Flags().String("archive", "", "Serve tiles from this archive file instead of a directory")

	serveCmd.Flags().Bool("generate-missing", true, "Generate missing tiles on-demand and cache them to disk")
	serveCmd.Flags().Bool("disable-cache", false, "Always regenerate tiles (still writes to disk)")
	serveCmd.Flags().Int("max-concurrent-generations", runtime.NumCPU(), "Max concurrent tile generations (default: number of CPUs)")
	serveCmd.Flags().Duration("generation-timeout", time.Minute, "Timeout per tile generation")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served tiles")

	serveCmd.Flags().Int("tile-size", 256, "Base tile size in pixels (256; @2x requests render 512)")
	serveCmd.Flags().Float64("world-span", tile.DefaultWorldSpan, "Sample-space width covered by zoom 0")
	serveCmd.Flags().String("palette", "gray", "Color palette (gray, terrain)")
	serveCmd.Flags().Float64("blur", 0, "Gaussian blur sigma applied to tiles (0 disables)")
	serveCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	addNoiseFlags(serveCmd, "serve")
	mustBindPrefixed(serveCmd, "serve", map[string]string{
		"addr":                       "addr",
		"tiles_dir":                  "tiles-dir",
		"archive":                    "archive",
		"generate_missing":           "generate-missing",
		"disable_cache":              "disable-cache",
		"max_concurrent_generations": "max-concurrent-generations",
		"generation_timeout":         "generation-timeout",
		"cache_control":              "cache-control",
		"tile_size":                  "tile-size",
		"world_span":                 "world-span",
		"palette":                    "palette",
		"blur":                       "blur",
		"png_compression":            "png-compression",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	cacheControl := viper.GetString("serve.cache_control")

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if archivePath := viper.GetString("serve.archive"); archivePath != "" {
		h, err := server.NewArchiveHandler(server.ArchiveConfig{
			ArchivePath:  archivePath,
			CacheControl: cacheControl,
		}, logger)
		if err != nil {
			return err
		}
		defer h.Close()

		mux.Handle("/tiles/", h.Handler())
		mux.Handle("/metadata", h.MetadataHandler())

		logger.Info("tile server listening", "addr", addr, "archive", archivePath)
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		return srv.ListenAndServe()
	}

	tilesDir := viper.GetString("serve.tiles_dir")
	if tilesDir == "" {
		tilesDir = viper.GetString("output-dir")
	}
	seed, backend, params := noiseFromViper("serve")

	gen, err := pipeline.NewGenerator(pipeline.Config{
		Seed:        seed,
		Backend:     backend,
		Noise:       params,
		WorldSpan:   viper.GetFloat64("serve.world_span"),
		TileSize:    viper.GetInt("serve.tile_size"),
		Palette:     viper.GetString("serve.palette"),
		Compression: viper.GetString("serve.png_compression"),
		BlurSigma:   viper.GetFloat64("serve.blur"),
		OutputDir:   tilesDir,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	od := server.NewOnDemandTiles(gen, server.OnDemandConfig{
		TilesDir:                 tilesDir,
		CacheControl:             cacheControl,
		GenerateMissing:          viper.GetBool("serve.generate_missing"),
		DisableCache:             viper.GetBool("serve.disable_cache"),
		MaxConcurrentGenerations: viper.GetInt("serve.max_concurrent_generations"),
		GenerationTimeout:        viper.GetDuration("serve.generation_timeout"),
	}, logger)

	mux.Handle("/tiles/", od.Handler())
	mux.Handle("/status", od.StatusHandler())

	logger.Info("tile server listening",
		"addr", addr,
		"tiles_dir", tilesDir,
		"seed", seed,
		"backend", backend,
		"generate_missing", viper.GetBool("serve.generate_missing"),
	)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}
