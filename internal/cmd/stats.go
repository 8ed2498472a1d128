package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/noisefield/internal/field"
	"github.com/MeKo-Tech/noisefield/internal/fieldstats"
	"github.com/MeKo-Tech/noisefield/internal/noise"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Sample the noise field and print distribution statistics",
	Long: `Sample a region of the noise field and print min, max, mean, standard
deviation and a value histogram. Useful for judging a parameter set
before committing to a long tile run.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("width", 256, "Sample grid width")
	statsCmd.Flags().Int("height", 256, "Sample grid height")
	statsCmd.Flags().String("origin", "0,0", "Sample-space origin: x,y")
	statsCmd.Flags().Float64("step", 1, "Sample-space distance between grid points")
	statsCmd.Flags().Int("bins", fieldstats.DefaultBins, "Number of histogram bins")
	statsCmd.Flags().IntP("workers", "w", 0, "Number of parallel raster workers (default: number of CPUs)")

	addNoiseFlags(statsCmd, "stats")
	mustBindPrefixed(statsCmd, "stats", map[string]string{
		"width":   "width",
		"height":  "height",
		"origin":  "origin",
		"step":    "step",
		"bins":    "bins",
		"workers": "workers",
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	seed, backend, params := noiseFromViper("stats")

	originX, originY, err := parseOrigin(viper.GetString("stats.origin"))
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}

	src, err := noise.NewSource(backend, seed, params)
	if err != nil {
		return err
	}

	spec := field.Spec{
		Width:   viper.GetInt("stats.width"),
		Height:  viper.GetInt("stats.height"),
		OriginX: originX,
		OriginY: originY,
		Step:    viper.GetFloat64("stats.step"),
	}

	raster := field.NewRasterizer(src, viper.GetInt("stats.workers"))
	f, err := raster.Generate(context.Background(), spec)
	if err != nil {
		return fmt.Errorf("failed to rasterize: %w", err)
	}

	summary := fieldstats.Summarize(f, viper.GetInt("stats.bins"))
	fmt.Fprintln(os.Stdout, summary.String())
	return nil
}
