package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/noisefield/internal/noise"
)

// addNoiseFlags registers the noise parameter flags shared by every
// rendering command, bound under the given viper prefix.
func addNoiseFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().Int64("seed", 1337, "Deterministic noise seed")
	cmd.Flags().String("backend", "lattice", "Noise backend (lattice, simplex, perlin)")
	cmd.Flags().Float64("scale", 64, "Feature size: sample-space units per lattice cell")
	cmd.Flags().Int("octaves", 4, "Number of fractal octaves")
	cmd.Flags().Float64("persistence", 0.5, "Per-octave amplitude falloff in [0,1]")

	mustBindPrefixed(cmd, prefix, map[string]string{
		"seed":        "seed",
		"backend":     "backend",
		"scale":       "scale",
		"octaves":     "octaves",
		"persistence": "persistence",
	})
}

// noiseFromViper reads the flags registered by addNoiseFlags.
func noiseFromViper(prefix string) (seed int64, backend string, params noise.Params) {
	seed = viper.GetInt64(prefix + ".seed")
	backend = viper.GetString(prefix + ".backend")
	params = noise.Params{
		Scale:       viper.GetFloat64(prefix + ".scale"),
		Octaves:     viper.GetInt(prefix + ".octaves"),
		Persistence: viper.GetFloat64(prefix + ".persistence"),
	}
	return seed, backend, params
}

func mustBindPrefixed(cmd *cobra.Command, prefix string, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(prefix+"."+key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}
}
