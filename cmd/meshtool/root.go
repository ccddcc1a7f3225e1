package main

import (
	"github.com/spf13/cobra"

	"github.com/Faultbox/anvil/internal/logger"
)

var (
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meshtool",
	Short: "Mesh and terrain utility",
	Long: `meshtool works with Wavefront meshes and terrain requests without a server.

Examples:
  meshtool info IslandSet/1.obj
  meshtool encode IslandSet/1.obj > 1.bits.json
  meshtool decode 1.bits.json > 1.obj
  meshtool wire IslandSet/1.obj --pos 1,0,1
  meshtool generate request.json --library IslandSet --seed 7
  meshtool config init ./config.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if flagVerbose {
			level = "debug"
		}
		return logger.Init(level, logger.FormatConsole, "")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(wireCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
}
