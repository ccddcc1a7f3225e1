package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/anvil/internal/assets"
	"github.com/Faultbox/anvil/internal/config"
	"github.com/Faultbox/anvil/internal/logger"
	"github.com/Faultbox/anvil/internal/proposal"
	"github.com/Faultbox/anvil/internal/terrain"
	"github.com/Faultbox/anvil/pkg/formats"
)

var (
	generateConfig  string
	generateLibrary string
	generateMode    string
	generateSeed    uint64
	generateMeshes  []string
)

var generateCmd = &cobra.Command{
	Use:   "generate <request.json>",
	Short: "Generate a terrain document from a request file",
	Long: `Runs the generation pipeline locally and prints the terrain document.

Settings come from --config (or the defaults) and are overridden by flags.
Meshes given with --mesh join the library. When only --mesh is given, the
library directory is not read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(generateConfig)
		if err != nil {
			return err
		}
		if generateLibrary != "" {
			cfg.Library.Dir = generateLibrary
		}
		if generateMode != "" {
			cfg.Generation.Mode = generateMode
		}
		if generateSeed != 0 {
			cfg.Generation.Seed = generateSeed
		}

		mode, err := terrain.ParseMode(cfg.Generation.Mode)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		req, err := terrain.ParseRequest(data)
		if err != nil {
			return err
		}
		graph, err := terrain.Assemble(req)
		if err != nil {
			return err
		}
		for _, w := range graph.Warnings {
			logger.Warn("bridge endpoint", zap.String("warning", w))
		}

		library := assets.NewLibrary()
		if mode == terrain.ModeReference && (len(generateMeshes) == 0 || generateLibrary != "") {
			if _, err := library.LoadDir(cfg.Library.Dir); err != nil {
				return err
			}
		}
		for _, path := range generateMeshes {
			m, err := formats.LoadOBJ(path)
			if err != nil {
				return err
			}
			if err := library.Add(filepath.Base(path), m); err != nil {
				return err
			}
		}
		logger.Debug("library ready", zap.Strings("meshes", library.Names()))
		source, err := proposal.New(cfg.Generation.IslandSource, cfg.Generation.IslandFile)
		if err != nil {
			return err
		}

		pipeline := terrain.NewPipeline(source, library, terrain.Options{
			Mode:           mode,
			VerifyChannels: cfg.Generation.VerifyChannels,
		})

		seed := cfg.Generation.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		out, err := pipeline.Generate(context.Background(), graph, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}
		doc, err := terrain.Serialize(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(doc))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateConfig, "config", "", "Path to config file")
	generateCmd.Flags().StringVar(&generateLibrary, "library", "", "Directory of reference .obj meshes")
	generateCmd.Flags().StringVar(&generateMode, "mode", "", "Generation mode: reference or proposal")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "Random seed (0 = random)")
	generateCmd.Flags().StringArrayVar(&generateMeshes, "mesh", nil, "Extra reference .obj file (repeatable)")
}
