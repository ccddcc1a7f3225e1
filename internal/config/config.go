// Package config handles server configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/anvil/internal/logger"
	"github.com/Faultbox/anvil/internal/proposal"
	"github.com/Faultbox/anvil/internal/terrain"
)

// Config holds all server settings.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Library    LibraryConfig    `yaml:"library"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	GinMode      string        `yaml:"gin_mode"` // debug, release or test
}

// LibraryConfig holds reference mesh settings.
type LibraryConfig struct {
	Dir   string `yaml:"dir"`   // Directory of .obj reference meshes
	Watch bool   `yaml:"watch"` // Reload when the directory changes
}

// GenerationConfig holds mesh assignment settings.
type GenerationConfig struct {
	Mode             string        `yaml:"mode"`              // reference or proposal
	Seed             uint64        `yaml:"seed"`              // 0 = fresh random per request
	SimulatedLatency time.Duration `yaml:"simulated_latency"` // Delay before responding
	VerifyChannels   bool          `yaml:"verify_channels"`
	IslandSource     string        `yaml:"island_source"` // cube or file
	IslandFile       string        `yaml:"island_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // console or json
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8105",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			GinMode:      "release",
		},
		Library: LibraryConfig{
			Dir:   "IslandSet",
			Watch: false,
		},
		Generation: GenerationConfig{
			Mode:             string(terrain.ModeReference),
			Seed:             0,
			SimulatedLatency: 0,
			VerifyChannels:   false,
			IslandSource:     proposal.SourceCube,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  logger.FormatConsole,
			LogFile: "",
		},
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := terrain.ParseMode(c.Generation.Mode); err != nil {
		return err
	}
	switch c.Generation.IslandSource {
	case proposal.SourceCube:
	case proposal.SourceFile:
		if c.Generation.IslandFile == "" {
			return fmt.Errorf("island_source %q requires island_file", proposal.SourceFile)
		}
	default:
		return fmt.Errorf("unknown island_source %q", c.Generation.IslandSource)
	}
	switch c.Logging.Format {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is empty")
	}
	return nil
}
