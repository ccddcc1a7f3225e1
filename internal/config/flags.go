package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagAddr    = flag.String("addr", "", "HTTP listen address")
	flagLibrary = flag.String("library", "", "Directory of reference .obj meshes")
	flagWatch   = flag.Bool("watch", false, "Reload the library when it changes")
	flagMode    = flag.String("mode", "", "Generation mode: reference or proposal")
	flagSeed    = flag.Uint64("seed", 0, "Fixed random seed (0 = random per request)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Server.GinMode = "debug"
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagLibrary != "" {
		cfg.Library.Dir = *flagLibrary
	}
	if *flagWatch {
		cfg.Library.Watch = true
	}
	if *flagMode != "" {
		cfg.Generation.Mode = *flagMode
	}
	if *flagSeed != 0 {
		cfg.Generation.Seed = *flagSeed
	}
}
