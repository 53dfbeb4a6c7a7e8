package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagScene       = flag.String("scene", "", "Scene file to load")
	flagSteps       = flag.Int("steps", 0, "Number of simulation steps")
	flagDT          = flag.Float64("dt", 0, "Simulation time step in seconds")
	flagRestitution = flag.Float64("restitution", -1, "Contact restitution in [0, 1]")
	flagFriction    = flag.Float64("friction", -1, "Contact friction coefficient")
	flagTrace       = flag.String("trace", "", "Directory for per-step trace files")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowTree = true
	}
	if *flagScene != "" {
		cfg.Simulation.Scenes = []string{*flagScene}
	}
	if *flagSteps > 0 {
		cfg.Simulation.Steps = *flagSteps
	}
	if *flagDT > 0 {
		cfg.Simulation.TimeStep = float32(*flagDT)
	}
	if *flagRestitution >= 0 {
		cfg.Physics.Restitution = float32(*flagRestitution)
	}
	if *flagFriction >= 0 {
		cfg.Physics.Friction = float32(*flagFriction)
	}
	if *flagTrace != "" {
		cfg.Simulation.Trace = *flagTrace
	}
}
