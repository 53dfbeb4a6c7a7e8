package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Physics.Gravity != [3]float32{0, -9.8, 0} {
		t.Errorf("expected gravity (0,-9.8,0), got %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.Restitution != 0.9 {
		t.Errorf("expected restitution 0.9, got %f", cfg.Physics.Restitution)
	}
	if cfg.Physics.Friction != 0.9 {
		t.Errorf("expected friction 0.9, got %f", cfg.Physics.Friction)
	}
	if cfg.Physics.DragThreshold != 3 {
		t.Errorf("expected drag threshold 3, got %f", cfg.Physics.DragThreshold)
	}

	if cfg.Octree.MaxDepth != 5 || cfg.Octree.MaxObjects != 4 {
		t.Errorf("expected octree 5/4, got %d/%d", cfg.Octree.MaxDepth, cfg.Octree.MaxObjects)
	}

	if cfg.Body.Mass != 1 {
		t.Errorf("expected body mass 1, got %f", cfg.Body.Mass)
	}
	if cfg.Body.DecayRate != 0.99 {
		t.Errorf("expected decay rate 0.99, got %f", cfg.Body.DecayRate)
	}

	if cfg.Simulation.Steps != 600 {
		t.Errorf("expected 600 steps, got %d", cfg.Simulation.Steps)
	}
	if cfg.Simulation.Parallel != 1 {
		t.Errorf("expected parallel 1, got %d", cfg.Simulation.Parallel)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestPhysicsParams(t *testing.T) {
	cfg := Default()
	cfg.Physics.Gravity = [3]float32{0, -1.6, 0}
	cfg.Physics.FluidDensity = 1000

	p := cfg.Physics.Params()
	if p.Gravity.Y != -1.6 {
		t.Errorf("expected gravity y -1.6, got %f", p.Gravity.Y)
	}
	if p.FluidDensity != 1000 {
		t.Errorf("expected fluid density 1000, got %f", p.FluidDensity)
	}
	if p.Restitution != cfg.Physics.Restitution {
		t.Errorf("restitution not carried over: %f", p.Restitution)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
physics:
  gravity: [0, -3.7, 0]
  restitution: 0.5
  friction: 0.2
  position_correction: true

octree:
  max_depth: 8
  max_objects: 2

body:
  mass: 4
  decay_rate: 0.9

simulation:
  scenes: ["a.yaml", "b.yaml"]
  steps: 120
  time_step: 0.01
  parallel: 2

logging:
  level: "debug"
  log_file: "sim.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Physics.Gravity[1] != -3.7 {
		t.Errorf("expected gravity y -3.7, got %f", cfg.Physics.Gravity[1])
	}
	if cfg.Physics.Restitution != 0.5 {
		t.Errorf("expected restitution 0.5, got %f", cfg.Physics.Restitution)
	}
	if !cfg.Physics.PositionCorrection {
		t.Error("expected position correction to be enabled")
	}
	// Unset keys keep their defaults.
	if cfg.Physics.DragCoefficient != 0.1 {
		t.Errorf("expected drag coefficient 0.1, got %f", cfg.Physics.DragCoefficient)
	}

	if cfg.Octree.MaxDepth != 8 || cfg.Octree.MaxObjects != 2 {
		t.Errorf("expected octree 8/2, got %d/%d", cfg.Octree.MaxDepth, cfg.Octree.MaxObjects)
	}
	if cfg.Body.Mass != 4 {
		t.Errorf("expected mass 4, got %f", cfg.Body.Mass)
	}
	if cfg.Body.MaxActorAcceleration != 15 {
		t.Errorf("expected max actor acceleration 15, got %f", cfg.Body.MaxActorAcceleration)
	}

	if len(cfg.Simulation.Scenes) != 2 || cfg.Simulation.Scenes[1] != "b.yaml" {
		t.Errorf("unexpected scenes %v", cfg.Simulation.Scenes)
	}
	if cfg.Simulation.Steps != 120 {
		t.Errorf("expected 120 steps, got %d", cfg.Simulation.Steps)
	}
	if cfg.Simulation.TimeStep != 0.01 {
		t.Errorf("expected time step 0.01, got %f", cfg.Simulation.TimeStep)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sim.log" {
		t.Errorf("expected log file 'sim.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
physics:
  restitution: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Physics.Restitution = 1.5
	cfg.Physics.Friction = -1
	cfg.Simulation.TimeStep = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if n := len(multierr.Errors(err)); n != 4 {
		t.Errorf("expected 4 problems, got %d: %v", n, err)
	}
}

func TestValidateDecayRate(t *testing.T) {
	tests := []struct {
		rate  float32
		valid bool
	}{
		{0, false},
		{1, false},
		{1.5, false},
		{-0.1, false},
		{0.5, true},
		{0.99, true},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Body.DecayRate = tt.rate
		err := cfg.Validate()
		if tt.valid && err != nil {
			t.Errorf("decay_rate %v: unexpected error %v", tt.rate, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalid) {
			t.Errorf("decay_rate %v: expected ErrInvalid, got %v", tt.rate, err)
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("my3d.yaml", []byte("simulation:\n  steps: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find my3d.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Physics.Restitution = 0.25
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Physics.Restitution != 0.25 {
		t.Errorf("expected restitution 0.25 after reload, got %f", loaded.Physics.Restitution)
	}
}

func TestSaveGraphicsKeepsOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  restitution: 0.3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	g := Default().Graphics
	g.Width, g.Height = 800, 600
	g.ShowTree = true
	if err := SaveGraphics(path, g); err != nil {
		t.Fatalf("SaveGraphics: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Graphics != g {
		t.Errorf("expected graphics %+v, got %+v", g, loaded.Graphics)
	}
	if loaded.Physics.Restitution != 0.3 {
		t.Errorf("expected restitution 0.3 to survive, got %f", loaded.Physics.Restitution)
	}
}

func TestSaveGraphicsCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new", "config.yaml")

	g := Default().Graphics
	g.Width = 1024
	if err := SaveGraphics(path, g); err != nil {
		t.Fatalf("SaveGraphics: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Graphics.Width != 1024 {
		t.Errorf("expected width 1024, got %d", loaded.Graphics.Width)
	}
}

func TestSaveGraphicsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	g := Default().Graphics
	g.Width = 0
	if err := SaveGraphics(path, g); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file written, stat returned %v", err)
	}
}

func TestSavePath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())

	if got, want := SavePath(), filepath.Join(ConfigDir(), "config.yaml"); got != want {
		t.Errorf("expected %s with no config file, got %s", want, got)
	}

	if err := os.WriteFile("my3d.yaml", []byte("simulation:\n  steps: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if got := SavePath(); got != "./my3d.yaml" {
		t.Errorf("expected ./my3d.yaml, got %s", got)
	}

	*flagConfig = "explicit.yaml"
	defer func() { *flagConfig = "" }()
	if got := SavePath(); got != "explicit.yaml" {
		t.Errorf("expected explicit.yaml, got %s", got)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.ShowTree {
					t.Error("expected octree overlay to be enabled with debug flag")
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "scene flag",
			setup: func() {
				*flagScene = "drop.yaml"
			},
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Simulation.Scenes) != 1 || cfg.Simulation.Scenes[0] != "drop.yaml" {
					t.Errorf("expected scenes [drop.yaml], got %v", cfg.Simulation.Scenes)
				}
			},
			teardown: func() {
				*flagScene = ""
			},
		},
		{
			name: "steps and dt flags",
			setup: func() {
				*flagSteps = 30
				*flagDT = 0.02
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Steps != 30 {
					t.Errorf("expected 30 steps, got %d", cfg.Simulation.Steps)
				}
				if cfg.Simulation.TimeStep != 0.02 {
					t.Errorf("expected time step 0.02, got %f", cfg.Simulation.TimeStep)
				}
			},
			teardown: func() {
				*flagSteps = 0
				*flagDT = 0
			},
		},
		{
			name: "zero restitution flag",
			setup: func() {
				*flagRestitution = 0
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Physics.Restitution != 0 {
					t.Errorf("expected restitution 0, got %f", cfg.Physics.Restitution)
				}
				if cfg.Physics.Friction != 0.9 {
					t.Errorf("expected friction unchanged, got %f", cfg.Physics.Friction)
				}
			},
			teardown: func() {
				*flagRestitution = -1
			},
		},
		{
			name: "friction and trace flags",
			setup: func() {
				*flagFriction = 0.3
				*flagTrace = "traces"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Physics.Friction != 0.3 {
					t.Errorf("expected friction 0.3, got %f", cfg.Physics.Friction)
				}
				if cfg.Simulation.Trace != "traces" {
					t.Errorf("expected trace dir 'traces', got %s", cfg.Simulation.Trace)
				}
			},
			teardown: func() {
				*flagFriction = -1
				*flagTrace = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulation:
  steps: 100
  time_step: 0.005
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagSteps = 50
	defer func() {
		*flagConfig = ""
		*flagSteps = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Steps come from the flag, the time step from the file.
	if cfg.Simulation.Steps != 50 {
		t.Errorf("expected 50 steps from flag, got %d", cfg.Simulation.Steps)
	}
	if cfg.Simulation.TimeStep != 0.005 {
		t.Errorf("expected time step 0.005 from file, got %f", cfg.Simulation.TimeStep)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("physics:\n  restitution: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
