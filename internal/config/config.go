// Package config handles simulation configuration loading and management.
package config

import (
	"github.com/Faultbox/my3d/internal/physics"
	"github.com/Faultbox/my3d/pkg/math"
	"github.com/Faultbox/my3d/pkg/octree"
)

// Config holds all simulation settings.
type Config struct {
	Physics    PhysicsConfig      `yaml:"physics"`
	Octree     octree.Config      `yaml:"octree"`
	Body       physics.BodyParams `yaml:"body"`
	Simulation SimulationConfig   `yaml:"simulation"`
	Graphics   GraphicsConfig     `yaml:"graphics"`
	Logging    LoggingConfig      `yaml:"logging"`
}

// PhysicsConfig holds world-wide physics settings.
type PhysicsConfig struct {
	Gravity            [3]float32 `yaml:"gravity"`
	DragCoefficient    float32    `yaml:"drag_coefficient"`
	DragThreshold      float32    `yaml:"drag_threshold"`
	Friction           float32    `yaml:"friction"`
	Restitution        float32    `yaml:"restitution"`
	FluidDensity       float32    `yaml:"fluid_density"`
	PenetrationSlop    float32    `yaml:"penetration_slop"`
	ContactSkin        float32    `yaml:"contact_skin"`
	PositionCorrection bool       `yaml:"position_correction"`
}

// Params converts the settings to world parameters.
func (p PhysicsConfig) Params() physics.Params {
	return physics.Params{
		Gravity:            math.Vec3{X: p.Gravity[0], Y: p.Gravity[1], Z: p.Gravity[2]},
		DragCoefficient:    p.DragCoefficient,
		DragThreshold:      p.DragThreshold,
		Friction:           p.Friction,
		Restitution:        p.Restitution,
		FluidDensity:       p.FluidDensity,
		PenetrationSlop:    p.PenetrationSlop,
		ContactSkin:        p.ContactSkin,
		PositionCorrection: p.PositionCorrection,
	}
}

// SimulationConfig holds headless run settings.
type SimulationConfig struct {
	Scenes   []string `yaml:"scenes"`    // Scene files to run
	Steps    int      `yaml:"steps"`     // Steps per scene
	TimeStep float32  `yaml:"time_step"` // Seconds per step
	Trace    string   `yaml:"trace"`     // Directory for trace files, empty disables tracing
	Parallel int      `yaml:"parallel"`  // Scenes run at once
}

// GraphicsConfig holds viewer display settings.
type GraphicsConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	VSync     bool    `yaml:"vsync"`
	FOV       float32 `yaml:"fov"`
	ShowTree  bool    `yaml:"show_tree"`
	ShowBoxes bool    `yaml:"show_boxes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	params := physics.DefaultParams()
	return &Config{
		Physics: PhysicsConfig{
			Gravity:            params.Gravity.Array(),
			DragCoefficient:    params.DragCoefficient,
			DragThreshold:      params.DragThreshold,
			Friction:           params.Friction,
			Restitution:        params.Restitution,
			PenetrationSlop:    params.PenetrationSlop,
			ContactSkin:        params.ContactSkin,
			PositionCorrection: params.PositionCorrection,
		},
		Octree: octree.DefaultConfig(),
		Body:   physics.DefaultBodyParams(),
		Simulation: SimulationConfig{
			Steps:    600,
			TimeStep: 1.0 / 60,
			Parallel: 1,
		},
		Graphics: GraphicsConfig{
			Width:     1280,
			Height:    720,
			VSync:     true,
			FOV:       60,
			ShowTree:  false,
			ShowBoxes: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
