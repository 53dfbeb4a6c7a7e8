package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	p := c.Physics
	check(p.Restitution >= 0 && p.Restitution <= 1, "physics.restitution %v not in [0, 1]", p.Restitution)
	check(p.Friction >= 0, "physics.friction %v is negative", p.Friction)
	check(p.DragCoefficient >= 0, "physics.drag_coefficient %v is negative", p.DragCoefficient)
	check(p.DragThreshold >= 0, "physics.drag_threshold %v is negative", p.DragThreshold)
	check(p.FluidDensity >= 0, "physics.fluid_density %v is negative", p.FluidDensity)
	check(p.PenetrationSlop >= 0, "physics.penetration_slop %v is negative", p.PenetrationSlop)
	check(p.ContactSkin >= 0, "physics.contact_skin %v is negative", p.ContactSkin)

	check(c.Octree.MaxDepth >= 0, "octree.max_depth %d is negative", c.Octree.MaxDepth)
	check(c.Octree.MaxObjects >= 0, "octree.max_objects %d is negative", c.Octree.MaxObjects)

	check(c.Body.Mass >= 0, "body.mass %v is negative", c.Body.Mass)
	check(c.Body.DecayRate > 0 && c.Body.DecayRate < 1, "body.decay_rate %v not in (0, 1)", c.Body.DecayRate)
	check(c.Body.MaxActorAcceleration >= 0, "body.max_actor_acceleration %v is negative", c.Body.MaxActorAcceleration)

	s := c.Simulation
	check(s.Steps >= 0, "simulation.steps %d is negative", s.Steps)
	check(s.TimeStep > 0, "simulation.time_step %v must be positive", s.TimeStep)
	check(s.Parallel >= 0, "simulation.parallel %d is negative", s.Parallel)

	check(c.Graphics.Width > 0 && c.Graphics.Height > 0,
		"graphics size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height)

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "logging.level %q unknown", c.Logging.Level)
	}
	return err
}
