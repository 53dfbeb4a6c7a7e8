package physics

import (
	"fmt"

	"github.com/Faultbox/my3d/internal/mesh"
	"github.com/Faultbox/my3d/pkg/bounds"
	"github.com/Faultbox/my3d/pkg/math"
)

// Direction is a discrete movement command.
type Direction int

// Movement commands.
const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

var directionNames = [...]string{"forward", "backward", "left", "right", "up", "down"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection returns the direction with the given name.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Body defaults.
const (
	DefaultMass                 = 1.0
	DefaultActorIncrement       = 1.0
	DefaultMaxActorAcceleration = 15.0
	DefaultDecayRate            = 0.99
)

// BodyParams tunes a single body. Zero fields take the defaults, as does a
// DecayRate outside (0, 1).
type BodyParams struct {
	Mass                 float32 `yaml:"mass"`
	ActorIncrement       float32 `yaml:"actor_increment"`
	MaxActorAcceleration float32 `yaml:"max_actor_acceleration"`
	DecayRate            float32 `yaml:"decay_rate"`
	// Volume enables buoyancy when the world has a fluid density.
	Volume float32 `yaml:"volume"`
}

// DefaultBodyParams returns the default body tuning.
func DefaultBodyParams() BodyParams {
	return BodyParams{
		Mass:                 DefaultMass,
		ActorIncrement:       DefaultActorIncrement,
		MaxActorAcceleration: DefaultMaxActorAcceleration,
		DecayRate:            DefaultDecayRate,
	}
}

func (p BodyParams) withDefaults() BodyParams {
	d := DefaultBodyParams()
	if p.Mass <= 0 {
		p.Mass = d.Mass
	}
	if p.ActorIncrement <= 0 {
		p.ActorIncrement = d.ActorIncrement
	}
	if p.MaxActorAcceleration <= 0 {
		p.MaxActorAcceleration = d.MaxActorAcceleration
	}
	if p.DecayRate <= 0 || p.DecayRate >= 1 {
		p.DecayRate = d.DecayRate
	}
	return p
}

// Body is a movable object with two acceleration channels: actor
// acceleration driven by commands, which persists and decays, and
// environment acceleration, which the World recomputes every step.
type Body struct {
	name   string
	model  *mesh.Model
	params BodyParams

	position math.Vec3
	velocity math.Vec3
	actorAcc math.Vec3
	envAcc   math.Vec3

	right math.Vec3
	up    math.Vec3
	front math.Vec3

	airTime  float32
	grounded bool
}

// NewBody creates a body at rest. The model's bounds, translated to the
// body position, are the body's collision volume. A nil model makes the
// body a point.
func NewBody(name string, model *mesh.Model, position math.Vec3, params BodyParams) *Body {
	return &Body{
		name:     name,
		model:    model,
		params:   params.withDefaults(),
		position: position,
		right:    math.UnitX,
		up:       math.UnitY,
		front:    math.UnitZ.Neg(),
	}
}

// Name returns the body name.
func (b *Body) Name() string { return b.name }

// Model returns the body's model, which may be nil.
func (b *Body) Model() *mesh.Model { return b.model }

// Params returns the effective tuning.
func (b *Body) Params() BodyParams { return b.params }

// Position returns the body origin in world space.
func (b *Body) Position() math.Vec3 { return b.position }

// SetPosition teleports the body.
func (b *Body) SetPosition(p math.Vec3) { b.position = p }

// Velocity returns the linear velocity.
func (b *Body) Velocity() math.Vec3 { return b.velocity }

// SetVelocity overrides the linear velocity.
func (b *Body) SetVelocity(v math.Vec3) { b.velocity = v }

// ActorAcceleration returns the command-driven acceleration.
func (b *Body) ActorAcceleration() math.Vec3 { return b.actorAcc }

// EnvironmentAcceleration returns the acceleration from the last step's
// gravity, drag and contacts.
func (b *Body) EnvironmentAcceleration() math.Vec3 { return b.envAcc }

// AirTime returns the time since the body last touched the environment.
func (b *Body) AirTime() float32 { return b.airTime }

// Grounded reports whether the last step had a contact with an upward
// facing surface.
func (b *Body) Grounded() bool { return b.grounded }

// Basis returns the orientation vectors.
func (b *Body) Basis() (right, up, front math.Vec3) { return b.right, b.up, b.front }

// SetBasis sets the orientation vectors directly.
func (b *Body) SetBasis(right, up, front math.Vec3) {
	b.right, b.up, b.front = right, up, front
}

// SetView takes the orientation from rows 0, 1 and 2 of a view matrix.
func (b *Body) SetView(view math.Mat4) {
	b.right = view.Row(0)
	b.up = view.Row(1)
	b.front = view.Row(2)
}

// Pose returns the body's model matrix: columns right, up, front, position.
func (b *Body) Pose() math.Mat4 {
	return math.FromBasis(b.right, b.up, b.front, b.position)
}

// LocalBounds returns the model bounds in body space.
func (b *Body) LocalBounds() bounds.Box {
	if b.model == nil {
		return bounds.New(math.Zero, math.Zero)
	}
	return b.model.Bounds().WithTag(bounds.NoTag)
}

// WorldBounds returns the body's bounding box at its current position.
// Orientation is ignored.
func (b *Body) WorldBounds() bounds.Box {
	return b.LocalBounds().Translated(b.position)
}

// SweptBounds returns the world bounds grown to cover a move by displacement.
func (b *Body) SweptBounds(displacement math.Vec3) bounds.Box {
	return b.WorldBounds().Swept(displacement)
}

// ApplyCommand adds one increment of thrust in the given direction.
// Horizontal moves use the front and right vectors flattened onto the
// ground plane. The result is clamped to MaxActorAcceleration.
func (b *Body) ApplyCommand(d Direction) {
	var dir math.Vec3
	switch d {
	case Forward:
		dir = b.front.Horizontal()
	case Backward:
		dir = b.front.Horizontal().Neg()
	case Left:
		dir = b.right.Horizontal().Neg()
	case Right:
		dir = b.right.Horizontal()
	case Up:
		dir = math.UnitY
	case Down:
		dir = math.UnitY.Neg()
	}
	if dir.LengthSquared() == 0 {
		return
	}

	b.actorAcc = b.actorAcc.Add(dir.Normalize().Scale(b.params.ActorIncrement))
	if b.actorAcc.Length() > b.params.MaxActorAcceleration {
		b.actorAcc = b.actorAcc.Normalize().Scale(b.params.MaxActorAcceleration)
	}
}

// Decay shrinks the actor acceleration by DecayRate.
func (b *Body) Decay() {
	if b.actorAcc.LengthSquared() > 0 {
		b.actorAcc = b.actorAcc.Scale(b.params.DecayRate)
	}
}

// Acceleration returns the sum of both channels.
func (b *Body) Acceleration() math.Vec3 {
	return b.actorAcc.Add(b.envAcc)
}

// Integrate advances the body by dt with semi-implicit Euler: velocity
// first, then position from the new velocity.
func (b *Body) Integrate(dt float32) {
	b.velocity = b.velocity.Add(b.Acceleration().Scale(dt))
	b.position = b.position.Add(b.velocity.Scale(dt))
}

func (b *Body) String() string {
	return fmt.Sprintf("%s pos=(%.3f, %.3f, %.3f) vel=(%.3f, %.3f, %.3f)",
		b.name, b.position.X, b.position.Y, b.position.Z, b.velocity.X, b.velocity.Y, b.velocity.Z)
}
