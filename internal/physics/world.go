// Package physics moves bodies through a static environment. Every step
// recomputes environment forces, queries the environment octrees with the
// body's swept bounding box, and resolves triangle contacts by adjusting
// acceleration and velocity before integrating.
package physics

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/my3d/internal/mesh"
	"github.com/Faultbox/my3d/pkg/math"
)

var (
	// ErrBodyNotFound is returned when looking up a name the World does not hold.
	ErrBodyNotFound = errors.New("physics: body not found")
	// ErrDuplicateBody is returned when adding a body under a name already in use.
	ErrDuplicateBody = errors.New("physics: duplicate body name")
)

// World defaults.
const (
	DefaultDragCoefficient = 0.1
	DefaultDragThreshold   = 3.0
	DefaultFriction        = 0.9
	DefaultRestitution     = 0.9
	DefaultPenetrationSlop = 0.01
	DefaultContactSkin     = 0.01

	// tangentEpsilon is the squared tangential speed below which contacts
	// produce no friction.
	tangentEpsilon = 1e-6
)

// DefaultGravity is the default gravity acceleration.
var DefaultGravity = math.Vec3{Y: -9.8}

// Params holds world-wide simulation settings.
type Params struct {
	Gravity         math.Vec3
	DragCoefficient float32
	DragThreshold   float32
	Friction        float32
	Restitution     float32
	// FluidDensity enables buoyancy for bodies with a volume. Zero disables it.
	FluidDensity       float32
	PenetrationSlop    float32
	PositionCorrection bool
	// ContactSkin pads the swept box so that a body resting within the
	// trapezoidal prediction error of a surface still touches it.
	ContactSkin float32
}

// DefaultParams returns the default world settings.
func DefaultParams() Params {
	return Params{
		Gravity:            DefaultGravity,
		DragCoefficient:    DefaultDragCoefficient,
		DragThreshold:      DefaultDragThreshold,
		Friction:           DefaultFriction,
		Restitution:        DefaultRestitution,
		PenetrationSlop:    DefaultPenetrationSlop,
		PositionCorrection: true,
		ContactSkin:        DefaultContactSkin,
	}
}

// StepReport describes what one body saw during one step.
type StepReport struct {
	Body               string
	CandidateMeshes    int
	CandidateTriangles int
	Contacts           int
	Corrected          bool
}

// World owns the static environment and the bodies moving through it.
// It is not safe for concurrent use.
type World struct {
	env    *mesh.Model
	params Params
	log    *zap.Logger

	bodies map[string]*Body
	order  []*Body

	contacts []contact
	reports  []StepReport
}

// NewWorld creates a world over env. The environment octrees are built by
// the mesh package and never change. A nil logger disables logging.
func NewWorld(env *mesh.Model, params Params, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		env:    env,
		params: params,
		log:    log,
		bodies: make(map[string]*Body),
	}
	if env == nil || env.TriangleCount() == 0 {
		log.Warn("environment has no triangles, bodies will never collide")
	} else {
		log.Info("world created",
			zap.String("environment", env.Name()),
			zap.Int("meshes", len(env.Meshes())),
			zap.Int("triangles", env.TriangleCount()),
			zap.Int("nodes", env.Index().NodeCount()))
	}
	return w
}

// Environment returns the static environment model.
func (w *World) Environment() *mesh.Model { return w.env }

// Params returns the world settings.
func (w *World) Params() Params { return w.params }

// AddBody registers b under its name.
func (w *World) AddBody(b *Body) error {
	if _, ok := w.bodies[b.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, b.Name())
	}
	w.bodies[b.Name()] = b
	w.order = append(w.order, b)
	w.log.Debug("body added", zap.String("body", b.Name()), zap.Stringer("bounds", b.WorldBounds()))
	return nil
}

// Body returns the body with the given name.
func (w *World) Body(name string) (*Body, error) {
	b, ok := w.bodies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBodyNotFound, name)
	}
	return b, nil
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []*Body { return w.order }

// Update steps every body by dt in insertion order. A non-positive dt
// does nothing. The returned reports are reused by the next call.
func (w *World) Update(dt float32) []StepReport {
	if !(dt > 0) {
		return nil
	}
	w.reports = w.reports[:0]
	for _, b := range w.order {
		w.reports = append(w.reports, w.Step(b, dt))
	}
	return w.reports
}

// Step runs the full pipeline for a single body.
func (w *World) Step(b *Body, dt float32) StepReport {
	report := StepReport{Body: b.Name()}

	b.envAcc = w.environmentForces(b)

	trial := b.velocity.Add(b.Acceleration().Scale(dt))
	displacement := b.velocity.Add(trial).Scale(dt * 0.5)
	swept := b.SweptBounds(displacement).Expanded(w.params.ContactSkin)

	w.contacts = w.contacts[:0]
	if w.env != nil {
		w.collide(b, swept, &report)
	}
	report.Contacts = len(w.contacts)

	b.Integrate(dt)
	if w.params.PositionCorrection && len(w.contacts) > 0 {
		report.Corrected = w.correct(b)
	}
	b.Decay()

	b.grounded = false
	if len(w.contacts) > 0 {
		b.airTime = 0
		for _, c := range w.contacts {
			if c.normal.Y > groundedNormalY {
				b.grounded = true
				break
			}
		}
	} else {
		b.airTime += dt
	}

	w.log.Debug("step",
		zap.String("body", b.Name()),
		zap.Int("meshes", report.CandidateMeshes),
		zap.Int("triangles", report.CandidateTriangles),
		zap.Int("contacts", report.Contacts),
		zap.Float32("y", b.position.Y),
		zap.Float32("vy", b.velocity.Y))
	return report
}

// environmentForces returns gravity plus drag and buoyancy, as accelerations.
func (w *World) environmentForces(b *Body) math.Vec3 {
	acc := w.params.Gravity
	mass := b.params.Mass
	acc = acc.Add(Drag(w.params.DragCoefficient, w.params.DragThreshold, b.velocity).Scale(1 / mass))
	if w.params.FluidDensity > 0 && b.params.Volume > 0 {
		acc = acc.Add(Buoyancy(w.params.FluidDensity, b.params.Volume, w.params.Gravity).Scale(1 / mass))
	}
	return acc
}
