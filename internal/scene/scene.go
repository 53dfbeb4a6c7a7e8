package scene

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/my3d/internal/animation"
	"github.com/Faultbox/my3d/internal/mesh"
	"github.com/Faultbox/my3d/internal/physics"
	"github.com/Faultbox/my3d/pkg/math"
	"github.com/Faultbox/my3d/pkg/octree"
)

// Options carries the configured defaults a scene is built with.
type Options struct {
	Octree  octree.Config
	Physics physics.Params
	Body    physics.BodyParams
}

// DefaultOptions returns the package defaults of every collaborator.
func DefaultOptions() Options {
	return Options{
		Octree:  octree.DefaultConfig(),
		Physics: physics.DefaultParams(),
		Body:    physics.DefaultBodyParams(),
	}
}

type script struct {
	body     *physics.Body
	dir      physics.Direction
	from, to int
}

// Scene is a built world plus the scripted input and animation that drive
// it step by step.
type Scene struct {
	name      string
	world     *physics.World
	scripts   []script
	animators map[string]*animation.Animator
	step      int
	log       *zap.Logger
}

// Load reads and builds the scene file at path.
func Load(path string, opts Options, log *zap.Logger) (*Scene, error) {
	d, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(d, opts, log)
}

// Build creates the environment model, the world and its bodies.
func Build(d *Description, opts Options, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("scene", d.Name))

	meshes := make([]*mesh.Mesh, 0, len(d.Environment))
	for _, spec := range d.Environment {
		m, err := spec.Shape.build(spec.Name, opts.Octree)
		if err != nil {
			return nil, fmt.Errorf("environment mesh %s: %w", spec.Name, err)
		}
		if m, err = m.Transformed(spec.Transform.Matrix()); err != nil {
			return nil, fmt.Errorf("environment mesh %s: %w", spec.Name, err)
		}
		meshes = append(meshes, m)
	}
	env, err := mesh.NewModel("environment", meshes, opts.Octree)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		name:      d.Name,
		world:     physics.NewWorld(env, opts.Physics, log.Named("physics")),
		animators: make(map[string]*animation.Animator),
		log:       log,
	}

	for _, spec := range d.Bodies {
		if err := s.addBody(spec, opts); err != nil {
			return nil, fmt.Errorf("body %s: %w", spec.Name, err)
		}
	}

	log.Info("scene built",
		zap.Int("meshes", len(meshes)),
		zap.Int("bodies", len(d.Bodies)),
		zap.Int("scripted", len(s.scripts)))
	return s, nil
}

func (s *Scene) addBody(spec BodySpec, opts Options) error {
	var model *mesh.Model
	m, err := spec.Shape.build(spec.Name, opts.Octree)
	if err != nil {
		return err
	}
	if m != nil {
		if model, err = mesh.Single(m, opts.Octree); err != nil {
			return err
		}
	}

	params := opts.Body
	if !spec.Params.IsZero() {
		if err := spec.Params.Decode(&params); err != nil {
			return fmt.Errorf("params: %w", err)
		}
		if params.DecayRate <= 0 || params.DecayRate >= 1 {
			return fmt.Errorf("%w: decay_rate %v not in (0, 1)", ErrInvalid, params.DecayRate)
		}
	}

	b := physics.NewBody(spec.Name, model, vec(spec.Position), params)
	b.SetVelocity(vec(spec.Velocity))
	if err := s.world.AddBody(b); err != nil {
		return err
	}

	for _, c := range spec.Script {
		dir, err := physics.ParseDirection(c.Direction)
		if err != nil {
			return err
		}
		s.scripts = append(s.scripts, script{body: b, dir: dir, from: c.At, to: c.At + max(c.Repeat, 1)})
	}

	if spec.Animation != nil {
		s.animators[spec.Name] = animation.NewAnimator(animation.NewNode(spec.Name), spec.Animation)
	}
	return nil
}

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

// World returns the physics world.
func (s *Scene) World() *physics.World { return s.world }

// StepCount returns how many steps have been advanced.
func (s *Scene) StepCount() int { return s.step }

// Animator returns the render animation of the named body, if it has one.
func (s *Scene) Animator(body string) (*animation.Animator, bool) {
	a, ok := s.animators[body]
	return a, ok
}

// Advance applies the commands scripted for the current step, steps the
// world by dt and advances every animator. A non-positive dt does nothing.
func (s *Scene) Advance(dt float32) []physics.StepReport {
	if !(dt > 0) {
		return nil
	}
	for _, sc := range s.scripts {
		if s.step >= sc.from && s.step < sc.to {
			sc.body.ApplyCommand(sc.dir)
		}
	}
	reports := s.world.Update(dt)
	for _, a := range s.animators {
		a.Update(float64(dt))
	}
	s.step++
	return reports
}

// RenderPose returns the pose of a body with its animation applied on top.
func (s *Scene) RenderPose(b *physics.Body) math.Mat4 {
	pose := b.Pose()
	if a, ok := s.animators[b.Name()]; ok {
		pose = pose.Mul(a.Root())
	}
	return pose
}

// Matrix returns translate * rotate * scale.
func (t Transform) Matrix() math.Mat4 {
	scale := t.Scale
	if scale == [3]float32{} {
		scale = [3]float32{1, 1, 1}
	}
	m := math.Translate(t.Translate[0], t.Translate[1], t.Translate[2])
	if axis := vec(t.Axis); t.Degrees != 0 && axis.LengthSquared() > 0 {
		m = m.Mul(math.RotateAxis(axis.Normalize(), t.Degrees*gomath.Pi/180))
	}
	return m.Mul(math.Scale(scale[0], scale[1], scale[2]))
}

// build returns nil for a point shape.
func (sh Shape) build(name string, cfg octree.Config) (*mesh.Mesh, error) {
	switch sh.Type {
	case ShapePoint:
		return nil, nil
	case ShapeQuad:
		return mesh.Quad(name, sh.Half, cfg)
	case ShapeBox:
		return mesh.Box(name, vec(sh.HalfExtents), cfg)
	case ShapeSphere:
		segments, rings := sh.Segments, sh.Rings
		if segments == 0 {
			segments = DefaultSphereSegments
		}
		if rings == 0 {
			rings = DefaultSphereRings
		}
		return mesh.Sphere(name, sh.Radius, segments, rings, cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, sh.Type)
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
