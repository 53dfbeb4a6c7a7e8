// Package scene loads YAML scene files describing a static environment and
// the bodies moving through it, and turns them into a physics world.
package scene

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/my3d/internal/animation"
	"github.com/Faultbox/my3d/internal/physics"
)

var (
	// ErrUnknownShape is returned for a shape type other than quad, box,
	// sphere or point.
	ErrUnknownShape = errors.New("scene: unknown shape")

	// ErrInvalid is wrapped by every other validation failure.
	ErrInvalid = errors.New("scene: invalid description")
)

// Shape types.
const (
	ShapeQuad   = "quad"
	ShapeBox    = "box"
	ShapeSphere = "sphere"
	ShapePoint  = "point"
)

// Sphere tessellation used when a description leaves it out.
const (
	DefaultSphereSegments = 16
	DefaultSphereRings    = 8
)

// Description is the decoded form of a scene file.
type Description struct {
	Name        string     `yaml:"name"`
	Environment []MeshSpec `yaml:"environment"`
	Bodies      []BodySpec `yaml:"bodies"`
}

// Shape selects a primitive and its size. Only the fields of the chosen
// type are read.
type Shape struct {
	Type        string     `yaml:"type"`
	Half        float32    `yaml:"half"`
	HalfExtents [3]float32 `yaml:"half_extents"`
	Radius      float32    `yaml:"radius"`
	Segments    int        `yaml:"segments"`
	Rings       int        `yaml:"rings"`
}

// Transform places an environment mesh. Scale defaults to 1 on every axis.
type Transform struct {
	Translate [3]float32 `yaml:"translate"`
	Axis      [3]float32 `yaml:"axis"`
	Degrees   float32    `yaml:"degrees"`
	Scale     [3]float32 `yaml:"scale"`
}

// MeshSpec is one static environment mesh.
type MeshSpec struct {
	Name      string    `yaml:"name"`
	Shape     Shape     `yaml:"shape"`
	Transform Transform `yaml:"transform"`
}

// ScriptedCommand applies a move command on Repeat consecutive steps
// starting at step At.
type ScriptedCommand struct {
	At        int    `yaml:"at"`
	Direction string `yaml:"direction"`
	Repeat    int    `yaml:"repeat"`
}

// BodySpec is one moving body. Params is merged over the configured body
// defaults, so a scene only lists what it changes.
type BodySpec struct {
	Name      string            `yaml:"name"`
	Shape     Shape             `yaml:"shape"`
	Position  [3]float32        `yaml:"position"`
	Velocity  [3]float32        `yaml:"velocity"`
	Params    yaml.Node         `yaml:"params"`
	Script    []ScriptedCommand `yaml:"script"`
	Animation *animation.Clip   `yaml:"animation"`
}

// Parse decodes and validates a scene description.
func Parse(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadFile parses the scene file at path. A scene without a name is named
// after its file.
func ReadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = path
	}
	return d, nil
}

// Validate reports every problem in the description at once.
func (d *Description) Validate() error {
	var err error
	invalid := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	meshNames := make(map[string]bool)
	for i, m := range d.Environment {
		if m.Name == "" {
			invalid("environment[%d] has no name", i)
		} else if meshNames[m.Name] {
			invalid("environment mesh %q listed twice", m.Name)
		}
		meshNames[m.Name] = true
		if m.Shape.Type == ShapePoint {
			invalid("environment mesh %q cannot be a point", m.Name)
			continue
		}
		err = multierr.Append(err, m.Shape.validate(m.Name))
	}

	bodyNames := make(map[string]bool)
	for i, b := range d.Bodies {
		if b.Name == "" {
			invalid("bodies[%d] has no name", i)
		} else if bodyNames[b.Name] {
			invalid("body %q listed twice", b.Name)
		}
		bodyNames[b.Name] = true
		err = multierr.Append(err, b.Shape.validate(b.Name))
		for j, c := range b.Script {
			if _, perr := physics.ParseDirection(c.Direction); perr != nil {
				invalid("body %q script[%d]: %v", b.Name, j, perr)
			}
			if c.At < 0 || c.Repeat < 0 {
				invalid("body %q script[%d]: negative step", b.Name, j)
			}
		}
	}
	return err
}

func (s Shape) validate(owner string) error {
	switch s.Type {
	case ShapePoint:
		return nil
	case ShapeQuad:
		if s.Half <= 0 {
			return fmt.Errorf("%w: %q quad half size %v must be positive", ErrInvalid, owner, s.Half)
		}
	case ShapeBox:
		for _, h := range s.HalfExtents {
			if h < 0 {
				return fmt.Errorf("%w: %q box half extents %v are negative", ErrInvalid, owner, s.HalfExtents)
			}
		}
	case ShapeSphere:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: %q sphere radius %v must be positive", ErrInvalid, owner, s.Radius)
		}
	default:
		return fmt.Errorf("%w: %q has shape %q", ErrUnknownShape, owner, s.Type)
	}
	return nil
}
