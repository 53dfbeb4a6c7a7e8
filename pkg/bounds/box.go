// Package bounds provides the axis-aligned bounding box used by the
// spatial index and the collision pipeline.
package bounds

import (
	"fmt"

	"github.com/Faultbox/my3d/pkg/math"
)

// None marks an unset Tag field.
const None = -1

// Tag is a non-owning back-reference from a box to the geometry it bounds.
// It holds lookup keys into the owner's storage, never pointers.
type Tag struct {
	Mesh     int // mesh index within a model, or None
	Triangle int // triangle index within a mesh, or None
}

// NoTag is the tag of a box that bounds nothing in particular.
var NoTag = Tag{Mesh: None, Triangle: None}

// MeshTag tags a box bounding a whole mesh.
func MeshTag(mesh int) Tag {
	return Tag{Mesh: mesh, Triangle: None}
}

// TriangleTag tags a box bounding a single triangle.
func TriangleTag(triangle int) Tag {
	return Tag{Mesh: None, Triangle: triangle}
}

// HasMesh reports whether the tag refers to a mesh.
func (t Tag) HasMesh() bool { return t.Mesh >= 0 }

// HasTriangle reports whether the tag refers to a triangle.
func (t Tag) HasTriangle() bool { return t.Triangle >= 0 }

// Box is an axis-aligned bounding box. Min == Max on an axis is legal.
type Box struct {
	Min math.Vec3
	Max math.Vec3
	Tag Tag
}

// New creates an untagged box from its corners.
func New(min, max math.Vec3) Box {
	return Box{Min: min, Max: max, Tag: NoTag}
}

// FromPoints returns the smallest box enclosing every point.
// With no points it returns a degenerate box at the origin.
func FromPoints(points ...math.Vec3) Box {
	if len(points) == 0 {
		return New(math.Zero, math.Zero)
	}
	b := New(points[0], points[0])
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Union returns the smallest box enclosing a and b. The tag of a is kept.
func Union(a, b Box) Box {
	return Box{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max), Tag: a.Tag}
}

// WithTag returns a copy of b carrying tag.
func (b Box) WithTag(tag Tag) Box {
	b.Tag = tag
	return b
}

// Centre returns the midpoint of the box.
func (b Box) Centre() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b Box) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Valid reports whether every bound is finite and Min <= Max on all axes.
func (b Box) Valid() bool {
	if !b.Min.IsFinite() || !b.Max.IsFinite() {
		return false
	}
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Intersects reports whether the boxes overlap on all three axes.
// Touching faces count as intersecting.
func (b Box) Intersects(other Box) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Contains reports whether other lies entirely inside b.
func (b Box) Contains(other Box) bool {
	return b.Min.X <= other.Min.X && b.Max.X >= other.Max.X &&
		b.Min.Y <= other.Min.Y && b.Max.Y >= other.Max.Y &&
		b.Min.Z <= other.Min.Z && b.Max.Z >= other.Max.Z
}

// ContainsPoint reports whether p lies inside b, boundary included.
func (b Box) ContainsPoint(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Translated returns b shifted by offset.
func (b Box) Translated(offset math.Vec3) Box {
	return Box{Min: b.Min.Add(offset), Max: b.Max.Add(offset), Tag: b.Tag}
}

// Swept grows b so that it covers its own motion by displacement: the min
// side moves on axes where displacement is negative, the max side otherwise.
func (b Box) Swept(displacement math.Vec3) Box {
	out := b
	if displacement.X < 0 {
		out.Min.X += displacement.X
	} else {
		out.Max.X += displacement.X
	}
	if displacement.Y < 0 {
		out.Min.Y += displacement.Y
	} else {
		out.Max.Y += displacement.Y
	}
	if displacement.Z < 0 {
		out.Min.Z += displacement.Z
	} else {
		out.Max.Z += displacement.Z
	}
	return out
}

// Expanded returns b grown by margin on every side.
func (b Box) Expanded(margin float32) Box {
	m := math.Splat(margin)
	return Box{Min: b.Min.Sub(m), Max: b.Max.Add(m), Tag: b.Tag}
}

// Corners returns the 8 corners. Corner i takes Max on x when i&1,
// on y when i&2 and on z when i&4.
func (b Box) Corners() [8]math.Vec3 {
	var c [8]math.Vec3
	for i := range c {
		c[i] = pick(i, b.Min, b.Max)
	}
	return c
}

// Octant returns the i-th of the 8 equal sub-boxes split at the centre,
// using the same bit convention as Corners.
func (b Box) Octant(i int) Box {
	centre := b.Centre()
	return New(pick(i, b.Min, centre), pick(i, centre, b.Max))
}

// Support returns the corner of b that lies furthest along -dir, the
// deepest point of b against a plane facing dir.
func (b Box) Support(dir math.Vec3) math.Vec3 {
	p := b.Max
	if dir.X > 0 {
		p.X = b.Min.X
	}
	if dir.Y > 0 {
		p.Y = b.Min.Y
	}
	if dir.Z > 0 {
		p.Z = b.Min.Z
	}
	return p
}

func (b Box) String() string {
	return fmt.Sprintf("[(%g, %g, %g) (%g, %g, %g)]", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

func pick(i int, lo, hi math.Vec3) math.Vec3 {
	p := lo
	if i&1 != 0 {
		p.X = hi.X
	}
	if i&2 != 0 {
		p.Y = hi.Y
	}
	if i&4 != 0 {
		p.Z = hi.Z
	}
	return p
}
