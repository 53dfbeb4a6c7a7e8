// Package mesh provides indexed triangle meshes and multi-mesh models, each
// carrying the octrees the collision pipeline queries.
package mesh

import (
	"errors"

	"github.com/Faultbox/my3d/pkg/math"
)

// ErrInvalidIndices is returned when an index buffer is not a whole number
// of triangles or refers past the vertex buffer.
var ErrInvalidIndices = errors.New("mesh: invalid indices")

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord [2]float32
}

// Triangle is a resolved triangle in mesh space.
type Triangle [3]math.Vec3

// Normal returns the unit face normal, normalize(cross(v1-v0, v2-v0)).
// Degenerate triangles return the zero vector.
func (t Triangle) Normal() math.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Normalize()
}

// Area returns the triangle area.
func (t Triangle) Area() float32 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
}
