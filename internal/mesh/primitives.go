package mesh

import (
	gomath "math"

	"github.com/Faultbox/my3d/pkg/math"
	"github.com/Faultbox/my3d/pkg/octree"
)

// Quad builds a flat square on the y=0 plane spanning [-half, half] on x
// and z, facing +Y.
func Quad(name string, half float32, cfg octree.Config) (*Mesh, error) {
	vertices := []Vertex{
		{Position: math.Vec3{X: -half, Z: -half}, Normal: math.UnitY, TexCoord: [2]float32{0, 0}},
		{Position: math.Vec3{X: -half, Z: half}, Normal: math.UnitY, TexCoord: [2]float32{0, 1}},
		{Position: math.Vec3{X: half, Z: half}, Normal: math.UnitY, TexCoord: [2]float32{1, 1}},
		{Position: math.Vec3{X: half, Z: -half}, Normal: math.UnitY, TexCoord: [2]float32{1, 0}},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return New(name, vertices, indices, cfg)
}

// boxFaces lists each face normal with two tangents whose cross product
// is the normal, so (0,1,2) (0,2,3) winds outward.
var boxFaces = [6][3]math.Vec3{
	{math.UnitX, math.UnitY, math.UnitZ},
	{math.UnitX.Neg(), math.UnitZ, math.UnitY},
	{math.UnitY, math.UnitZ, math.UnitX},
	{math.UnitY.Neg(), math.UnitX, math.UnitZ},
	{math.UnitZ, math.UnitX, math.UnitY},
	{math.UnitZ.Neg(), math.UnitY, math.UnitX},
}

// Box builds an axis-aligned box centred on the origin with outward
// facing triangles. Each face has its own four vertices.
func Box(name string, halfExtents math.Vec3, cfg octree.Config) (*Mesh, error) {
	scale := func(v math.Vec3) math.Vec3 {
		return math.Vec3{X: v.X * halfExtents.X, Y: v.Y * halfExtents.Y, Z: v.Z * halfExtents.Z}
	}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range boxFaces {
		n := f[0]
		c, u, v := scale(n), scale(f[1]), scale(f[2])
		base := uint32(len(vertices))
		vertices = append(vertices,
			Vertex{Position: c.Sub(u).Sub(v), Normal: n, TexCoord: [2]float32{0, 0}},
			Vertex{Position: c.Add(u).Sub(v), Normal: n, TexCoord: [2]float32{1, 0}},
			Vertex{Position: c.Add(u).Add(v), Normal: n, TexCoord: [2]float32{1, 1}},
			Vertex{Position: c.Sub(u).Add(v), Normal: n, TexCoord: [2]float32{0, 1}},
		)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return New(name, vertices, indices, cfg)
}

// Sphere builds a UV sphere centred on the origin. Segments and rings are
// clamped to at least 3 and 2.
func Sphere(name string, radius float32, segments, rings int, cfg octree.Config) (*Mesh, error) {
	segments = max(segments, 3)
	rings = max(rings, 2)

	var vertices []Vertex
	for r := 0; r <= rings; r++ {
		phi := gomath.Pi * float64(r) / float64(rings)
		y := float32(gomath.Cos(phi))
		ringRadius := float32(gomath.Sin(phi))
		for s := 0; s <= segments; s++ {
			theta := 2 * gomath.Pi * float64(s) / float64(segments)
			n := math.Vec3{
				X: ringRadius * float32(gomath.Cos(theta)),
				Y: y,
				Z: ringRadius * float32(gomath.Sin(theta)),
			}
			vertices = append(vertices, Vertex{
				Position: n.Scale(radius),
				Normal:   n,
				TexCoord: [2]float32{float32(s) / float32(segments), float32(r) / float32(rings)},
			})
		}
	}

	var indices []uint32
	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			// Skip the collapsed triangles at the poles.
			if r != 0 {
				indices = append(indices, a, a+1, b)
			}
			if r != rings-1 {
				indices = append(indices, a+1, b+1, b)
			}
		}
	}
	return New(name, vertices, indices, cfg)
}
