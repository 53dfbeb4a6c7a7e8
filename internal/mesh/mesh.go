package mesh

import (
	"fmt"

	"github.com/Faultbox/my3d/pkg/bounds"
	"github.com/Faultbox/my3d/pkg/math"
	"github.com/Faultbox/my3d/pkg/octree"
)

// Mesh is an immutable indexed triangle list with a per-triangle octree.
// Boxes stored in the octree are tagged with their triangle index.
type Mesh struct {
	name     string
	vertices []Vertex
	indices  []uint32
	bounds   bounds.Box
	cfg      octree.Config
	index    *octree.Octree
}

// New validates the buffers, computes the bounds and builds the triangle
// octree. If no vertex carries a normal, smoothed face normals are filled in.
// An empty mesh is legal: its bounds collapse to the origin.
func New(name string, vertices []Vertex, indices []uint32, cfg octree.Config) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %s has %d indices", ErrInvalidIndices, name, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: %s index %d = %d, have %d vertices",
				ErrInvalidIndices, name, i, idx, len(vertices))
		}
	}

	m := &Mesh{
		name:     name,
		vertices: append([]Vertex(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
		cfg:      cfg,
	}
	if !hasNormals(m.vertices) {
		m.fillNormals()
	}

	m.bounds = bounds.New(math.Zero, math.Zero)
	if len(m.vertices) > 0 {
		m.bounds = bounds.FromPoints(m.vertex(0))
		for i := range m.vertices {
			updateBounds(&m.bounds, m.vertices[i].Position)
		}
	}

	boxes := make([]bounds.Box, m.TriangleCount())
	for i := range boxes {
		t := m.Triangle(i)
		boxes[i] = bounds.FromPoints(t[0], t[1], t[2]).WithTag(bounds.TriangleTag(i))
	}
	index, err := octree.Build(m.bounds, cfg, boxes)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", name, err)
	}
	m.index = index
	return m, nil
}

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// Vertices returns the vertex buffer. Callers must not modify it.
func (m *Mesh) Vertices() []Vertex { return m.vertices }

// Indices returns the index buffer. Callers must not modify it.
func (m *Mesh) Indices() []uint32 { return m.indices }

// Bounds returns the mesh-space bounding box.
func (m *Mesh) Bounds() bounds.Box { return m.bounds }

// Index returns the per-triangle octree.
func (m *Mesh) Index() *octree.Octree { return m.index }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.indices) / 3 }

// Triangle returns the i-th triangle's corners.
func (m *Mesh) Triangle(i int) Triangle {
	return Triangle{
		m.vertex(int(m.indices[3*i])),
		m.vertex(int(m.indices[3*i+1])),
		m.vertex(int(m.indices[3*i+2])),
	}
}

// Transformed returns a copy of the mesh with every vertex moved by mat.
// Normals are transformed as directions and renormalized.
func (m *Mesh) Transformed(mat math.Mat4) (*Mesh, error) {
	vertices := make([]Vertex, len(m.vertices))
	for i, v := range m.vertices {
		vertices[i] = Vertex{
			Position: mat.TransformVec3(v.Position),
			Normal:   mat.TransformDirection(v.Normal).Normalize(),
			TexCoord: v.TexCoord,
		}
	}
	return New(m.name, vertices, m.indices, m.cfg)
}

func (m *Mesh) vertex(i int) math.Vec3 {
	return m.vertices[i].Position
}

func hasNormals(vertices []Vertex) bool {
	for i := range vertices {
		if vertices[i].Normal != math.Zero {
			return true
		}
	}
	return false
}

// fillNormals accumulates face normals per vertex, then averages normals
// at shared positions.
func (m *Mesh) fillNormals() {
	for i := 0; i < m.TriangleCount(); i++ {
		n := m.Triangle(i).Normal()
		for j := 0; j < 3; j++ {
			v := &m.vertices[m.indices[3*i+j]]
			v.Normal = v.Normal.Add(n)
		}
	}
	for i := range m.vertices {
		m.vertices[i].Normal = m.vertices[i].Normal.Normalize()
	}
	SmoothNormals(m.vertices)
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on split-vertex meshes.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		p := vertices[i].Position
		key := [3]int32{int32(p.X / epsilon), int32(p.Y / epsilon), int32(p.Z / epsilon)}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(vertices[idx].Normal)
		}
		avg := sum.Normalize()
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

func updateBounds(b *bounds.Box, p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}
