package mesh

import (
	"fmt"

	"github.com/Faultbox/my3d/pkg/bounds"
	"github.com/Faultbox/my3d/pkg/math"
	"github.com/Faultbox/my3d/pkg/octree"
)

// Model groups meshes under one model-level octree whose boxes are the
// mesh bounds, tagged with the mesh index.
type Model struct {
	name   string
	meshes []*Mesh
	bounds bounds.Box
	index  *octree.Octree
}

// NewModel builds the model-level octree over the given meshes.
func NewModel(name string, meshes []*Mesh, cfg octree.Config) (*Model, error) {
	m := &Model{
		name:   name,
		meshes: append([]*Mesh(nil), meshes...),
		bounds: bounds.New(math.Zero, math.Zero),
	}

	boxes := make([]bounds.Box, len(meshes))
	for i, mesh := range meshes {
		boxes[i] = mesh.Bounds().WithTag(bounds.MeshTag(i))
		if i == 0 {
			m.bounds = boxes[i].WithTag(bounds.NoTag)
		} else {
			m.bounds = bounds.Union(m.bounds, boxes[i])
		}
	}

	index, err := octree.Build(m.bounds, cfg, boxes)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	m.index = index
	return m, nil
}

// Single wraps one mesh in a model.
func Single(mesh *Mesh, cfg octree.Config) (*Model, error) {
	return NewModel(mesh.Name(), []*Mesh{mesh}, cfg)
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Meshes returns the meshes in index order.
func (m *Model) Meshes() []*Mesh { return m.meshes }

// Mesh returns the mesh with the given index.
func (m *Model) Mesh(i int) *Mesh { return m.meshes[i] }

// Bounds returns the union of the mesh bounds.
func (m *Model) Bounds() bounds.Box { return m.bounds }

// Index returns the model-level octree.
func (m *Model) Index() *octree.Octree { return m.index }

// TriangleCount returns the total number of triangles across all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for _, mesh := range m.meshes {
		n += mesh.TriangleCount()
	}
	return n
}
