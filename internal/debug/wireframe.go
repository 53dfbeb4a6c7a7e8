// Package debug provides debug visualization utilities: wireframe line
// lists for bounding boxes, octree nodes and triangle normals, and
// screenshot capture.
package debug

import (
	"github.com/Faultbox/my3d/internal/mesh"
	"github.com/Faultbox/my3d/pkg/bounds"
	"github.com/Faultbox/my3d/pkg/math"
	"github.com/Faultbox/my3d/pkg/octree"
)

// BoxVertexCount is the number of vertices for a box wireframe (12 edges x 2).
const BoxVertexCount = 24

// FloatsPerVertex is the layout of Lines data: x, y, z, r, g, b.
const FloatsPerVertex = 6

// boxEdges indexes bounds.Box.Corners: bottom face, top face, then the
// vertical edges.
var boxEdges = [12][2]int{
	{0, 1}, {1, 5}, {5, 4}, {4, 0},
	{2, 3}, {3, 7}, {7, 6}, {6, 2},
	{0, 2}, {1, 3}, {5, 7}, {4, 6},
}

// Color is an RGB triple in [0, 1].
type Color [3]float32

// Colors used by the viewer.
var (
	ColorBody        = Color{1, 0.85, 0.2}
	ColorContact     = Color{1, 0.25, 0.25}
	ColorEnvironment = Color{0.6, 0.6, 0.65}
	ColorNormal      = Color{0.3, 0.6, 1}
)

var depthColors = []Color{
	{0.9, 0.9, 0.9},
	{0.3, 0.9, 0.3},
	{0.3, 0.6, 1.0},
	{0.9, 0.4, 0.9},
	{1.0, 0.6, 0.2},
	{0.9, 0.9, 0.3},
}

// DepthColor returns the color of an octree node at depth, cycling through
// a fixed palette.
func DepthColor(depth int) Color {
	if depth < 0 {
		depth = 0
	}
	return depthColors[depth%len(depthColors)]
}

// BoxVertices returns the 24 line endpoints of b, [x, y, z] per vertex.
func BoxVertices(b bounds.Box) []float32 {
	c := b.Corners()
	out := make([]float32, 0, BoxVertexCount*3)
	for _, e := range boxEdges {
		out = append(out,
			c[e[0]].X, c[e[0]].Y, c[e[0]].Z,
			c[e[1]].X, c[e[1]].Y, c[e[1]].Z)
	}
	return out
}

// Lines accumulates colored line segments for one draw call.
type Lines struct {
	data []float32
}

// Reset drops every segment and keeps the backing array.
func (l *Lines) Reset() { l.data = l.data[:0] }

// Data returns the interleaved vertex data.
func (l *Lines) Data() []float32 { return l.data }

// VertexCount returns the number of line endpoints.
func (l *Lines) VertexCount() int { return len(l.data) / FloatsPerVertex }

// Segment adds one line from a to b.
func (l *Lines) Segment(a, b math.Vec3, c Color) {
	l.data = append(l.data,
		a.X, a.Y, a.Z, c[0], c[1], c[2],
		b.X, b.Y, b.Z, c[0], c[1], c[2])
}

// Box adds the twelve edges of b.
func (l *Lines) Box(b bounds.Box, c Color) {
	corners := b.Corners()
	for _, e := range boxEdges {
		l.Segment(corners[e[0]], corners[e[1]], c)
	}
}

// Tree adds one box per octree node down to maxDepth, colored by depth.
// Nodes deeper than maxDepth are skipped; a negative maxDepth draws all.
func (l *Lines) Tree(t *octree.Octree, maxDepth int) {
	t.Walk(func(region bounds.Box, depth int, _ []bounds.Box) {
		if maxDepth >= 0 && depth > maxDepth {
			return
		}
		l.Box(region, DepthColor(depth))
	})
}

// Normals adds one segment per triangle of m, from its centroid along its
// normal. Degenerate triangles are skipped.
func (l *Lines) Normals(m *mesh.Mesh, length float32, c Color) {
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		n := tri.Normal()
		if n.LengthSquared() == 0 {
			continue
		}
		centroid := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		l.Segment(centroid, centroid.Add(n.Scale(length)), c)
	}
}
