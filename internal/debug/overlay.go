package debug

import (
	"github.com/Faultbox/my3d/internal/scene"
	"github.com/Faultbox/my3d/pkg/math"
)

// Overlay selects what SceneLines draws besides body boxes.
type Overlay struct {
	Environment bool // mesh bounds of the environment
	Tree        bool // environment octree nodes
	TreeDepth   int  // deepest node drawn, negative for all
	Normals     bool // triangle normals of environment meshes
	NormalScale float32
}

// SceneLines appends the overlay for sc to l. Bodies are drawn at their
// render pose; grounded bodies use the contact color.
func SceneLines(l *Lines, sc *scene.Scene, o Overlay) {
	env := sc.World().Environment()
	if env != nil {
		if o.Tree {
			l.Tree(env.Index(), o.TreeDepth)
		}
		for _, m := range env.Meshes() {
			if o.Environment {
				l.Box(m.Bounds(), ColorEnvironment)
			}
			if o.Normals {
				scale := o.NormalScale
				if scale <= 0 {
					scale = 0.25
				}
				l.Normals(m, scale, ColorNormal)
			}
		}
	}

	for _, b := range sc.World().Bodies() {
		offset := sc.RenderPose(b).TransformVec3(math.Zero).Sub(b.Position())
		c := ColorBody
		if b.Grounded() {
			c = ColorContact
		}
		l.Box(b.WorldBounds().Translated(offset), c)
	}
}
