package physics

import (
	"github.com/Faultbox/my3d/pkg/bounds"
	"github.com/Faultbox/my3d/pkg/math"
)

// groundedNormalY is the minimum normal Y for a contact to count as ground.
const groundedNormalY = 0.7

// contact is a resolved triangle plane.
type contact struct {
	normal math.Vec3
	point  math.Vec3
}

// collide runs the broad phase over the environment's mesh octree and the
// narrow phase over each candidate mesh's triangle octree, resolving every
// candidate triangle in query order.
func (w *World) collide(b *Body, swept bounds.Box, report *StepReport) {
	if w.env == nil {
		return
	}
	w.env.Index().Visit(swept, func(meshBox bounds.Box) bool {
		if !meshBox.Tag.HasMesh() {
			return true
		}
		report.CandidateMeshes++
		m := w.env.Mesh(meshBox.Tag.Mesh)
		m.Index().Visit(swept, func(triBox bounds.Box) bool {
			if !triBox.Tag.HasTriangle() {
				return true
			}
			report.CandidateTriangles++
			tri := m.Triangle(triBox.Tag.Triangle)
			normal := tri.Normal()
			if normal.LengthSquared() == 0 {
				return true
			}
			w.resolve(b, normal)
			w.contacts = append(w.contacts, contact{normal: normal, point: tri[0]})
			return true
		})
		return true
	})
}

// resolve cancels the inward components of both acceleration channels and
// reflects the inward velocity component, damped by restitution. Removed
// acceleration feeds friction against the tangential velocity.
func (w *World) resolve(b *Body, normal math.Vec3) {
	actorN := normal.Dot(b.actorAcc)
	envN := normal.Dot(b.envAcc)
	velN := normal.Dot(b.velocity)

	var frictionDir math.Vec3
	tangential := b.velocity.Sub(normal.Scale(velN))
	if tangential.LengthSquared() > tangentEpsilon {
		frictionDir = tangential.Normalize().Neg()
	}

	if envN < 0 {
		b.envAcc = b.envAcc.Add(friction(envN, w.params.Friction, frictionDir))
		b.envAcc = b.envAcc.Sub(normal.Scale(envN))
	}
	if actorN < 0 {
		b.envAcc = b.envAcc.Add(friction(actorN, w.params.Friction, frictionDir))
		b.actorAcc = b.actorAcc.Sub(normal.Scale(actorN))
	}
	if velN < 0 {
		b.velocity = b.velocity.Sub(normal.Scale((1 + w.params.Restitution) * velN))
	}
}

// correct pushes the body back out of any contact plane it sank into by
// more than the penetration slop. Planes the body's centre is already
// behind are skipped. It reports whether the body moved.
func (w *World) correct(b *Body) bool {
	moved := false
	for _, c := range w.contacts {
		box := b.WorldBounds()
		if c.normal.Dot(box.Centre().Sub(c.point)) < 0 {
			continue
		}
		depth := c.normal.Dot(box.Support(c.normal).Sub(c.point))
		if depth >= -w.params.PenetrationSlop {
			continue
		}
		b.position = b.position.Add(c.normal.Scale(-depth - w.params.PenetrationSlop))
		moved = true
	}
	return moved
}
