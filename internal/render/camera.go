package render

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/my3d/internal/physics"
	"github.com/Faultbox/my3d/pkg/bounds"
	"github.com/Faultbox/my3d/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates around Center.
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	FOV  float32 // vertical, degrees
	Near float32
	Far  float32

	DragSensitivity float32
	ZoomSensitivity float32
	MoveSpeed       float32 // fraction of Distance per second
}

// NewOrbitCamera creates an orbit camera with defaults sized for scenes of
// a few metres.
func NewOrbitCamera(fov float32) *OrbitCamera {
	if fov <= 0 {
		fov = 60
	}
	return &OrbitCamera{
		Distance:        8,
		Pitch:           0.5,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FOV:             fov,
		Near:            0.05,
		Far:             1000,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		MoveSpeed:       0.5,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp, sp := cosSin(c.Pitch)
	cy, sy := cosSin(c.Yaw)
	return c.Center.Add(mgl32.Vec3{cp * sy, sp, cp * cy}.Mul(c.Distance))
}

// View returns the view matrix.
func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *OrbitCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

// Basis returns the camera's ground-plane right and forward vectors and
// world up, for steering a body relative to the view.
func (c *OrbitCamera) Basis() (right, up, forward math.Vec3) {
	cy, sy := cosSin(c.Yaw)
	forward = math.Vec3{X: -sy, Z: -cy}
	right = math.Vec3{X: cy, Z: -sy}
	return right, math.UnitY, forward
}

// HandleDrag updates rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance from a scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// Move pans the center one step of dt seconds in a direction relative to
// the view.
func (c *OrbitCamera) Move(d physics.Direction, dt float32) {
	right, up, forward := c.Basis()
	var dir math.Vec3
	switch d {
	case physics.Forward:
		dir = forward
	case physics.Backward:
		dir = forward.Neg()
	case physics.Right:
		dir = right
	case physics.Left:
		dir = right.Neg()
	case physics.Up:
		dir = up
	case physics.Down:
		dir = up.Neg()
	}
	step := dir.Scale(c.Distance * c.MoveSpeed * dt)
	c.Center = c.Center.Add(mgl32.Vec3{step.X, step.Y, step.Z})
}

// Follow recentres the camera on p.
func (c *OrbitCamera) Follow(p math.Vec3) {
	c.Center = mgl32.Vec3{p.X, p.Y, p.Z}
}

// FitToBounds centres the camera on b and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(b bounds.Box) {
	c.Follow(b.Centre())
	radius := b.Size().Length() / 2
	half := mgl32.DegToRad(c.FOV) / 2
	c.Distance = mgl32.Clamp(radius/float32(gomath.Sin(float64(half)))+c.Near, c.MinDistance, c.MaxDistance)
}

func cosSin(a float32) (float32, float32) {
	s, co := gomath.Sincos(float64(a))
	return float32(co), float32(s)
}
