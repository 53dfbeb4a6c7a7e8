package render

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/my3d/internal/physics"
	"github.com/Faultbox/my3d/pkg/bounds"
	"github.com/Faultbox/my3d/pkg/math"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera(60)
	c.Pitch, c.Yaw, c.Distance = 0, 0, 5
	c.Center = mgl32.Vec3{1, 2, 3}

	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{1, 2, 8}, 1e-5), "got %v", c.Position())

	// The center ends up straight ahead in view space.
	v := c.View().Mul4x1(c.Center.Vec4(1))
	assert.True(t, v.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -5}, 1e-5), "got %v", v)
}

func TestOrbitCameraBasisFacesCenter(t *testing.T) {
	c := NewOrbitCamera(60)
	c.Yaw = 0.7
	right, up, forward := c.Basis()

	toCenter := c.Center.Sub(c.Position())
	dir := math.Vec3{X: toCenter.X(), Z: toCenter.Z()}.Normalize()
	assert.True(t, forward.ApproxEqual(dir, 1e-5), "forward %v, to center %v", forward, dir)
	assert.InDelta(t, 0, right.Dot(forward), 1e-6)
	assert.True(t, right.Cross(forward).ApproxEqual(up, 1e-5))
}

func TestOrbitCameraClamps(t *testing.T) {
	c := NewOrbitCamera(60)
	c.HandleDrag(0, 1e6)
	assert.Equal(t, c.MaxPitch, c.Pitch)

	for i := 0; i < 200; i++ {
		c.HandleZoom(5)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
}

func TestOrbitCameraMove(t *testing.T) {
	c := NewOrbitCamera(60)
	c.Yaw = 0
	c.Move(physics.Forward, 1)
	assert.Less(t, c.Center.Z(), float32(0))
	assert.InDelta(t, 0, c.Center.X(), 1e-6)

	c.Center = mgl32.Vec3{}
	c.Move(physics.Up, 1)
	assert.Greater(t, c.Center.Y(), float32(0))
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera(90)
	c.FitToBounds(bounds.New(math.Vec3{X: -2, Y: -2, Z: -2}, math.Vec3{X: 2, Y: 2, Z: 2}))
	assert.Equal(t, mgl32.Vec3{}, c.Center)
	// Half the diagonal, sqrt(48)/2, over sin(45 degrees).
	assert.InDelta(t, 4.899+c.Near, c.Distance, 1e-2)
}

func TestViewProjectionFinite(t *testing.T) {
	c := NewOrbitCamera(0)
	assert.Equal(t, float32(60), c.FOV)
	m := c.ViewProjection(16.0 / 9)
	for _, f := range m {
		assert.False(t, gomath.IsNaN(float64(f)), "NaN in view projection")
	}
}
