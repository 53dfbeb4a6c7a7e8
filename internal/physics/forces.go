package physics

import "github.com/Faultbox/my3d/pkg/math"

// Drag returns the drag force opposing v. Its magnitude is c*|v| up to
// threshold and c*|v|² above it.
func Drag(c, threshold float32, v math.Vec3) math.Vec3 {
	speed := v.Length()
	if speed == 0 || c == 0 {
		return math.Zero
	}
	magnitude := c * speed
	if speed > threshold {
		magnitude *= speed
	}
	return v.Normalize().Scale(-magnitude)
}

// Buoyancy returns the force on a body of the given volume immersed in a
// fluid of density rho, pointing against gravity.
func Buoyancy(rho, volume float32, gravity math.Vec3) math.Vec3 {
	g := gravity.Length()
	if g == 0 || volume == 0 || rho == 0 {
		return math.Zero
	}
	return gravity.Normalize().Scale(-rho * volume * g)
}

// friction returns the friction acceleration for a removed normal
// component of the given magnitude, along dir.
func friction(removed, coefficient float32, dir math.Vec3) math.Vec3 {
	if removed < 0 {
		removed = -removed
	}
	return dir.Scale(removed * coefficient)
}
