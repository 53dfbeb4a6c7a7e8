// Package animation samples keyframe clips over a node hierarchy. The
// resulting transforms are for rendering only and never feed collision.
package animation

import "github.com/Faultbox/my3d/pkg/math"

// PositionKey is a translation keyframe.
type PositionKey struct {
	Tick  float64   `yaml:"tick"`
	Value math.Vec3 `yaml:"value"`
}

// RotationKey is a rotation keyframe.
type RotationKey struct {
	Tick  float64   `yaml:"tick"`
	Value math.Quat `yaml:"value"`
}

// ScaleKey is a scale keyframe.
type ScaleKey struct {
	Tick  float64   `yaml:"tick"`
	Value math.Vec3 `yaml:"value"`
}

// Channel holds the keyframes animating one node. Keys must be sorted by tick.
type Channel struct {
	Positions []PositionKey `yaml:"positions"`
	Rotations []RotationKey `yaml:"rotations"`
	Scales    []ScaleKey    `yaml:"scales"`
}

// Sample returns translate * rotate * scale at the given tick.
func (c *Channel) Sample(tick float64) math.Mat4 {
	t := InterpolatePosition(c.Positions, tick)
	r := InterpolateRotation(c.Rotations, tick)
	s := InterpolateScale(c.Scales, tick)
	return math.Translate(t.X, t.Y, t.Z).Mul(r.ToMat4()).Mul(math.Scale(s.X, s.Y, s.Z))
}

// bracket finds the keys surrounding tick. prev == next when tick is at or
// past the last key, or before the first.
func bracket(n int, tickAt func(int) float64, tick float64) (prev, next int, t float32) {
	for i := 0; i < n; i++ {
		if tickAt(i) > tick {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return prev, next, 0
	}
	span := tickAt(next) - tickAt(prev)
	if span != 0 {
		t = float32((tick - tickAt(prev)) / span)
	}
	return prev, next, t
}

// InterpolatePosition interpolates position keyframes at the given tick.
func InterpolatePosition(keys []PositionKey, tick float64) math.Vec3 {
	if len(keys) == 0 {
		return math.Zero
	}
	prev, next, t := bracket(len(keys), func(i int) float64 { return keys[i].Tick }, tick)
	return math.Lerp(keys[prev].Value, keys[next].Value, t)
}

// InterpolateRotation interpolates rotation keyframes at the given tick.
func InterpolateRotation(keys []RotationKey, tick float64) math.Quat {
	if len(keys) == 0 {
		return math.QuatIdentity()
	}
	prev, next, t := bracket(len(keys), func(i int) float64 { return keys[i].Tick }, tick)
	if prev == next {
		return keys[prev].Value.Normalize()
	}
	return keys[prev].Value.Slerp(keys[next].Value, t).Normalize()
}

// InterpolateScale interpolates scale keyframes at the given tick.
func InterpolateScale(keys []ScaleKey, tick float64) math.Vec3 {
	if len(keys) == 0 {
		return math.Splat(1)
	}
	prev, next, t := bracket(len(keys), func(i int) float64 { return keys[i].Tick }, tick)
	return math.Lerp(keys[prev].Value, keys[next].Value, t)
}
