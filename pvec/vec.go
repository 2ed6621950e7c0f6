// Package pvec supplies the vector and scalar math primitives the rest of
// the particle engine builds on: Vec3 is mgl32.Vec3 itself plus the handful
// of operations mathgl doesn't provide, and a per-context pseudo-random
// source with uniform and standard-normal samplers.
package pvec

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is the engine's point/vector type. Reusing mgl32.Vec3 directly keeps
// particle records, domain parameters, and action math all built on the
// same value type and its existing Add/Sub/Cross/Dot/Len/Normalize methods.
type Vec3 = mgl32.Vec3

// Mul3 is the missing component-wise multiply: mgl32.Vec3.Mul only scales
// by a single float32.
func Mul3(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Abs3 returns the component-wise absolute value of v.
func Abs3(v Vec3) Vec3 {
	return Vec3{math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])}
}

// NormalizeSafe returns v normalized, or the zero vector if v is too small
// to normalize without dividing by ~zero. Several actions (Avoid, Bounce,
// Explosion) need this guard rather than mgl32's Normalize, which returns
// NaN components for a zero-length input.
func NormalizeSafe(v Vec3) Vec3 {
	l2 := v.LenSqr()
	if l2 < 1e-12 {
		return Vec3{}
	}
	return v.Mul(1.0 / math32.Sqrt(l2))
}

// Clamp clamps x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
