package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FltMax is the largest finite float32. It stands in for "unbounded" in
// light records where the shader expects a finite value (e.g. the tangent of
// a 90° half-angle or the inverse of a zero blend distance).
const FltMax float32 = math.MaxFloat32

// TransformPoint transforms a 3D point by a 4x4 matrix (w = 1) and drops the
// resulting w component. No perspective divide is performed.
//
// Parameters:
//   - m: the transform (column-major, mgl32 convention)
//   - p: the point to transform
//
// Returns:
//   - mgl32.Vec3: the transformed point
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformVector transforms a 3D direction by a 4x4 matrix (w = 0), so the
// translation part of the matrix is ignored.
//
// Parameters:
//   - m: the transform (column-major, mgl32 convention)
//   - v: the direction to transform
//
// Returns:
//   - mgl32.Vec3: the transformed direction (not renormalized)
func TransformVector(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// Project transforms a view-space point by a projection matrix and performs
// the perspective divide.
//
// Parameters:
//   - proj: the projection matrix
//   - p: the view-space point
//
// Returns:
//   - mgl32.Vec3: normalized device coordinates
//   - float32: the clip-space w before the divide
func Project(proj mgl32.Mat4, p mgl32.Vec3) (mgl32.Vec3, float32) {
	clip := proj.Mul4x1(p.Vec4(1))
	if clip[3] == 0 {
		return clip.Vec3(), 0
	}
	inv := 1 / clip[3]
	return mgl32.Vec3{clip[0] * inv, clip[1] * inv, clip[2] * inv}, clip[3]
}

// Unproject maps a normalized device coordinate back into view space through
// an inverse projection matrix.
//
// Parameters:
//   - invProj: the inverse of the projection matrix
//   - ndc: the normalized device coordinate
//
// Returns:
//   - mgl32.Vec3: the view-space point
func Unproject(invProj mgl32.Mat4, ndc mgl32.Vec3) mgl32.Vec3 {
	v := invProj.Mul4x1(ndc.Vec4(1))
	if v[3] == 0 {
		return v.Vec3()
	}
	inv := 1 / v[3]
	return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// DivCeil returns n / d rounded up. d must be positive.
func DivCeil(n, d int) int {
	return (n + d - 1) / d
}

// ClampInt clamps v to the inclusive range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Coalesce returns the first non-zero value, or the zero value if all are
// zero. Used to fall back to defaults for unset options.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
