package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithLocalToWorld is an option builder that sets the full light transform.
//
// Parameters:
//   - m: the local-to-world matrix
//
// Returns:
//   - LightBuilderOption: a function that applies the transform to a lightImpl
func WithLocalToWorld(m mgl32.Mat4) LightBuilderOption {
	return func(l *lightImpl) {
		l.localToWorld = m
	}
}

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetPosition(x, y, z)
	}
}

// WithDirection is an option builder that orients the light so its local +Z
// axis points along the given direction. The X and Y axes are rebuilt as an
// orthonormal basis; the position is kept.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		pos := l.localToWorld.Col(3)
		l.localToWorld = basisFromDirection(mgl32.Vec3{x, y, z})
		l.localToWorld.SetCol(3, pos)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the maximum attenuation distance for
// point and spot lights.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotAngle is an option builder that sets the full cone angle of a spot
// light in degrees. It is stored as the inverse cosine of the half angle.
//
// Parameters:
//   - deg: full cone angle in degrees
//
// Returns:
//   - LightBuilderOption: a function that applies the spot angle option to a lightImpl
func WithSpotAngle(deg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetSpotAngle(deg)
	}
}

// WithCastsShadows is an option builder that sets whether the light is eligible for
// a shadow slot.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow casting option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithCookie is an option builder that attaches a cookie at an atlas slice.
//
// Parameters:
//   - slice: the cookie atlas slice
//
// Returns:
//   - LightBuilderOption: a function that applies the cookie option to a lightImpl
func WithCookie(slice uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetCookie(slice)
	}
}

// WithShadowSlices is an option builder that sets the light's world-to-shadow
// transforms for the frame.
//
// Parameters:
//   - slices: world-to-shadow matrices, at most MaxShadowSlicesPerLight are kept
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow slice option to a lightImpl
func WithShadowSlices(slices ...mgl32.Mat4) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetShadowSlices(slices)
	}
}

// WithEnabled is an option builder that sets whether the light is active.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// basisFromDirection returns a rotation whose third column is the normalized
// direction. A zero direction yields the identity.
func basisFromDirection(dir mgl32.Vec3) mgl32.Mat4 {
	if dir.Len() == 0 {
		return mgl32.Ident4()
	}
	z := dir.Normalize()
	up := mgl32.Vec3{0, 1, 0}
	if absF32(z[1]) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
}

// invCosHalfAngle converts a full cone angle in degrees to 1/cos(angle/2).
func invCosHalfAngle(deg float32) float32 {
	return float32(1 / math.Cos(float64(deg)*math.Pi/360.0))
}

// absF32 returns the absolute value of a float32.
func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
