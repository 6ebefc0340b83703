package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Directional lights are not culled per tile; they go to the separate
	// directional light array.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along
	// its local +Z axis.
	LightTypeSpot
)

// MaxShadowSlicesPerLight is the number of world-to-shadow transforms a
// single light may carry (six for a point light cube).
const MaxShadowSlicesPerLight = 6

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType           LightType
	localToWorld        mgl32.Mat4
	color               mgl32.Vec3
	intensity           float32
	lightRange          float32
	invCosHalfSpotAngle float32 // 1 / cos(half spot angle)
	castsShadows        bool
	hasCookie           bool
	cookieSlice         uint32
	shadowSlices        []mgl32.Mat4
	enabled             bool
}

// Light defines the interface for a visible light source handed to the
// culler by scene visibility.
//
// The light's frame is its local-to-world transform: column 2 is the
// emission direction of spot lights, column 3 the position. Type-specific
// properties return zero values when not applicable.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// LocalToWorld returns the light's transform.
	//
	// Returns:
	//   - mgl32.Mat4: the local-to-world matrix
	LocalToWorld() mgl32.Mat4

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: position
	Position() mgl32.Vec3

	// Direction returns the world-space emission direction (local +Z).
	//
	// Returns:
	//   - mgl32.Vec3: direction
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light.
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// FinalColor returns Color scaled by Intensity.
	FinalColor() mgl32.Vec3

	// Range returns the maximum attenuation distance for point and spot lights.
	Range() float32

	// InvCosHalfSpotAngle returns 1 / cos(half spot angle), the form the
	// visibility system stores spot angles in.
	InvCosHalfSpotAngle() float32

	// SpotAngle returns the full spot cone angle in degrees, reconstructed
	// from InvCosHalfSpotAngle.
	SpotAngle() float32

	// CastsShadows returns whether this light is eligible for a shadow slot.
	CastsShadows() bool

	// HasCookie returns whether a cookie texture is attached. Spot lights
	// with a cookie are treated as square.
	HasCookie() bool

	// CookieSlice returns the cookie atlas slice assigned by the texture cache.
	CookieSlice() uint32

	// ShadowSlices returns the world-to-shadow transforms rendered for this
	// light this frame. Empty when the light has no shadow map.
	ShadowSlices() []mgl32.Mat4

	// Enabled returns whether this light is active. Disabled lights are
	// ignored by the culler.
	Enabled() bool

	// SetLocalToWorld sets the light's transform.
	SetLocalToWorld(m mgl32.Mat4)

	// SetPosition sets the world-space position, keeping the orientation.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColor sets the RGB color of the light.
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetRange sets the maximum attenuation distance.
	SetRange(lightRange float32)

	// SetSpotAngle sets the full spot cone angle in degrees.
	SetSpotAngle(deg float32)

	// SetCastsShadows sets whether the light is eligible for a shadow slot.
	SetCastsShadows(castsShadows bool)

	// SetCookie attaches a cookie stored at the given atlas slice.
	SetCookie(slice uint32)

	// ClearCookie detaches the cookie.
	ClearCookie()

	// SetShadowSlices sets this frame's world-to-shadow transforms. At most
	// MaxShadowSlicesPerLight are kept.
	SetShadowSlices(slices []mgl32.Mat4)

	// SetEnabled enables or disables the light.
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:    lightType,
		localToWorld: mgl32.Ident4(),
		color:        mgl32.Vec3{1, 1, 1},
		intensity:    1.0,
		lightRange:   10.0,
		enabled:      true,
	}
	l.SetSpotAngle(30)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) LocalToWorld() mgl32.Mat4 {
	return l.localToWorld
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.localToWorld.Col(3).Vec3()
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.localToWorld.Col(2).Vec3()
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) FinalColor() mgl32.Vec3 {
	return l.color.Mul(l.intensity)
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InvCosHalfSpotAngle() float32 {
	return l.invCosHalfSpotAngle
}

func (l *lightImpl) SpotAngle() float32 {
	return mgl32.RadToDeg(2 * float32(math.Acos(float64(1/l.invCosHalfSpotAngle))))
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) HasCookie() bool {
	return l.hasCookie
}

func (l *lightImpl) CookieSlice() uint32 {
	return l.cookieSlice
}

func (l *lightImpl) ShadowSlices() []mgl32.Mat4 {
	return l.shadowSlices
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetLocalToWorld(m mgl32.Mat4) {
	l.localToWorld = m
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.localToWorld.SetCol(3, mgl32.Vec4{x, y, z, 1})
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetSpotAngle(deg float32) {
	l.invCosHalfSpotAngle = invCosHalfAngle(deg)
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

func (l *lightImpl) SetCookie(slice uint32) {
	l.hasCookie = true
	l.cookieSlice = slice
}

func (l *lightImpl) ClearCookie() {
	l.hasCookie = false
	l.cookieSlice = 0
}

func (l *lightImpl) SetShadowSlices(slices []mgl32.Mat4) {
	if len(slices) > MaxShadowSlicesPerLight {
		slices = slices[:MaxShadowSlicesPerLight]
	}
	l.shadowSlices = slices
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
