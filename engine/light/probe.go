package light

import "github.com/go-gl/mathgl/mgl32"

type reflectionProbeImpl struct {
	localToWorld  mgl32.Mat4
	boxOffset     mgl32.Vec3
	boxExtents    mgl32.Vec3
	blendDistance float32
	importance    int
	boxProjection bool
	hdrDecode     mgl32.Vec4
	hasCubemap    bool
	cubemapSlice  uint32
}

// ReflectionProbe defines a visible reflection probe volume.
//
// The probe's cubemap is captured at the transform's origin; the influence
// box is centered at BoxOffset in the probe's local frame and extends
// BoxExtents plus BlendDistance along each local axis.
type ReflectionProbe interface {
	// LocalToWorld returns the probe transform. Column 3 is the cubemap
	// capture point.
	LocalToWorld() mgl32.Mat4

	// BoxOffset returns the influence box center relative to the capture point.
	BoxOffset() mgl32.Vec3

	// BoxExtents returns the influence box half extents.
	BoxExtents() mgl32.Vec3

	// BlendDistance returns the distance over which the probe fades out
	// beyond its box.
	BlendDistance() float32

	// Importance returns the probe's blending priority.
	Importance() int

	// BoxProjection returns whether reflections are box projected.
	BoxProjection() bool

	// HDRDecode returns the HDR decode parameters (x = multiplier, y = exponent).
	HDRDecode() mgl32.Vec4

	// HasCubemap returns whether a cubemap has been baked or assigned. Probes
	// without one are skipped by the culler.
	HasCubemap() bool

	// CubemapSlice returns the reflection cubemap array slice.
	CubemapSlice() uint32

	SetLocalToWorld(m mgl32.Mat4)
	SetBox(offset, extents mgl32.Vec3)
	SetBlendDistance(d float32)
	SetImportance(importance int)
	SetBoxProjection(enabled bool)
	SetHDRDecode(decode mgl32.Vec4)
	SetCubemap(slice uint32)
	ClearCubemap()
}

var _ ReflectionProbe = &reflectionProbeImpl{}

// NewReflectionProbe creates a ReflectionProbe with a unit box at the origin
// and any provided options applied.
//
// Parameters:
//   - opts: variadic list of ProbeBuilderOption functions to configure the probe
//
// Returns:
//   - ReflectionProbe: a new probe
func NewReflectionProbe(opts ...ProbeBuilderOption) ReflectionProbe {
	p := &reflectionProbeImpl{
		localToWorld:  mgl32.Ident4(),
		boxExtents:    mgl32.Vec3{1, 1, 1},
		blendDistance: 1,
		importance:    1,
		boxProjection: true,
		hdrDecode:     mgl32.Vec4{1, 1, 0, 0},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *reflectionProbeImpl) LocalToWorld() mgl32.Mat4 { return p.localToWorld }
func (p *reflectionProbeImpl) BoxOffset() mgl32.Vec3    { return p.boxOffset }
func (p *reflectionProbeImpl) BoxExtents() mgl32.Vec3   { return p.boxExtents }
func (p *reflectionProbeImpl) BlendDistance() float32   { return p.blendDistance }
func (p *reflectionProbeImpl) Importance() int          { return p.importance }
func (p *reflectionProbeImpl) BoxProjection() bool      { return p.boxProjection }
func (p *reflectionProbeImpl) HDRDecode() mgl32.Vec4    { return p.hdrDecode }
func (p *reflectionProbeImpl) HasCubemap() bool         { return p.hasCubemap }
func (p *reflectionProbeImpl) CubemapSlice() uint32     { return p.cubemapSlice }

func (p *reflectionProbeImpl) SetLocalToWorld(m mgl32.Mat4) {
	p.localToWorld = m
}

func (p *reflectionProbeImpl) SetBox(offset, extents mgl32.Vec3) {
	p.boxOffset = offset
	p.boxExtents = extents
}

func (p *reflectionProbeImpl) SetBlendDistance(d float32) {
	p.blendDistance = d
}

func (p *reflectionProbeImpl) SetImportance(importance int) {
	p.importance = importance
}

func (p *reflectionProbeImpl) SetBoxProjection(enabled bool) {
	p.boxProjection = enabled
}

func (p *reflectionProbeImpl) SetHDRDecode(decode mgl32.Vec4) {
	p.hdrDecode = decode
}

func (p *reflectionProbeImpl) SetCubemap(slice uint32) {
	p.hasCubemap = true
	p.cubemapSlice = slice
}

func (p *reflectionProbeImpl) ClearCubemap() {
	p.hasCubemap = false
	p.cubemapSlice = 0
}
