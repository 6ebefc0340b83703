package light

import "github.com/go-gl/mathgl/mgl32"

// ProbeBuilderOption is a function that configures a ReflectionProbe during construction.
type ProbeBuilderOption func(*reflectionProbeImpl)

// WithProbeTransform sets the probe's local-to-world transform.
//
// Parameters:
//   - m: the transform; column 3 is the capture point
//
// Returns:
//   - ProbeBuilderOption: a function that applies the transform
func WithProbeTransform(m mgl32.Mat4) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.localToWorld = m
	}
}

// WithProbePosition moves the capture point, keeping the orientation.
//
// Parameters:
//   - x, y, z: world-space capture point
//
// Returns:
//   - ProbeBuilderOption: a function that applies the position
func WithProbePosition(x, y, z float32) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.localToWorld.SetCol(3, mgl32.Vec4{x, y, z, 1})
	}
}

// WithBox sets the influence box center offset and half extents.
//
// Parameters:
//   - offset: box center relative to the capture point (probe local space)
//   - extents: box half extents
//
// Returns:
//   - ProbeBuilderOption: a function that applies the box
func WithBox(offset, extents mgl32.Vec3) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.SetBox(offset, extents)
	}
}

// WithBlendDistance sets the fade distance outside the box.
func WithBlendDistance(d float32) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.blendDistance = d
	}
}

// WithImportance sets the probe's blending priority.
func WithImportance(importance int) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.importance = importance
	}
}

// WithBoxProjection enables or disables box projection.
func WithBoxProjection(enabled bool) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.boxProjection = enabled
	}
}

// WithHDRDecode sets the HDR decode parameters.
func WithHDRDecode(decode mgl32.Vec4) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.hdrDecode = decode
	}
}

// WithCubemap assigns the probe's cubemap array slice.
func WithCubemap(slice uint32) ProbeBuilderOption {
	return func(p *reflectionProbeImpl) {
		p.SetCubemap(slice)
	}
}
