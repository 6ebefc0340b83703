package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestExtractFrustumFromMatrix_ViewSpacePlanes(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 100)
	f := ExtractFrustumFromMatrix(proj)

	for i, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d normal", i)
		assert.Greater(t, p.SignedDistance(mgl32.Vec3{0, 0, -10}), float32(0), "plane %d should contain a point ahead", i)
	}

	assert.InDelta(t, 0, f.Planes[FrustumNear].SignedDistance(mgl32.Vec3{0, 0, -1}), 1e-4)
	assert.InDelta(t, 0, f.Planes[FrustumFar].SignedDistance(mgl32.Vec3{0, 0, -100}), 1e-2)
}

func TestFrustum_SphereOutside(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 100)
	f := ExtractFrustumFromMatrix(proj)

	tests := []struct {
		name    string
		center  mgl32.Vec3
		radius  float32
		outside bool
	}{
		{"ahead", mgl32.Vec3{0, 0, -10}, 1, false},
		{"behind camera", mgl32.Vec3{0, 0, 10}, 1, true},
		{"behind but overlapping near plane", mgl32.Vec3{0, 0, 0}, 2, false},
		{"far left", mgl32.Vec3{-50, 0, -10}, 1, true},
		{"beyond far plane", mgl32.Vec3{0, 0, -200}, 5, true},
		{"straddling right plane", mgl32.Vec3{11, 0, -10}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.outside, f.SphereOutside(tt.center, tt.radius))
		})
	}
}

func TestPlaneFromPoints(t *testing.T) {
	p := PlaneFromPoints(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 1, p.Normal[2], 1e-6)
	assert.InDelta(t, 3, p.SignedDistance(mgl32.Vec3{5, 5, 3}), 1e-6)
	assert.InDelta(t, -3, p.Flip().SignedDistance(mgl32.Vec3{5, 5, 3}), 1e-6)
}
