package cull

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func pointBound(x, y, z, r float32) light.GPULightBound {
	_, b := buildLightProxy(mgl32.Ident4(), pointLight(x, y, z, r), light.NoShadow)
	return b
}

func TestProjectBound_Centered(t *testing.T) {
	view := newTestView(256, 256)
	b := pointBound(0, 0, -10, 1)

	aabb := projectBound(&b, &view)
	assert.True(t, aabb.Visible)
	// The near cap at depth 9 has the widest footprint: 128 ± 128/9.
	assert.InDelta(t, 128-128.0/9, aabb.MinX, 0.05)
	assert.InDelta(t, 128+128.0/9, aabb.MaxX, 0.05)
	assert.InDelta(t, 128-128.0/9, aabb.MinY, 0.05)
	assert.InDelta(t, 128+128.0/9, aabb.MaxY, 0.05)
	assert.InDelta(t, 9, aabb.NearZ, 1e-4)
	assert.InDelta(t, 11, aabb.FarZ, 1e-4)
}

func TestProjectBound_YUp(t *testing.T) {
	view := newTestView(256, 256)
	b := pointBound(0, 5, -10, 1)

	aabb := projectBound(&b, &view)
	assert.True(t, aabb.Visible)
	assert.Greater(t, aabb.MinY, float32(128), "positive view y maps to the upper half")
}

func TestProjectBound_Culled(t *testing.T) {
	view := newTestView(256, 256)
	tests := []struct {
		name  string
		bound light.GPULightBound
	}{
		{"behind the camera", pointBound(0, 0, 10, 1)},
		{"beyond the far plane", pointBound(0, 0, -200, 1)},
		{"outside the left plane", pointBound(-50, 0, -10, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aabb := projectBound(&tt.bound, &view)
			assert.False(t, aabb.Visible)
		})
	}
}

func TestProjectBound_StraddlesNearPlane(t *testing.T) {
	view := newTestView(256, 256)
	b := pointBound(0, 0, -1, 2)

	aabb := projectBound(&b, &view)
	assert.True(t, aabb.Visible)
	assert.Equal(t, testNear, aabb.NearZ)
	assert.InDelta(t, 3, aabb.FarZ, 1e-4)
	// Clipped at the near plane the proxy covers the whole screen.
	assert.Equal(t, float32(0), aabb.MinX)
	assert.Equal(t, float32(256), aabb.MaxX)
}

func TestProjectBound_ClampsToFar(t *testing.T) {
	view := newTestView(256, 256)
	b := pointBound(0, 0, -99, 5)

	aabb := projectBound(&b, &view)
	assert.True(t, aabb.Visible)
	assert.Equal(t, testFar, aabb.FarZ)
	assert.InDelta(t, 94, aabb.NearZ, 1e-4)
}

func TestScreenAABBProjector_Project(t *testing.T) {
	view := newTestView(256, 256)
	bounds := []light.GPULightBound{
		pointBound(0, 0, -10, 1),
		pointBound(0, 0, 10, 1),
		pointBound(3, 0, -20, 2),
	}
	out := make([]ScreenAABB, len(bounds))

	p := NewScreenAABBProjector(NewDispatcher(2))
	p.Project(bounds, &view, out)

	for i := range bounds {
		assert.Equal(t, projectBound(&bounds[i], &view), out[i], "proxy %d", i)
	}
	assert.True(t, out[0].Visible)
	assert.False(t, out[1].Visible)
	assert.True(t, out[2].Visible)
}
