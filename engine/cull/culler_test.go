package cull

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/camera"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightCuller_Options(t *testing.T) {
	_, err := NewLightCuller(WithFptl(false))
	assert.ErrorIs(t, err, ErrNoListsEnabled)

	c := newTestCuller(t)
	assert.True(t, c.Fptl())
	assert.False(t, c.Clustered())

	c = newTestCuller(t, WithFptl(false), WithClustered(true))
	assert.False(t, c.Fptl())
	assert.True(t, c.Clustered())
	assert.True(t, c.Resources().Clustered())
}

func TestLightCuller_InvalidFrames(t *testing.T) {
	c := newTestCuller(t)

	_, err := c.Cull(Frame{})
	assert.ErrorIs(t, err, ErrNilCamera)

	cam := camera.NewCamera(camera.WithClipPlanes(10, 5), camera.WithPixelSize(64, 64))
	_, err = c.Cull(Frame{Camera: cam})
	assert.ErrorIs(t, err, ErrInvalidClipPlanes)

	cam = camera.NewCamera(camera.WithPixelSize(0, 64))
	_, err = c.Cull(Frame{Camera: cam})
	assert.ErrorIs(t, err, ErrInvalidResolution)

	_, err = c.Cull(Frame{Camera: newTestCamera(64, 64), Depth: NewLinearDepthBuffer(32, 32)})
	assert.ErrorIs(t, err, ErrDepthSizeMismatch)
}

func TestLightCuller_Resize(t *testing.T) {
	c := newTestCuller(t, WithClustered(true))
	cam := newTestCamera(64, 64)

	out, err := c.Cull(Frame{Camera: cam})
	require.NoError(t, err)
	assert.True(t, out.Resized)

	out, err = c.Cull(Frame{Camera: cam})
	require.NoError(t, err)
	assert.False(t, out.Resized)

	cam.SetPixelSize(128, 64)
	out, err = c.Cull(Frame{Camera: cam})
	require.NoError(t, err)
	assert.True(t, out.Resized)
	tx, ty := out.Resources.TileCounts()
	assert.Equal(t, 8, tx)
	assert.Equal(t, 4, ty)
	assert.Equal(t, uint32(8), out.Uniforms.TileCountX)
	assert.Equal(t, uint32(4), out.Uniforms.TileCountY)
}

func TestLightCuller_SkipsDisabledLights(t *testing.T) {
	c := newTestCuller(t)
	off := pointLight(0, 0, -10, 1)
	off.SetEnabled(false)

	out := cullLights(t, c, 64, 64, nil, off, pointLight(1, 0, -10, 1))
	require.Equal(t, 1, out.Proxies.Len())
	assert.InDelta(t, 1, out.Proxies.Data[0].LightPos[0], 1e-6)
}

func TestLightCuller_DirectionalLights(t *testing.T) {
	logger := common.NewMemoryLogger()
	c := newTestCuller(t, WithLogger(logger))

	dirs := []light.Light{
		light.NewLight(light.LightTypeDirectional, light.WithDirection(0, -1, 0), light.WithColor(1, 0, 0), light.WithIntensity(2)),
		light.NewLight(light.LightTypeDirectional, light.WithDirection(1, 0, 0)),
		light.NewLight(light.LightTypeDirectional, light.WithDirection(0, 0, -1)),
	}
	out := cullLights(t, c, 64, 64, nil, dirs[0], pointLight(0, 0, -10, 1), dirs[1], dirs[2])

	assert.Equal(t, 1, out.Proxies.Len())
	require.Len(t, out.DirectionalLights, light.MaxNumDirLights)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, out.DirectionalLights[0].Color)
	assert.Equal(t, float32(2), out.DirectionalLights[0].Intensity)
	// Light direction (0,-1,0) in view space with an identity view.
	assert.InDelta(t, -1, out.DirectionalLights[0].LightAxisZ[1], 1e-6)
	assert.Equal(t, light.NoShadow, out.DirectionalLights[0].ShadowLightIndex)
	assert.Len(t, logger.Warnings(), 1)
	assert.Equal(t, uint32(2), out.Uniforms.NumDirLights)
	assert.Equal(t, uint32(1), out.Uniforms.NumVisibleLights)
}

func TestLightCuller_Uniforms(t *testing.T) {
	c := newTestCuller(t, WithClustered(true), WithClusterLogBase(1.05))
	out := cullLights(t, c, 64, 48, nil, pointLight(0, 0, -10, 1))
	u := out.Uniforms

	assert.Equal(t, uint32(64), u.WidthRT)
	assert.Equal(t, uint32(48), u.HeightRT)
	assert.Equal(t, uint32(light.Log2NumClusters), u.Log2NumClusters)
	assert.Equal(t, testNear, u.NearPlane)
	assert.Equal(t, testFar, u.FarPlane)
	assert.Equal(t, float32(1.05), u.ClustBase)
	assert.Zero(t, u.LogBaseBufferEnabled)

	s := NewClusterSlicing(testNear, testFar, 1.05, light.NumClusters)
	assert.InDelta(t, 1/s.Scale, u.ClustScale, 1e-6)

	// The screen projection maps a view-space point straight to pixels.
	p := u.ScrProjection.Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 32, p[0]/p[3], 1e-4)
	assert.InDelta(t, 24, p[1]/p[3], 1e-4)
	back := u.InvScrProjection.Mul4(u.ScrProjection)
	assert.True(t, back.ApproxEqualThreshold(mgl32.Ident4(), 1e-3))
}

func TestLightCuller_CountMismatchDiscardsFrame(t *testing.T) {
	logger := common.NewMemoryLogger()
	cl, err := NewLightCuller(WithWorkers(1), WithLogger(logger))
	require.NoError(t, err)
	c := cl.(*lightCuller)
	c.proxies.classify = func(src *proxySource) (Category, bool) {
		return Category{Model: light.LightModelReflection, Volume: light.VolumeBox}, src.light != nil
	}

	out, err := c.Cull(Frame{Camera: newTestCamera(32, 32), Lights: []light.Light{pointLight(0, 0, -10, 1)}})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrCategoryCountMismatch)
	assert.Len(t, logger.Errors(), 1)
}

func TestLightCuller_ShadowSlots(t *testing.T) {
	c := newTestCuller(t)
	shadowed := pointLight(0, 0, -10, 1)
	shadowed.SetCastsShadows(true)
	shadowed.SetShadowSlices([]mgl32.Mat4{mgl32.Ident4()})
	// Casting shadows without rendered slices gives no slot.
	unrendered := pointLight(2, 0, -10, 1)
	unrendered.SetCastsShadows(true)

	out := cullLights(t, c, 64, 64, nil, pointLight(1, 0, -10, 1), shadowed, unrendered)
	require.Equal(t, 3, out.Proxies.Len())
	assert.Equal(t, light.NoShadow, out.Proxies.Data[0].ShadowLightIndex)
	assert.Equal(t, uint32(1), out.Proxies.Data[1].ShadowLightIndex)
	assert.Equal(t, light.FlagHasShadow, out.Proxies.Data[1].Flags&light.FlagHasShadow)
	assert.Equal(t, light.NoShadow, out.Proxies.Data[2].ShadowLightIndex)
	assert.Equal(t, 3, out.Shadows.NumLights)
}
