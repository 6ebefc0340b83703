package light

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shadowLights(n int) []Light {
	lights := make([]Light, 0, n)
	for range n {
		lights = append(lights, NewLight(LightTypePoint,
			WithRange(4),
			WithCastsShadows(true),
			WithShadowSlices(mgl32.Ident4()),
		))
	}
	return lights
}

func TestShadowBudget_OverAndRecovery(t *testing.T) {
	logger := common.NewMemoryLogger()
	b := NewShadowBudget(logger, 0, 0)
	var splits [MaxDirectionalSplit]mgl32.Vec4

	c := b.Update(shadowLights(11), splits)
	assert.Equal(t, MaxShadowLights, c.NumLights)
	assert.True(t, b.OverBudget())
	require.Len(t, logger.Warnings(), 1)
	for i := range MaxShadowLights {
		assert.Equal(t, uint32(i), c.Slot(i))
	}
	assert.Equal(t, NoShadow, c.Slot(10))

	// Same over-budget frame again: no second warning.
	b.Update(shadowLights(11), splits)
	assert.Len(t, logger.Warnings(), 1)

	c = b.Update(shadowLights(9), splits)
	assert.Equal(t, 9, c.NumLights)
	assert.False(t, b.OverBudget())
	assert.Len(t, logger.Infos(), 1)
	assert.Len(t, logger.Warnings(), 1)
}

func TestShadowBudget_Params(t *testing.T) {
	b := NewShadowBudget(common.NewNopLogger(), 1024, 2048)
	spheres := [MaxDirectionalSplit]mgl32.Vec4{{1, 2, 3, 4}}

	lights := []Light{
		NewLight(LightTypeDirectional, WithCastsShadows(true), WithShadowSlices(mgl32.Ident4(), mgl32.Ident4())),
		NewLight(LightTypeSpot, WithRange(5)),
		NewLight(LightTypePoint, WithRange(3), WithShadowSlices(mgl32.Ident4())),
	}
	c := b.Update(lights, spheres)

	assert.Equal(t, mgl32.Vec4{0, 0, math.MaxFloat32, float32(LightTypeDirectional)}, c.FalloffParams[0])
	assert.Equal(t, mgl32.Vec4{1, 0, 25, float32(LightTypeSpot)}, c.FalloffParams[1])
	assert.Equal(t, spheres, c.DirShadowSplitSpheres)

	assert.Equal(t, float32(1), c.ShadowParams[0][0])
	assert.Equal(t, float32(0), c.ShadowParams[1][0])

	assert.Equal(t, uint32(0), c.Slot(0))
	// No shadow caster flag, or no slices: no shadow slot.
	assert.Equal(t, NoShadow, c.Slot(1))
	assert.Equal(t, NoShadow, c.Slot(2))

	assert.InDelta(t, 1.0/1024, c.PCFTerms[1][0], 1e-9)
	assert.InDelta(t, 1.0/2048, c.PCFTerms[1][1], 1e-9)
	assert.InDelta(t, 1, c.PCFTerms[0][0]*4+c.PCFTerms[0][1]*4+c.PCFTerms[0][2], 1e-5)
}
