package cull

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCuller(t *testing.T, opts ...LightCullerBuilderOption) LightCuller {
	t.Helper()
	opts = append([]LightCullerBuilderOption{WithWorkers(2), WithLogger(common.NewNopLogger())}, opts...)
	c, err := NewLightCuller(opts...)
	require.NoError(t, err)
	t.Cleanup(c.Release)
	return c
}

func cullLights(t *testing.T, c LightCuller, width, height int, depth DepthSource, lights ...light.Light) *FrameOutput {
	t.Helper()
	out, err := c.Cull(Frame{Camera: newTestCamera(width, height), Lights: lights, Depth: depth})
	require.NoError(t, err)
	return out
}

func TestTileListBuilder_Footprint(t *testing.T) {
	c := newTestCuller(t)
	out := cullLights(t, c, 64, 64, nil, pointLight(0, 0, -10, 1))
	res := out.Resources

	tx, ty := res.TileCounts()
	require.Equal(t, 4, tx)
	require.Equal(t, 4, ty)

	want := map[int]bool{5: true, 6: true, 9: true, 10: true}
	for tile := range res.NumTiles() {
		list := res.TileList(light.LightModelDirect, tile)
		if want[tile] {
			assert.Equal(t, []uint32{0}, list, "tile %d", tile)
		} else {
			assert.Empty(t, list, "tile %d", tile)
		}
		assert.Empty(t, res.TileList(light.LightModelReflection, tile))
	}
	assert.Equal(t, 1, out.TileStats.MaxListLength)
	assert.Zero(t, out.TileStats.Overflowed)
}

func TestTileListBuilder_OffCenter(t *testing.T) {
	c := newTestCuller(t)
	// x/-z = 0.75 lands in the right-most column, y/-z = -0.75 in the bottom row.
	out := cullLights(t, c, 64, 64, nil, pointLight(7.5, -7.5, -10, 0.2))
	res := out.Resources

	assert.Equal(t, []uint32{0}, res.TileList(light.LightModelDirect, tileIndex(res, 3, 0)))
	assert.Empty(t, res.TileList(light.LightModelDirect, tileIndex(res, 0, 3)))
}

func TestTileListBuilder_CoversScreen(t *testing.T) {
	c := newTestCuller(t)
	out := cullLights(t, c, 64, 64, nil, pointLight(0, 0, -10, 1000))
	res := out.Resources

	for tile := range res.NumTiles() {
		assert.Equal(t, []uint32{0}, res.TileList(light.LightModelDirect, tile), "tile %d", tile)
	}
}

func TestTileListBuilder_DepthPruning(t *testing.T) {
	depth := NewLinearDepthBuffer(64, 64)
	depth.Fill(5)

	tests := []struct {
		name  string
		depth DepthSource
		light light.Light
		want  bool
	}{
		{"behind geometry", depth, pointLight(0, 0, -50, 1), false},
		{"no depth source", nil, pointLight(0, 0, -50, 1), true},
		{"touches geometry", depth, pointLight(0, 0, -5, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCuller(t)
			out := cullLights(t, c, 64, 64, tt.depth, tt.light)
			res := out.Resources
			list := res.TileList(light.LightModelDirect, tileIndex(res, 1, 1))
			assert.Equal(t, tt.want, containsIndex(list, 0))
		})
	}
}

func TestTileListBuilder_Overflow(t *testing.T) {
	lights := make([]light.Light, 40)
	for i := range lights {
		lights[i] = pointLight(0, 0, -10, 1)
	}

	c := newTestCuller(t)
	out := cullLights(t, c, 64, 64, nil, lights...)
	res := out.Resources

	list := res.TileList(light.LightModelDirect, 5)
	require.Len(t, list, light.MaxLightsPerTile)
	for i, idx := range list {
		assert.Equal(t, uint32(i), idx, "lowest indices are kept in order")
	}
	assert.Equal(t, light.MaxLightsPerTile, out.TileStats.MaxListLength)
	assert.Equal(t, int64(4*(40-light.MaxLightsPerTile)), out.TileStats.Overflowed)
}

func TestTileListBuilder_ProbesUseReflectionLists(t *testing.T) {
	c := newTestCuller(t)
	probe := light.NewReflectionProbe(light.WithProbePosition(0, 0, -10), light.WithCubemap(0))
	out, err := c.Cull(Frame{
		Camera: newTestCamera(64, 64),
		Lights: []light.Light{pointLight(0, 0, -10, 1)},
		Probes: []light.ReflectionProbe{probe},
	})
	require.NoError(t, err)
	res := out.Resources

	assert.Equal(t, []uint32{0}, res.TileList(light.LightModelDirect, 5))
	assert.Equal(t, []uint32{1}, res.TileList(light.LightModelReflection, 5))
}

func TestComputeTileDepthBounds(t *testing.T) {
	res := NewFrameResourceContext(false, false)
	require.NoError(t, res.Allocate(40, 20))

	depth := NewLinearDepthBuffer(40, 20)
	depth.FillRect(0, 0, 8, 8, 3)
	depth.Set(10, 2, 250)
	depth.FillRect(32, 16, 40, 20, 0.5)

	require.NoError(t, computeTileDepthBounds(NewDispatcher(2), res, depth, testNear, testFar))
	minD, maxD := res.TileDepthBounds()

	// Tile 0 mixes geometry at 3 with empty pixels clamped to far.
	assert.Equal(t, float32(3), minD[0])
	assert.Equal(t, testFar, maxD[0])
	// Empty tiles collapse to far; geometry nearer than near clamps to near.
	assert.Equal(t, testFar, minD[1])
	assert.Equal(t, testFar, minD[tileIndex(res, 2, 0)])
	assert.Equal(t, testNear, minD[tileIndex(res, 2, 1)])

	err := computeTileDepthBounds(NewDispatcher(1), res, NewLinearDepthBuffer(8, 8), testNear, testFar)
	assert.ErrorIs(t, err, ErrDepthSizeMismatch)
}
