package cull

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterSlicing_Boundaries(t *testing.T) {
	for _, base := range []float32{1, light.ClusterLogBase, 1.2} {
		s := NewClusterSlicing(testNear, testFar, base, light.NumClusters)

		assert.InDelta(t, testNear, s.Boundary(0), 1e-5, "base %v", base)
		assert.Equal(t, testFar, s.Boundary(light.NumClusters))
		assert.InDelta(t, testFar, float64(s.Scale)*geometricSeries(float64(base), light.NumClusters)+float64(testNear), 1e-3)

		prev := s.Boundary(0)
		for i := 1; i <= light.NumClusters; i++ {
			b := s.Boundary(i)
			assert.Greater(t, b, prev, "boundary %d, base %v", i, base)
			prev = b
		}
	}
}

func TestClusterSlicing_SliceOf(t *testing.T) {
	s := NewClusterSlicing(testNear, testFar, light.ClusterLogBase, light.NumClusters)
	for i := range light.NumClusters {
		mid := (s.Boundary(i) + s.Boundary(i+1)) / 2
		assert.Equal(t, i, s.SliceOf(mid), "slice %d", i)
	}
	assert.Equal(t, 0, s.SliceOf(0.5))
	assert.Equal(t, light.NumClusters-1, s.SliceOf(testFar))
	assert.Equal(t, light.NumClusters-1, s.SliceOf(10*testFar))
}

func TestSuggestLogBase(t *testing.T) {
	tileFar := float32(5)
	base := SuggestLogBase(tileFar, testNear, testFar, light.NumClusters)
	assert.Greater(t, base, light.ClusterLogBase)

	// Half of the slices end halfway to the tile's farthest geometry.
	s := NewClusterSlicing(testNear, testFar, base, light.NumClusters)
	assert.InDelta(t, testNear+(tileFar-testNear)/2, s.Boundary(light.NumClusters/2), 1e-3)

	assert.InDelta(t, 1, SuggestLogBase(testFar, testNear, testFar, light.NumClusters), 1e-6)
	assert.InDelta(t, 1, SuggestLogBase(2*testFar, testNear, testFar, light.NumClusters), 1e-6)
	assert.False(t, math.IsNaN(float64(SuggestLogBase(0, testNear, testFar, light.NumClusters))))
}

func TestSphereInVoxel(t *testing.T) {
	view := newTestView(64, 64)
	planes := tilePlanes(&view, 0, 0, 64, 64)

	tests := []struct {
		name   string
		center mgl32.Vec3
		radius float32
		z0, z1 float32
		want   bool
	}{
		{"inside", mgl32.Vec3{0, 0, -10}, 1, 5, 15, true},
		{"outside the right plane", mgl32.Vec3{20, 0, -10}, 1, 5, 15, false},
		{"reaches across the right plane", mgl32.Vec3{20, 0, -10}, 15, 5, 15, true},
		{"in front of the slab", mgl32.Vec3{0, 0, -3}, 1, 5, 15, false},
		{"behind the slab", mgl32.Vec3{0, 0, -20}, 1, 5, 15, false},
		{"touches the slab", mgl32.Vec3{0, 0, -16}, 1, 5, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sphereInVoxel(&planes, tt.center, tt.radius, tt.z0, tt.z1))
		})
	}
}

func TestClusterListBuilder_Voxels(t *testing.T) {
	c := newTestCuller(t, WithClustered(true))
	out := cullLights(t, c, 64, 64, nil, pointLight(0, 0, -10, 1))
	res := out.Resources

	s := NewClusterSlicing(testNear, testFar, light.ClusterLogBase, light.NumClusters)
	tile := tileIndex(res, 2, 2)
	assert.True(t, containsIndex(res.VoxelList(light.LightModelDirect, tile, s.SliceOf(10)), 0))
	assert.False(t, containsIndex(res.VoxelList(light.LightModelDirect, tile, s.SliceOf(50)), 0))
	assert.Empty(t, res.VoxelList(light.LightModelDirect, tileIndex(res, 0, 0), s.SliceOf(10)))
	assert.Empty(t, res.VoxelList(light.LightModelReflection, tile, s.SliceOf(10)))

	assert.Zero(t, out.ClusterStats.Overflowed)
	assert.Zero(t, out.ClusterStats.Truncated)
	assert.Equal(t, res.IndicesUsed(), out.ClusterStats.IndicesUsed)
}

func TestClusterListBuilder_CapacityOverflow(t *testing.T) {
	const numLights = 300
	lights := make([]light.Light, numLights)
	for i := range lights {
		lights[i] = pointLight(0, 0, -50, 1000)
	}

	c := newTestCuller(t, WithClustered(true))
	out := cullLights(t, c, 16, 16, nil, lights...)
	res := out.Resources
	require.Equal(t, 1, res.NumTiles())
	capacity := light.LightIndicesPerClusteredTile
	require.Equal(t, capacity, res.VoxelCapacity())

	st := out.ClusterStats
	assert.Equal(t, int64(light.NumClusters*(numLights-light.MaxLightsPerVoxel)), st.Truncated)
	assert.Equal(t, uint32(light.NumClusters*light.MaxLightsPerVoxel), st.IndicesUsed)
	assert.Equal(t, int64(st.IndicesUsed)-int64(capacity), st.Overflowed)

	// Every kept list lies inside the array.
	kept := 0
	for s := range light.NumClusters {
		e := res.VoxelEntries()[res.voxelIndex(light.LightModelDirect, 0, s)]
		assert.LessOrEqual(t, int(e.Offset+e.Count), capacity)
		kept += int(e.Count)
	}
	assert.Equal(t, capacity, kept)
}

func TestClusterListBuilder_DisjointRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	lights := make([]light.Light, 0, 120)
	for range 120 {
		z := -(2 + rng.Float32()*60)
		x := (rng.Float32()*2 - 1) * -z
		y := (rng.Float32()*2 - 1) * -z
		if rng.Intn(3) == 0 {
			l := spotLight(x, y, z, 1+rng.Float32()*4, 20+rng.Float32()*100)
			lights = append(lights, l)
			continue
		}
		lights = append(lights, pointLight(x, y, z, 0.5+rng.Float32()*3))
	}

	c := newTestCuller(t, WithClustered(true))
	out := cullLights(t, c, 128, 96, nil, lights...)
	res := out.Resources
	require.Zero(t, out.ClusterStats.Overflowed)

	var entries []VoxelEntry
	var total uint32
	for _, e := range res.VoxelEntries() {
		if e.Count > 0 {
			entries = append(entries, e)
			total += e.Count
		}
	}
	assert.Equal(t, out.ClusterStats.IndicesUsed, total)

	sort.Slice(entries, func(i, j int) bool { return entries[i].Offset < entries[j].Offset })
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Offset+entries[i-1].Count, entries[i].Offset)
	}

	direct, numDirect := out.Proxies.Offsets.ModelRange(light.LightModelDirect)
	for tile := range res.NumTiles() {
		for s := range light.NumClusters {
			for _, idx := range res.VoxelList(light.LightModelDirect, tile, s) {
				assert.GreaterOrEqual(t, int(idx), direct)
				assert.Less(t, int(idx), direct+numDirect)
			}
		}
	}
}

func TestClusterListBuilder_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	lights := make([]light.Light, 64)
	for i := range lights {
		lights[i] = pointLight(rng.Float32()*20-10, rng.Float32()*20-10, -(5 + rng.Float32()*40), 1+rng.Float32()*5)
	}

	c := newTestCuller(t, WithClustered(true))
	snapshot := func() (map[[2]int][]uint32, []uint32) {
		out := cullLights(t, c, 96, 64, nil, lights...)
		res := out.Resources
		voxels := make(map[[2]int][]uint32)
		for tile := range res.NumTiles() {
			for s := range light.NumClusters {
				list := res.VoxelList(light.LightModelDirect, tile, s)
				voxels[[2]int{tile, s}] = append([]uint32(nil), list...)
			}
		}
		return voxels, append([]uint32(nil), res.TileListWords()...)
	}

	voxels1, tiles1 := snapshot()
	voxels2, tiles2 := snapshot()
	assert.Equal(t, voxels1, voxels2)
	assert.Equal(t, tiles1, tiles2)
}

func TestClusterListBuilder_DepthGuided(t *testing.T) {
	depth := NewLinearDepthBuffer(64, 64)
	depth.Fill(5)

	c := newTestCuller(t, WithClustered(true), WithDepthGuidedSlicing(true))
	out := cullLights(t, c, 64, 64, depth, pointLight(0, 0, -3, 0.5))
	res := out.Resources

	want := SuggestLogBase(5, testNear, testFar, light.NumClusters)
	require.Len(t, res.LogBases(), res.NumTiles())
	for tile, base := range res.LogBases() {
		assert.InDelta(t, want, base, 1e-6, "tile %d", tile)
	}
	assert.Equal(t, uint32(1), out.Uniforms.LogBaseBufferEnabled)

	s := NewClusterSlicing(testNear, testFar, want, light.NumClusters)
	assert.True(t, containsIndex(res.VoxelList(light.LightModelDirect, tileIndex(res, 2, 2), s.SliceOf(3)), 0))
}

func TestClusterListBuilder_DepthGuidedNeedsClustered(t *testing.T) {
	c := newTestCuller(t, WithDepthGuidedSlicing(true))
	out := cullLights(t, c, 32, 32, nil, pointLight(0, 0, -10, 1))

	assert.Nil(t, out.Resources.LogBases())
	assert.Zero(t, out.Uniforms.LogBaseBufferEnabled)
	assert.Zero(t, out.Resources.VoxelCapacity())
}
