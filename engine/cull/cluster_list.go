package cull

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// ClusterStats reports the outcome of one clustered build.
type ClusterStats struct {
	// IndicesUsed is the number of voxel index slots reserved, including any
	// reservation that did not fit.
	IndicesUsed uint32
	// Overflowed counts indices dropped because the global array was full.
	Overflowed int64
	// Truncated counts indices dropped by the per-voxel cap.
	Truncated int64
}

// clusterCandidate is a light that overlaps a tile's screen rectangle, with
// the slice range its depth extent covers.
type clusterCandidate struct {
	index      uint32
	firstSlice int
	lastSlice  int
}

// clusterScratch is per-task working memory.
type clusterScratch struct {
	candidates []clusterCandidate
	voxel      []uint32
}

// ClusterListBuilder writes the per-voxel light lists of the clustered path.
// Each tile is processed by one task; within it every (model, slice) voxel
// scans its candidates privately, then reserves a contiguous block of the
// global index array with a single atomic add.
type ClusterListBuilder struct {
	dispatcher  *Dispatcher
	logBase     float32
	depthGuided bool
	scratch     sync.Pool
}

// NewClusterListBuilder creates a builder.
//
// Parameters:
//   - dispatcher: the worker pool
//   - logBase: default slice thickness ratio
//   - depthGuided: whether each tile derives its own base from its occupied depth
//
// Returns:
//   - *ClusterListBuilder: the builder
func NewClusterListBuilder(dispatcher *Dispatcher, logBase float32, depthGuided bool) *ClusterListBuilder {
	return &ClusterListBuilder{
		dispatcher:  dispatcher,
		logBase:     logBase,
		depthGuided: depthGuided,
		scratch: sync.Pool{New: func() any {
			return &clusterScratch{
				candidates: make([]clusterCandidate, 0, 64),
				voxel:      make([]uint32, 0, light.MaxLightsPerVoxel),
			}
		}},
	}
}

// tileSlicing returns the slicing used by a tile.
func (b *ClusterListBuilder) tileSlicing(res *FrameResourceContext, view *frameView, t int) ClusterSlicing {
	base := b.logBase
	if b.depthGuided {
		base = max(base, SuggestLogBase(res.tileDepthMax[t], view.near, view.far, light.NumClusters))
		res.logBases[t] = base
	}
	return NewClusterSlicing(view.near, view.far, base, light.NumClusters)
}

// tilePlanes returns the four side planes of a tile's view frustum, facing
// inward.
func tilePlanes(view *frameView, x0, y0, x1, y1 float32) [4]common.Plane {
	px := [4][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	var nearPts, farPts [4]mgl32.Vec3
	var centroid mgl32.Vec3
	for i, p := range px {
		nx, ny := view.toNDC(p[0], p[1])
		nearPts[i] = common.Unproject(view.invProj, mgl32.Vec3{nx, ny, view.ndcNear})
		farPts[i] = common.Unproject(view.invProj, mgl32.Vec3{nx, ny, view.ndcFar})
		centroid = centroid.Add(nearPts[i]).Add(farPts[i])
	}
	centroid = centroid.Mul(1.0 / 8)

	var planes [4]common.Plane
	for i := range planes {
		j := (i + 1) % 4
		pl := common.PlaneFromPoints(nearPts[i], farPts[i], nearPts[j])
		if pl.SignedDistance(centroid) < 0 {
			pl = pl.Flip()
		}
		planes[i] = pl
	}
	return planes
}

// sphereInVoxel tests a bounding sphere against a tile's side planes and a
// depth slab.
func sphereInVoxel(planes *[4]common.Plane, center mgl32.Vec3, radius, z0, z1 float32) bool {
	d := -center[2]
	if d+radius < z0 || d-radius > z1 {
		return false
	}
	for i := range planes {
		if planes[i].SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}

// Build resets the reservation counter and writes every voxel list of res.
//
// Parameters:
//   - res: the frame resources; tile depth bounds must be current
//   - view: the frame's projection state
//   - offsets: the category offset table of this frame
//   - bounds: proxies, indexed like the packed arrays
//   - aabbs: screen footprints, indexed like the packed arrays
//
// Returns:
//   - ClusterStats: capacity accounting
func (b *ClusterListBuilder) Build(res *FrameResourceContext, view *frameView, offsets *CategoryOffsetTable, bounds []light.GPULightBound, aabbs []ScreenAABB) ClusterStats {
	res.counter.Store(0)

	var overflowed, truncated atomic.Int64
	capacity := uint32(len(res.voxelLists))
	tilesX := res.tilesX
	numTiles := res.NumTiles()

	b.dispatcher.Dispatch(numTiles, func(t int) {
		scratch := b.scratch.Get().(*clusterScratch)
		defer b.scratch.Put(scratch)

		tx, ty := t%tilesX, t/tilesX
		x0 := float32(tx * light.TileSize)
		y0 := float32(ty * light.TileSize)
		x1 := min(x0+light.TileSize, view.width)
		y1 := min(y0+light.TileSize, view.height)
		slicing := b.tileSlicing(res, view, t)
		planes := tilePlanes(view, x0, y0, x1, y1)

		for m := range light.LightModel(light.NumLightModels) {
			off, cnt := offsets.ModelRange(m)
			cands := scratch.candidates[:0]
			for i := off; i < off+cnt; i++ {
				a := &aabbs[i]
				if !a.overlapsRect(x0, y0, x1, y1) {
					continue
				}
				cands = append(cands, clusterCandidate{
					index:      uint32(i),
					firstSlice: slicing.SliceOf(a.NearZ),
					lastSlice:  slicing.SliceOf(a.FarZ),
				})
			}
			scratch.candidates = cands

			entries := res.voxelEntries[(int(m)*numTiles+t)*light.NumClusters:][:light.NumClusters]
			for s := range light.NumClusters {
				z0, z1 := slicing.Boundary(s), slicing.Boundary(s+1)
				voxel := scratch.voxel[:0]
				for _, c := range cands {
					if s < c.firstSlice || s > c.lastSlice {
						continue
					}
					bd := &bounds[c.index]
					if !sphereInVoxel(&planes, bd.Center, bd.Radius, z0, z1) {
						continue
					}
					if len(voxel) == light.MaxLightsPerVoxel {
						truncated.Add(1)
						continue
					}
					voxel = append(voxel, c.index)
				}
				scratch.voxel = voxel

				n := uint32(len(voxel))
				if n == 0 {
					entries[s] = VoxelEntry{}
					continue
				}
				start := res.counter.Add(n) - n
				fit := uint32(0)
				if start < capacity {
					fit = min(n, capacity-start)
				}
				if fit < n {
					overflowed.Add(int64(n - fit))
				}
				if fit == 0 {
					entries[s] = VoxelEntry{}
					continue
				}
				copy(res.voxelLists[start:start+fit], voxel[:fit])
				entries[s] = VoxelEntry{Offset: start, Count: fit}
			}
		}
	})

	return ClusterStats{
		IndicesUsed: res.counter.Load(),
		Overflowed:  overflowed.Load(),
		Truncated:   truncated.Load(),
	}
}
