package cull

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-cull/engine/light"
)

// TileStats reports the outcome of one FPTL build.
type TileStats struct {
	// Overflowed counts (tile, light) pairs dropped because a tile list was full.
	Overflowed int64
	// MaxListLength is the longest list written.
	MaxListLength int
}

// TileListBuilder writes the fine-pruned per-tile light lists: for every tile
// and light model, up to MaxLightsPerTile indices into the packed arrays.
type TileListBuilder struct {
	dispatcher *Dispatcher
}

// NewTileListBuilder creates a builder running on the dispatcher.
func NewTileListBuilder(dispatcher *Dispatcher) *TileListBuilder {
	return &TileListBuilder{dispatcher: dispatcher}
}

// Build writes every (model, tile) list of res. Lists hold indices in
// ascending order within each model's sub-range, so a shading pass walks
// categories in order. When a list is full, further lights are dropped.
//
// Parameters:
//   - res: the frame resources; tile depth bounds must be current
//   - offsets: the category offset table of this frame
//   - aabbs: screen footprints, indexed like the packed arrays
//
// Returns:
//   - TileStats: overflow accounting
func (b *TileListBuilder) Build(res *FrameResourceContext, offsets *CategoryOffsetTable, aabbs []ScreenAABB) TileStats {
	var overflowed atomic.Int64
	var longest atomic.Int64
	tilesX := res.tilesX
	numTiles := res.NumTiles()
	width, height := float32(res.width), float32(res.height)

	b.dispatcher.Dispatch(numTiles, func(t int) {
		tx, ty := t%tilesX, t/tilesX
		x0 := float32(tx * light.TileSize)
		y0 := float32(ty * light.TileSize)
		x1 := min(x0+light.TileSize, width)
		y1 := min(y0+light.TileSize, height)
		zMin, zMax := res.tileDepthMin[t], res.tileDepthMax[t]

		for m := range light.LightModel(light.NumLightModels) {
			off, cnt := offsets.ModelRange(m)
			base := (int(m)*numTiles + t) * light.TileListStride
			list := res.tileLists[base : base+light.TileListStride]
			n := 0
			for i := off; i < off+cnt; i++ {
				a := &aabbs[i]
				if !a.overlapsRect(x0, y0, x1, y1) || !a.overlapsDepth(zMin, zMax) {
					continue
				}
				if n == light.MaxLightsPerTile {
					overflowed.Add(1)
					continue
				}
				list[1+n] = uint32(i)
				n++
			}
			list[0] = uint32(n)
			storeMax(&longest, int64(n))
		}
	})

	return TileStats{Overflowed: overflowed.Load(), MaxListLength: int(longest.Load())}
}

// storeMax raises v to at least n.
func storeMax(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n <= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}
