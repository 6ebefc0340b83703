package cull

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-cull/engine/light"
)

var (
	// ErrInvalidResolution is returned when a frame resolution is not positive.
	ErrInvalidResolution = errors.New("cull: resolution must be positive")

	// ErrResolutionTooLarge is returned when the voxel index capacity of a
	// resolution cannot be addressed by a packed voxel entry.
	ErrResolutionTooLarge = errors.New("cull: resolution exceeds the addressable voxel list capacity")
)

// maxPackedVoxelOffset is the largest offset a packed voxel entry can hold.
const maxPackedVoxelOffset = 1 << 24

// VoxelEntry locates the index list of one (model, tile, slice) voxel in the
// global voxel index array.
type VoxelEntry struct {
	Offset uint32
	Count  uint32
}

// FrameResourceContext owns every buffer the culling stages write.
//
// Light-count-sized buffers (records, bounds, screen AABBs, directional
// lights) are allocated once. Resolution-dependent buffers (tile lists, voxel
// entries and lists, per-tile depth bounds and log bases) are reallocated only
// when the resolution changes. Outputs read from the context are valid until
// the next Cull.
type FrameResourceContext struct {
	clustered   bool
	depthGuided bool

	width, height  int
	tilesX, tilesY int
	allocated      bool

	lightData []light.GPULightData
	bounds    []light.GPULightBound
	aabbs     []ScreenAABB
	dirLights []light.GPUDirectionalLight

	tileLists    []uint32
	voxelEntries []VoxelEntry
	voxelLists   []uint32
	logBases     []float32
	tileDepthMin []float32
	tileDepthMax []float32

	// counter is the running reservation cursor into voxelLists.
	counter atomic.Uint32
}

// NewFrameResourceContext creates a context with its light-count-sized
// buffers. Resolution-dependent buffers are created by Allocate.
//
// Parameters:
//   - clustered: whether voxel buffers are needed
//   - depthGuided: whether the per-tile log base buffer is needed
//
// Returns:
//   - *FrameResourceContext: the context
func NewFrameResourceContext(clustered, depthGuided bool) *FrameResourceContext {
	return &FrameResourceContext{
		clustered:   clustered,
		depthGuided: depthGuided,
		lightData:   make([]light.GPULightData, light.MaxNumLights),
		bounds:      make([]light.GPULightBound, light.MaxNumLights),
		aabbs:       make([]ScreenAABB, light.MaxNumLights),
		dirLights:   make([]light.GPUDirectionalLight, light.MaxNumDirLights),
	}
}

// Allocate sizes the resolution-dependent buffers for width × height,
// releasing any previous allocation first.
//
// Parameters:
//   - width, height: the render target size in pixels
//
// Returns:
//   - error: ErrInvalidResolution or ErrResolutionTooLarge
func (r *FrameResourceContext) Allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, width, height)
	}
	tx, ty := light.TileCounts(width, height)
	numTiles := int(tx) * int(ty)
	if r.clustered && light.LightIndicesPerClusteredTile*numTiles > maxPackedVoxelOffset {
		return fmt.Errorf("%w: %dx%d", ErrResolutionTooLarge, width, height)
	}

	r.Release()
	r.width, r.height = width, height
	r.tilesX, r.tilesY = int(tx), int(ty)

	r.tileLists = make([]uint32, light.NumLightModels*numTiles*light.TileListStride)
	r.tileDepthMin = make([]float32, numTiles)
	r.tileDepthMax = make([]float32, numTiles)
	if r.clustered {
		r.voxelEntries = make([]VoxelEntry, light.NumLightModels*numTiles*light.NumClusters)
		r.voxelLists = make([]uint32, light.LightIndicesPerClusteredTile*numTiles)
		if r.depthGuided {
			r.logBases = make([]float32, numTiles)
		}
	}
	r.counter.Store(0)
	r.allocated = true
	return nil
}

// Release drops the resolution-dependent buffers.
func (r *FrameResourceContext) Release() {
	r.tileLists = nil
	r.voxelEntries = nil
	r.voxelLists = nil
	r.logBases = nil
	r.tileDepthMin = nil
	r.tileDepthMax = nil
	r.width, r.height = 0, 0
	r.tilesX, r.tilesY = 0, 0
	r.allocated = false
}

// ResizeIfNecessary reallocates when the resolution differs from the current
// allocation.
//
// Parameters:
//   - width, height: the render target size in pixels
//
// Returns:
//   - bool: true if buffers were (re)allocated
//   - error: any Allocate error
func (r *FrameResourceContext) ResizeIfNecessary(width, height int) (bool, error) {
	if r.allocated && r.width == width && r.height == height {
		return false, nil
	}
	if err := r.Allocate(width, height); err != nil {
		return false, err
	}
	return true, nil
}

// Size returns the allocated resolution.
func (r *FrameResourceContext) Size() (width, height int) {
	return r.width, r.height
}

// TileCounts returns the allocated tile grid dimensions.
func (r *FrameResourceContext) TileCounts() (tilesX, tilesY int) {
	return r.tilesX, r.tilesY
}

// NumTiles returns the number of tiles of the allocated grid.
func (r *FrameResourceContext) NumTiles() int {
	return r.tilesX * r.tilesY
}

// Clustered reports whether voxel buffers are maintained.
func (r *FrameResourceContext) Clustered() bool {
	return r.clustered
}

// VoxelCapacity returns the size of the global voxel index array.
func (r *FrameResourceContext) VoxelCapacity() int {
	return len(r.voxelLists)
}

// IndicesUsed returns how many voxel index slots the last clustered build
// reserved. It can exceed VoxelCapacity when the build overflowed.
func (r *FrameResourceContext) IndicesUsed() uint32 {
	return r.counter.Load()
}

// TileListWords returns the raw FPTL buffer: per (model, tile) a block of
// TileListStride words, count first.
func (r *FrameResourceContext) TileListWords() []uint32 {
	return r.tileLists
}

// TileList returns the light indices stored for a model and tile.
//
// Parameters:
//   - model: the light model
//   - tile: tile index, row-major from the bottom-left tile
//
// Returns:
//   - []uint32: packed record indices, aliasing the tile buffer
func (r *FrameResourceContext) TileList(model light.LightModel, tile int) []uint32 {
	base := r.tileBase(model, tile)
	n := r.tileLists[base]
	return r.tileLists[base+1 : base+1+int(n)]
}

func (r *FrameResourceContext) tileBase(model light.LightModel, tile int) int {
	return (int(model)*r.NumTiles() + tile) * light.TileListStride
}

// VoxelEntries returns the raw voxel entry table, indexed by
// (model·numTiles + tile)·NumClusters + slice.
func (r *FrameResourceContext) VoxelEntries() []VoxelEntry {
	return r.voxelEntries
}

// VoxelListWords returns the global voxel index array.
func (r *FrameResourceContext) VoxelListWords() []uint32 {
	return r.voxelLists
}

// VoxelList returns the light indices stored for one voxel.
//
// Parameters:
//   - model: the light model
//   - tile: tile index
//   - slice: depth slice in [0, NumClusters)
//
// Returns:
//   - []uint32: packed record indices, aliasing the voxel index array
func (r *FrameResourceContext) VoxelList(model light.LightModel, tile, slice int) []uint32 {
	e := r.voxelEntries[r.voxelIndex(model, tile, slice)]
	return r.voxelLists[e.Offset : e.Offset+e.Count]
}

func (r *FrameResourceContext) voxelIndex(model light.LightModel, tile, slice int) int {
	return (int(model)*r.NumTiles()+tile)*light.NumClusters + slice
}

// LogBases returns the per-tile depth-guided log bases, or nil when
// depth-guided slicing is disabled.
func (r *FrameResourceContext) LogBases() []float32 {
	return r.logBases
}

// TileDepthBounds returns the per-tile occupied depth range of the last frame
// that supplied a depth source.
func (r *FrameResourceContext) TileDepthBounds() (minDepth, maxDepth []float32) {
	return r.tileDepthMin, r.tileDepthMax
}
