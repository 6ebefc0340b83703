package light

// TileSize is the width and height in pixels of each screen-space tile used
// for light culling. The screen is divided into a grid of tiles, each
// TileSize × TileSize pixels, and lights are assigned to tiles so shading only
// evaluates lights relevant to each tile.
const TileSize = 16

// TileListStride is the number of uint32 words reserved per (model, tile) in
// the FPTL light list: one count word followed by MaxLightsPerTile indices.
const TileListStride = 32

// MaxLightsPerTile is the maximum number of light indices stored per tile and
// model in the FPTL list. If more lights overlap a tile, excess lights are
// dropped and counted as overflow.
const MaxLightsPerTile = TileListStride - 1

// Log2NumClusters is log2 of the number of depth slices per tile in the
// clustered path. Accepted range is 0 to 6.
const Log2NumClusters = 6

// NumClusters is the number of depth slices per tile.
const NumClusters = 1 << Log2NumClusters

// ClusterLogBase is the default ratio between the thickness of consecutive
// depth slices: each slice is 2% thicker than the previous one.
const ClusterLogBase float32 = 1.02

// LightIndicesPerClusteredTile is the average global index budget per tile,
// summed over all its slices and models.
const LightIndicesPerClusteredTile = 8 * NumClusters

// MaxLightsPerVoxel caps a single voxel list so its count fits the low byte of
// a packed offset entry.
const MaxLightsPerVoxel = 255

// TileCounts computes the number of tiles in each dimension for a given screen
// resolution and the configured TileSize.
//
// Parameters:
//   - screenWidth: screen width in pixels
//   - screenHeight: screen height in pixels
//
// Returns:
//   - tileCountX: number of tile columns
//   - tileCountY: number of tile rows
func TileCounts(screenWidth, screenHeight int) (tileCountX, tileCountY uint32) {
	tileCountX = (uint32(screenWidth) + TileSize - 1) / TileSize
	tileCountY = (uint32(screenHeight) + TileSize - 1) / TileSize
	return
}

// PackVoxelEntry packs a voxel's list offset and count into one word: the
// offset in the upper 24 bits and the count in the low 8 bits.
//
// Parameters:
//   - offset: first slot in the global voxel index array
//   - count: number of indices (clamped to MaxLightsPerVoxel)
//
// Returns:
//   - uint32: the packed entry
func PackVoxelEntry(offset, count uint32) uint32 {
	if count > MaxLightsPerVoxel {
		count = MaxLightsPerVoxel
	}
	return offset<<8 | count
}

// UnpackVoxelEntry is the inverse of PackVoxelEntry.
func UnpackVoxelEntry(packed uint32) (offset, count uint32) {
	return packed >> 8, packed & 0xFF
}
