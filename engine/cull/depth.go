package cull

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
)

// ErrDepthSizeMismatch is returned when a depth source does not match the
// frame resolution.
var ErrDepthSizeMismatch = errors.New("cull: depth source size does not match the frame resolution")

// DepthSource is a read-only opaque-depth buffer holding positive linear view
// depth per pixel. Row 0 is the bottom row of the screen, matching
// ScreenAABB pixel coordinates. Pixels without geometry hold the far plane
// distance or more.
type DepthSource interface {
	// Size returns the buffer dimensions in pixels.
	Size() (width, height int)

	// LinearDepth returns the view depth at a pixel.
	LinearDepth(x, y int) float32
}

// LinearDepthBuffer is a CPU-side DepthSource.
type LinearDepthBuffer struct {
	width  int
	height int
	depth  []float32
}

var _ DepthSource = &LinearDepthBuffer{}

// NewLinearDepthBuffer creates a buffer with no geometry (every pixel at
// FltMax).
//
// Parameters:
//   - width, height: dimensions in pixels
//
// Returns:
//   - *LinearDepthBuffer: the buffer
func NewLinearDepthBuffer(width, height int) *LinearDepthBuffer {
	d := &LinearDepthBuffer{width: width, height: height, depth: make([]float32, width*height)}
	d.Fill(common.FltMax)
	return d
}

func (d *LinearDepthBuffer) Size() (int, int) {
	return d.width, d.height
}

func (d *LinearDepthBuffer) LinearDepth(x, y int) float32 {
	return d.depth[y*d.width+x]
}

// Set stores the depth of one pixel.
func (d *LinearDepthBuffer) Set(x, y int, depth float32) {
	d.depth[y*d.width+x] = depth
}

// Fill stores the same depth in every pixel.
func (d *LinearDepthBuffer) Fill(depth float32) {
	for i := range d.depth {
		d.depth[i] = depth
	}
}

// FillRect stores depth in the pixels of [x0,x1)×[y0,y1), clamped to the buffer.
func (d *LinearDepthBuffer) FillRect(x0, y0, x1, y1 int, depth float32) {
	x0, x1 = common.ClampInt(x0, 0, d.width), common.ClampInt(x1, 0, d.width)
	y0, y1 = common.ClampInt(y0, 0, d.height), common.ClampInt(y1, 0, d.height)
	for y := y0; y < y1; y++ {
		row := d.depth[y*d.width : (y+1)*d.width]
		for x := x0; x < x1; x++ {
			row[x] = depth
		}
	}
}

// computeTileDepthBounds reduces the depth source to a [min, max] occupied
// depth range per tile, clamped to [near, far]. A tile with no geometry ends
// up as [far, far].
func computeTileDepthBounds(d *Dispatcher, res *FrameResourceContext, depth DepthSource, near, far float32) error {
	w, h := depth.Size()
	if w != res.width || h != res.height {
		return fmt.Errorf("%w: depth %dx%d, frame %dx%d", ErrDepthSizeMismatch, w, h, res.width, res.height)
	}
	tilesX := res.tilesX
	d.Dispatch(res.NumTiles(), func(t int) {
		tx, ty := t%tilesX, t/tilesX
		x0, y0 := tx*light.TileSize, ty*light.TileSize
		x1, y1 := min(x0+light.TileSize, w), min(y0+light.TileSize, h)
		zMin, zMax := far, near
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				z := min(max(depth.LinearDepth(x, y), near), far)
				zMin = min(zMin, z)
				zMax = max(zMax, z)
			}
		}
		res.tileDepthMin[t] = zMin
		res.tileDepthMax[t] = zMax
	})
	return nil
}

// resetTileDepthBounds marks every tile as spanning the whole depth range.
func resetTileDepthBounds(res *FrameResourceContext, near, far float32) {
	for t := range res.tileDepthMin {
		res.tileDepthMin[t] = near
		res.tileDepthMax[t] = far
	}
}
