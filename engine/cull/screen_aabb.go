package cull

import (
	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// ScreenAABB is the conservative screen-space footprint of one proxy: a pixel
// rectangle (y up, row 0 at the bottom) and a positive view-depth range.
type ScreenAABB struct {
	MinX, MinY float32
	MaxX, MaxY float32
	NearZ      float32
	FarZ       float32
	Visible    bool
}

// overlapsRect reports whether the AABB's rectangle intersects [x0,x1)×[y0,y1).
func (a *ScreenAABB) overlapsRect(x0, y0, x1, y1 float32) bool {
	return a.Visible && a.MaxX > x0 && a.MinX < x1 && a.MaxY > y0 && a.MinY < y1
}

// overlapsDepth reports whether the AABB's depth range intersects [z0, z1].
func (a *ScreenAABB) overlapsDepth(z0, z1 float32) bool {
	return a.FarZ >= z0 && a.NearZ <= z1
}

// hexEdges lists the corner pairs of a hexahedron whose corner index bits
// are (x, y, z).
var hexEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// ScreenAABBProjector computes one ScreenAABB per proxy, one task per proxy.
type ScreenAABBProjector struct {
	dispatcher *Dispatcher
}

// NewScreenAABBProjector creates a projector running on the dispatcher.
func NewScreenAABBProjector(dispatcher *Dispatcher) *ScreenAABBProjector {
	return &ScreenAABBProjector{dispatcher: dispatcher}
}

// Project fills out[i] with the footprint of bounds[i].
//
// Parameters:
//   - bounds: view-space proxies
//   - view: the frame's projection state
//   - out: destination, at least len(bounds) long
func (p *ScreenAABBProjector) Project(bounds []light.GPULightBound, view *frameView, out []ScreenAABB) {
	p.dispatcher.Dispatch(len(bounds), func(i int) {
		out[i] = projectBound(&bounds[i], view)
	})
}

// proxyCorners returns the eight corners of a proxy hexahedron. The -Z cap is
// scaled by ScaleXY.
func proxyCorners(b *light.GPULightBound) [8]mgl32.Vec3 {
	var corners [8]mgl32.Vec3
	for i := range corners {
		sx, sy, sz := float32(-1), float32(-1), float32(-1)
		if i&1 != 0 {
			sx = 1
		}
		if i&2 != 0 {
			sy = 1
		}
		if i&4 != 0 {
			sz = 1
		}
		scaleX, scaleY := float32(1), float32(1)
		if sz < 0 {
			scaleX, scaleY = b.ScaleXY[0], b.ScaleXY[1]
		}
		corners[i] = b.Center.
			Add(b.BoxAxisX.Mul(sx * scaleX)).
			Add(b.BoxAxisY.Mul(sy * scaleY)).
			Add(b.BoxAxisZ.Mul(sz))
	}
	return corners
}

// projectBound computes the footprint of a single proxy.
func projectBound(b *light.GPULightBound, view *frameView) ScreenAABB {
	if view.frustum.SphereOutside(b.Center, b.Radius) {
		return ScreenAABB{}
	}

	corners := proxyCorners(b)
	var depth [8]float32
	zMin, zMax := common.FltMax, -common.FltMax
	for i, c := range corners {
		depth[i] = -c[2]
		zMin = min(zMin, depth[i])
		zMax = max(zMax, depth[i])
	}
	if zMax < view.near {
		return ScreenAABB{}
	}

	minX, minY := common.FltMax, common.FltMax
	maxX, maxY := -common.FltMax, -common.FltMax
	add := func(p mgl32.Vec3) {
		ndc, _ := common.Project(view.proj, p)
		x, y := view.toPixels(ndc)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	for i, c := range corners {
		if depth[i] >= view.near {
			add(c)
		}
	}
	// Edges crossing the near plane contribute their intersection point.
	for _, e := range hexEdges {
		d0, d1 := depth[e[0]], depth[e[1]]
		if (d0 < view.near) == (d1 < view.near) {
			continue
		}
		t := (view.near - d0) / (d1 - d0)
		c0, c1 := corners[e[0]], corners[e[1]]
		add(c0.Add(c1.Sub(c0).Mul(t)))
	}

	minX, maxX = max(minX, 0), min(maxX, view.width)
	minY, maxY = max(minY, 0), min(maxY, view.height)
	if minX >= maxX || minY >= maxY {
		return ScreenAABB{}
	}

	// Tighten the corner depth range with the bounding sphere.
	centerDepth := -b.Center[2]
	zMin = max(zMin, centerDepth-b.Radius, view.near)
	zMax = min(zMax, centerDepth+b.Radius, view.far)
	if zMin > zMax {
		return ScreenAABB{}
	}

	return ScreenAABB{
		MinX:    minX,
		MinY:    minY,
		MaxX:    maxX,
		MaxY:    maxY,
		NearZ:   zMin,
		FarZ:    zMax,
		Visible: true,
	}
}
