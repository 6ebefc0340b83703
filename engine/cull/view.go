package cull

import (
	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/go-gl/mathgl/mgl32"
)

// frameView is the per-frame projection state shared by the screen-space
// stages.
type frameView struct {
	proj    mgl32.Mat4
	invProj mgl32.Mat4
	width   float32
	height  float32
	near    float32
	far     float32
	frustum common.Frustum

	// NDC depths of the near and far planes, for unprojecting tile corners
	// without assuming a depth convention.
	ndcNear float32
	ndcFar  float32
}

func newFrameView(proj mgl32.Mat4, width, height int, near, far float32) frameView {
	n, _ := common.Project(proj, mgl32.Vec3{0, 0, -near})
	f, _ := common.Project(proj, mgl32.Vec3{0, 0, -far})
	return frameView{
		proj:    proj,
		invProj: proj.Inv(),
		width:   float32(width),
		height:  float32(height),
		near:    near,
		far:     far,
		frustum: common.ExtractFrustumFromMatrix(proj),
		ndcNear: n[2],
		ndcFar:  f[2],
	}
}

// toPixels maps an NDC xy position to pixel coordinates, y up.
func (v *frameView) toPixels(ndc mgl32.Vec3) (float32, float32) {
	return (ndc[0]*0.5 + 0.5) * v.width, (ndc[1]*0.5 + 0.5) * v.height
}

// toNDC maps a pixel position to NDC xy.
func (v *frameView) toNDC(x, y float32) (float32, float32) {
	return x/v.width*2 - 1, y/v.height*2 - 1
}

// screenProjection returns the projection that maps view space straight to
// pixel coordinates (x, y) with depth remapped to [0, 1] from NDC [-1, 1].
func (v *frameView) screenProjection() mgl32.Mat4 {
	toScreen := mgl32.Mat4{
		0.5 * v.width, 0, 0, 0,
		0, 0.5 * v.height, 0, 0,
		0, 0, 0.5, 0,
		0.5 * v.width, 0.5 * v.height, 0.5, 1,
	}
	return toScreen.Mul4(v.proj)
}
