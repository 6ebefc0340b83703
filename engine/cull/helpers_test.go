package cull

import (
	"github.com/Carmen-Shannon/oxy-cull/engine/camera"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Test cameras sit at the origin looking down -Z, so world space is view
// space. A 90° vertical field of view with a square target maps x/-z straight
// to NDC.
const (
	testNear float32 = 1
	testFar  float32 = 100
)

func newTestCamera(width, height int) camera.Camera {
	return camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(90)),
		camera.WithClipPlanes(testNear, testFar),
		camera.WithPixelSize(width, height),
	)
}

func newTestView(width, height int) frameView {
	cam := newTestCamera(width, height)
	return newFrameView(cam.ProjectionMatrix(), width, height, testNear, testFar)
}

func pointLight(x, y, z, r float32) light.Light {
	return light.NewLight(light.LightTypePoint, light.WithPosition(x, y, z), light.WithRange(r))
}

func spotLight(x, y, z, r, angle float32) light.Light {
	return light.NewLight(light.LightTypeSpot,
		light.WithPosition(x, y, z),
		light.WithDirection(0, 0, -1),
		light.WithRange(r),
		light.WithSpotAngle(angle),
	)
}

func tileIndex(res *FrameResourceContext, tx, ty int) int {
	return ty*res.tilesX + tx
}

func containsIndex(list []uint32, idx uint32) bool {
	for _, v := range list {
		if v == idx {
			return true
		}
	}
	return false
}
