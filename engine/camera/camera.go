package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3

	fov  float32
	near float32
	far  float32

	pixelWidth  int
	pixelHeight int

	customProjection bool

	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
}

// Camera defines the view a frame is culled for: a right-handed view matrix
// (camera looking down -Z), a projection matrix, clip planes and the pixel
// size of the render target.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// PixelSize returns the render target size in pixels.
	//
	// Returns:
	//   - width, height: size in pixels
	PixelSize() (width, height int)

	// Eye returns the world-space camera position.
	Eye() mgl32.Vec3

	// ViewMatrix returns the world-to-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view-to-clip matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// LookAt places the camera at eye looking toward target.
	//
	// Parameters:
	//   - eye: camera position
	//   - target: point the camera looks at
	//   - up: up direction
	LookAt(eye, target, up mgl32.Vec3)

	// SetPixelSize sets the render target size in pixels and updates the
	// aspect ratio of the perspective projection.
	//
	// Parameters:
	//   - width, height: size in pixels
	SetPixelSize(width, height int)

	// SetFov sets the vertical field of view in radians.
	SetFov(fov float32)

	// SetClipPlanes sets the near and far plane distances.
	SetClipPlanes(near, far float32)

	// SetProjectionMatrix overrides the perspective projection. The near and
	// far planes must still be set to match it.
	SetProjectionMatrix(m mgl32.Mat4)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin looking down -Z with a 60° field
// of view and a 1280x720 target, then applies the options.
//
// Parameters:
//   - options: variadic list of CameraBuilderOption functions
//
// Returns:
//   - Camera: the camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		eye:         mgl32.Vec3{0, 0, 0},
		target:      mgl32.Vec3{0, 0, -1},
		up:          mgl32.Vec3{0, 1, 0},
		fov:         mgl32.DegToRad(60),
		near:        0.1,
		far:         1000,
		pixelWidth:  1280,
		pixelHeight: 720,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) PixelSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelWidth, c.pixelHeight
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) LookAt(eye, target, up mgl32.Vec3) {
	c.mu.Lock()
	c.eye, c.target, c.up = eye, target, up
	c.updateMatrices()
	c.mu.Unlock()
}

func (c *cameraImpl) SetPixelSize(width, height int) {
	c.mu.Lock()
	c.pixelWidth, c.pixelHeight = width, height
	c.updateMatrices()
	c.mu.Unlock()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	c.fov = fov
	c.updateMatrices()
	c.mu.Unlock()
}

func (c *cameraImpl) SetClipPlanes(near, far float32) {
	c.mu.Lock()
	c.near, c.far = near, far
	c.updateMatrices()
	c.mu.Unlock()
}

func (c *cameraImpl) SetProjectionMatrix(m mgl32.Mat4) {
	c.mu.Lock()
	c.customProjection = true
	c.projectionMatrix = m
	c.mu.Unlock()
}

// updateMatrices recomputes the view matrix and, unless overridden, the
// perspective projection. The caller must hold c.mu (or own c exclusively).
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.eye, c.target, c.up)
	if c.customProjection {
		return
	}
	aspect := float32(1)
	if c.pixelHeight > 0 {
		aspect = float32(c.pixelWidth) / float32(c.pixelHeight)
	}
	c.projectionMatrix = mgl32.Perspective(c.fov, aspect, c.near, c.far)
}
