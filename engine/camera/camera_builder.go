package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a function that configures a camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithPixelSize sets the render target size in pixels.
//
// Parameters:
//   - width, height: size in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the pixel size
func WithPixelSize(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pixelWidth = width
		c.pixelHeight = height
	}
}

// WithLookAt places the camera at eye looking toward target.
//
// Parameters:
//   - eye: camera position
//   - target: point the camera looks at
//   - up: up direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the view
func WithLookAt(eye, target, up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = eye
		c.target = target
		c.up = up
	}
}

// WithProjectionMatrix replaces the perspective projection with a custom matrix.
//
// Parameters:
//   - m: the projection matrix
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjectionMatrix(m mgl32.Mat4) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.customProjection = true
		c.projectionMatrix = m
	}
}
