package cull

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/camera"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoListsEnabled is returned by NewLightCuller when neither tile nor
	// voxel lists are enabled.
	ErrNoListsEnabled = errors.New("cull: at least one of FPTL or clustered lists must be enabled")

	// ErrInvalidClipPlanes is returned when the camera's near plane is not
	// positive or not in front of the far plane.
	ErrInvalidClipPlanes = errors.New("cull: camera clip planes must satisfy 0 < near < far")

	// ErrNilCamera is returned when a frame has no camera.
	ErrNilCamera = errors.New("cull: frame has no camera")
)

// Frame is the input of one Cull call.
type Frame struct {
	// Camera supplies the view and projection matrices, clip planes and
	// render target size.
	Camera camera.Camera
	// Lights are the visible lights of the frame; disabled lights are ignored.
	Lights []light.Light
	// Probes are the visible reflection probes of the frame.
	Probes []light.ReflectionProbe
	// Depth is the optional opaque depth used to tighten per-tile depth ranges.
	Depth DepthSource
	// DirShadowSplitSpheres are the directional cascade spheres from the
	// shadow pass.
	DirShadowSplitSpheres [light.MaxDirectionalSplit]mgl32.Vec4
}

// FrameOutput is the result of one Cull call. Slices alias the culler's
// FrameResourceContext and are valid until the next Cull.
type FrameOutput struct {
	Proxies           *ProxySet
	AABBs             []ScreenAABB
	DirectionalLights []light.GPUDirectionalLight
	Shadows           *light.ShadowConstants
	Uniforms          light.GPULightCullUniforms
	Resources         *FrameResourceContext
	TileStats         TileStats
	ClusterStats      ClusterStats
	// Resized is true when this frame reallocated resolution-dependent buffers.
	Resized bool
}

// LightCuller builds per-tile and per-voxel light lists for a frame.
type LightCuller interface {
	// Cull runs every enabled stage for the frame.
	//
	// Parameters:
	//   - frame: the frame input
	//
	// Returns:
	//   - *FrameOutput: the frame's lists and records
	//   - error: a configuration error or ErrCategoryCountMismatch
	Cull(frame Frame) (*FrameOutput, error)

	// Resources returns the culler's frame resources.
	Resources() *FrameResourceContext

	// Clustered reports whether voxel lists are built.
	Clustered() bool

	// Fptl reports whether tile lists are built.
	Fptl() bool

	// Release drops the resolution-dependent buffers.
	Release()
}

type lightCuller struct {
	clustered   bool
	fptl        bool
	depthGuided bool
	logBase     float32
	workers     int
	atlasWidth  int
	atlasHeight int
	logger      common.Logger

	dispatcher *Dispatcher
	resources  *FrameResourceContext
	proxies    *LightProxyBuilder
	projector  *ScreenAABBProjector
	tiles      *TileListBuilder
	clusters   *ClusterListBuilder
	shadows    *light.ShadowBudget
	dirMonitor *common.CapacityMonitor

	visible []light.Light
}

var _ LightCuller = &lightCuller{}

// NewLightCuller creates a LightCuller with FPTL lists enabled, clustered
// lists disabled and any provided options applied.
//
// Parameters:
//   - options: variadic list of LightCullerBuilderOption functions
//
// Returns:
//   - LightCuller: the culler
//   - error: ErrNoListsEnabled if the options disable both list kinds
func NewLightCuller(options ...LightCullerBuilderOption) (LightCuller, error) {
	c := &lightCuller{
		fptl:    true,
		logBase: light.ClusterLogBase,
		logger:  common.NewDefaultLogger("cull", false),
	}
	for _, opt := range options {
		opt(c)
	}
	if !c.fptl && !c.clustered {
		return nil, ErrNoListsEnabled
	}
	c.depthGuided = c.depthGuided && c.clustered

	c.dispatcher = NewDispatcher(c.workers)
	c.resources = NewFrameResourceContext(c.clustered, c.depthGuided)
	c.proxies = NewLightProxyBuilder(c.logger)
	c.projector = NewScreenAABBProjector(c.dispatcher)
	c.tiles = NewTileListBuilder(c.dispatcher)
	c.clusters = NewClusterListBuilder(c.dispatcher, c.logBase, c.depthGuided)
	c.shadows = light.NewShadowBudget(c.logger, c.atlasWidth, c.atlasHeight)
	c.dirMonitor = common.NewCapacityMonitor("directional lights", light.MaxNumDirLights, c.logger)
	c.visible = make([]light.Light, 0, light.MaxNumLights)
	return c, nil
}

func (c *lightCuller) Cull(frame Frame) (*FrameOutput, error) {
	cam := frame.Camera
	if cam == nil {
		return nil, ErrNilCamera
	}
	near, far := cam.Near(), cam.Far()
	if near <= 0 || far <= near {
		return nil, fmt.Errorf("%w: near %g, far %g", ErrInvalidClipPlanes, near, far)
	}
	width, height := cam.PixelSize()
	resized, err := c.resources.ResizeIfNecessary(width, height)
	if err != nil {
		return nil, err
	}
	if resized {
		c.logger.Debugf("resized culling buffers to %dx%d", width, height)
	}

	c.visible = c.visible[:0]
	for _, l := range frame.Lights {
		if l != nil && l.Enabled() {
			c.visible = append(c.visible, l)
		}
	}

	viewMat := cam.ViewMatrix()
	shadows := c.shadows.Update(c.visible, frame.DirShadowSplitSpheres)

	proxies, err := c.proxies.Build(viewMat, c.visible, frame.Probes, shadows, c.resources)
	if err != nil {
		c.logger.Errorf("discarding frame: %v", err)
		return nil, fmt.Errorf("build light proxies: %w", err)
	}

	view := newFrameView(cam.ProjectionMatrix(), width, height, near, far)
	aabbs := c.resources.aabbs[:proxies.Len()]
	c.projector.Project(proxies.Bounds, &view, aabbs)

	if frame.Depth != nil {
		if err := computeTileDepthBounds(c.dispatcher, c.resources, frame.Depth, near, far); err != nil {
			return nil, err
		}
	} else {
		resetTileDepthBounds(c.resources, near, far)
	}

	out := &FrameOutput{
		Proxies:   proxies,
		AABBs:     aabbs,
		Shadows:   shadows,
		Resources: c.resources,
		Resized:   resized,
	}
	if c.fptl {
		out.TileStats = c.tiles.Build(c.resources, &proxies.Offsets, aabbs)
		if out.TileStats.Overflowed > 0 {
			c.logger.Debugf("tile lists overflowed by %d entries", out.TileStats.Overflowed)
		}
	}
	if c.clustered {
		out.ClusterStats = c.clusters.Build(c.resources, &view, &proxies.Offsets, proxies.Bounds, aabbs)
		if out.ClusterStats.Overflowed > 0 {
			c.logger.Debugf("voxel lists overflowed by %d entries", out.ClusterStats.Overflowed)
		}
	}

	out.DirectionalLights = buildDirectionalLights(viewMat, c.visible, shadows, c.dirMonitor, c.resources.dirLights)
	out.Uniforms = c.uniforms(&view, proxies.Len(), len(out.DirectionalLights))
	return out, nil
}

// uniforms fills the parameter block shading reads.
func (c *lightCuller) uniforms(view *frameView, numLights, numDirLights int) light.GPULightCullUniforms {
	scr := view.screenProjection()
	u := light.GPULightCullUniforms{
		ScrProjection:    scr,
		InvScrProjection: scr.Inv(),
		WidthRT:          uint32(view.width),
		HeightRT:         uint32(view.height),
		TileCountX:       uint32(c.resources.tilesX),
		TileCountY:       uint32(c.resources.tilesY),
		NumVisibleLights: uint32(numLights),
		NumDirLights:     uint32(numDirLights),
		Log2NumClusters:  light.Log2NumClusters,
		NearPlane:        view.near,
		FarPlane:         view.far,
		ClustBase:        c.logBase,
	}
	if c.depthGuided {
		u.LogBaseBufferEnabled = 1
	}
	// Shading maps depth to a slice index with the inverse of the slice scale.
	slicing := NewClusterSlicing(view.near, view.far, c.logBase, light.NumClusters)
	u.ClustScale = 1 / slicing.Scale
	return u
}

func (c *lightCuller) Resources() *FrameResourceContext {
	return c.resources
}

func (c *lightCuller) Clustered() bool {
	return c.clustered
}

func (c *lightCuller) Fptl() bool {
	return c.fptl
}

func (c *lightCuller) Release() {
	c.resources.Release()
}
