package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/camera"
	"github.com/Carmen-Shannon/oxy-cull/engine/cull"
	"github.com/Carmen-Shannon/oxy-cull/engine/gpu"
	"github.com/Carmen-Shannon/oxy-cull/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cull/engine/window"
)

// ErrNoFrameSource is returned by Step when no frame source is set.
var ErrNoFrameSource = errors.New("engine: no frame source set")

// engine is the implementation of the Engine interface.
type engine struct {
	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	// frameMu serializes tick callbacks with frame culling, so game logic
	// never mutates lights while a frame reads them.
	frameMu sync.Mutex

	window window.Window
	camera camera.Camera
	culler cull.LightCuller
	logger common.Logger

	device  *gpu.Device
	buffers *gpu.CullBuffers

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	frameSource    func(deltaTime float32) cull.Frame
	outputCallback func(out *cull.FrameOutput)

	renderFrameLimit time.Duration
}

// Engine drives per-frame light culling. A tick goroutine runs game logic at
// a fixed rate while a frame goroutine pulls frames from the frame source,
// culls them, uploads the result when a GPU device is attached and reports
// statistics to the profiler.
type Engine interface {
	// Window returns the window driving the render target size, or nil.
	Window() window.Window

	// Camera returns the camera used for every frame.
	Camera() camera.Camera

	// Culler returns the light culler.
	Culler() cull.LightCuller

	// Buffers returns the GPU culling buffers, or nil when no device is attached.
	Buffers() *gpu.CullBuffers

	// EnableProfiler enables periodic culling statistics.
	EnableProfiler()

	// DisableProfiler disables periodic culling statistics.
	DisableProfiler()

	// SetTickRate sets the game logic tick rate.
	//
	// Parameters:
	//   - fps: target ticks per second (<= 0 resets to 60)
	SetTickRate(fps float64)

	// SetTickCallback sets the callback invoked every tick.
	//
	// Parameters:
	//   - callback: receives the time since the previous tick in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetFrameSource sets the function that supplies each frame's lights,
	// probes and depth. The engine fills in its camera when the frame has none.
	//
	// Parameters:
	//   - source: receives the time since the previous frame in seconds
	SetFrameSource(source func(deltaTime float32) cull.Frame)

	// SetOutputCallback sets the callback invoked with every culled frame.
	//
	// Parameters:
	//   - callback: receives the frame output, valid until the next frame
	SetOutputCallback(callback func(out *cull.FrameOutput))

	// SetRenderFrameLimit caps the frame loop rate.
	//
	// Parameters:
	//   - fps: maximum frames per second (<= 0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step culls one frame synchronously.
	//
	// Parameters:
	//   - deltaTime: time since the previous frame in seconds
	//
	// Returns:
	//   - *cull.FrameOutput: the frame output
	//   - error: ErrNoFrameSource or any culling or upload error
	Step(deltaTime float32) (*cull.FrameOutput, error)

	// Run starts the tick and frame goroutines. With a window it runs the
	// window message loop on the calling goroutine and quits when the window
	// closes; without one it blocks until Quit.
	Run()

	// Quit stops the engine loops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the given options.
// Defaults: 60Hz tick rate, a 1280x720 camera, an FPTL-only culler, profiling off.
//
// Parameters:
//   - options: variadic list of EngineBuilderOption functions
//
// Returns:
//   - Engine: the engine
//   - error: any culler or GPU buffer creation error
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
		logger:          common.NewDefaultLogger("engine", false),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.culler == nil {
		c, err := cull.NewLightCuller(cull.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
		e.culler = c
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.device != nil {
		e.buffers = gpu.NewCullBuffers()
	}
	e.profiler = profiler.NewProfiler(e.logger, time.Second)

	if e.window != nil {
		w, h := e.window.Size()
		e.camera.SetPixelSize(w, h)
		e.window.SetResizeCallback(func(width, height int) {
			e.frameMu.Lock()
			defer e.frameMu.Unlock()
			e.camera.SetPixelSize(width, height)
		})
	}

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Culler() cull.LightCuller {
	return e.culler
}

func (e *engine) Buffers() *gpu.CullBuffers {
	return e.buffers
}

func (e *engine) Step(deltaTime float32) (*cull.FrameOutput, error) {
	if e.frameSource == nil {
		return nil, ErrNoFrameSource
	}

	e.frameMu.Lock()
	frame := e.frameSource(deltaTime)
	if frame.Camera == nil {
		frame.Camera = e.camera
	}
	start := time.Now()
	out, err := e.culler.Cull(frame)
	elapsed := time.Since(start)
	e.frameMu.Unlock()
	if err != nil {
		return nil, err
	}

	if e.buffers != nil {
		if _, err := e.buffers.ResizeIfNecessary(e.device.WGPUDevice(), out.Resources); err != nil {
			return nil, err
		}
		e.buffers.Upload(e.device.Queue(), out)
	}

	if e.outputCallback != nil {
		e.outputCallback(out)
	}

	if e.profilingEnabled {
		e.profiler.Tick(profiler.CullSample{
			Duration:        elapsed,
			NumLights:       out.Proxies.Len(),
			NumDirLights:    len(out.DirectionalLights),
			TileOverflow:    out.TileStats.Overflowed,
			VoxelIndices:    out.ClusterStats.IndicesUsed,
			VoxelCapacity:   out.Resources.VoxelCapacity(),
			VoxelOverflow:   out.ClusterStats.Overflowed,
			VoxelTruncation: out.ClusterStats.Truncated,
		})
	}
	return out, nil
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	e.running = false
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle starts the engine goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleFrames()
}

// handleEngine runs the tick callback at the engine tick rate.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.frameMu.Lock()
				e.tickCallback(dt)
				e.frameMu.Unlock()
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleFrames culls frames back to back, honoring the frame limit. A
// culling error discards that frame only.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("frame goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastFrame := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastFrame).Seconds())
			lastFrame = now

			if e.frameSource != nil {
				if _, err := e.Step(dt); err != nil {
					e.logger.Warnf("frame discarded: %v", err)
				}
			}

			limit := e.renderFrameLimit
			if e.frameSource == nil && limit == 0 {
				limit = e.engineTickRate
			}
			if limit > 0 {
				if remaining := limit - time.Since(lastFrame); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetFrameSource(source func(deltaTime float32) cull.Frame) {
	e.frameSource = source
}

func (e *engine) SetOutputCallback(callback func(out *cull.FrameOutput)) {
	e.outputCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
