package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-cull/common"
)

// CullSample is the per-frame input of the profiler.
type CullSample struct {
	Duration        time.Duration
	NumLights       int
	NumDirLights    int
	TileOverflow    int64
	VoxelIndices    uint32
	VoxelCapacity   int
	VoxelOverflow   int64
	VoxelTruncation int64
}

// Summary aggregates the samples of one reporting interval.
type Summary struct {
	Frames        int
	FPS           float64
	AvgCull       time.Duration
	MaxCull       time.Duration
	MaxLights     int
	TileOverflow  int64
	VoxelOverflow int64
	// PeakVoxelUse is the highest fraction of the voxel index capacity used.
	PeakVoxelUse float64
	HeapMB       float64
	NumGC        uint32
}

// Profiler tracks culling cost, list pressure and memory statistics.
// Outputs a summary to the logger at a configurable interval.
type Profiler struct {
	logger         common.Logger
	updateInterval time.Duration
	now            func() time.Time

	lastTime  time.Time
	memStats  runtime.MemStats
	current   Summary
	totalCull time.Duration
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - logger: destination of the periodic summary
//   - interval: reporting interval; values <= 0 default to 1 second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger common.Logger, interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		logger:         logger,
		updateInterval: interval,
		now:            time.Now,
		lastTime:       time.Now(),
	}
}

// Tick records one frame. When the update interval has elapsed it logs and
// returns the interval's summary.
//
// Parameters:
//   - sample: the frame's culling statistics
//
// Returns:
//   - Summary: the finished interval's summary, valid when ok is true
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick(sample CullSample) (Summary, bool) {
	s := &p.current
	s.Frames++
	p.totalCull += sample.Duration
	s.MaxCull = max(s.MaxCull, sample.Duration)
	s.MaxLights = max(s.MaxLights, sample.NumLights)
	s.TileOverflow += sample.TileOverflow
	s.VoxelOverflow += sample.VoxelOverflow + sample.VoxelTruncation
	if sample.VoxelCapacity > 0 {
		s.PeakVoxelUse = max(s.PeakVoxelUse, float64(sample.VoxelIndices)/float64(sample.VoxelCapacity))
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Summary{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	s.FPS = float64(s.Frames) / elapsed.Seconds()
	s.AvgCull = p.totalCull / time.Duration(s.Frames)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.NumGC = p.memStats.NumGC

	p.logger.Infof("[Profiler] FPS: %.2f | Cull: avg %v, max %v | Lights: %d | Tile overflow: %d | Voxel overflow: %d | Voxel use: %.1f%% | Heap: %.2f MB | GC: %d",
		s.FPS, s.AvgCull, s.MaxCull, s.MaxLights, s.TileOverflow, s.VoxelOverflow, s.PeakVoxelUse*100, s.HeapMB, s.NumGC)

	summary := *s
	p.current = Summary{}
	p.totalCull = 0
	p.lastTime = currentTime
	return summary, true
}
