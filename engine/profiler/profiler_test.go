package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfiler(logger common.Logger) (*Profiler, *time.Time) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProfiler(logger, time.Second)
	p.now = func() time.Time { return clock }
	p.lastTime = clock
	return p, &clock
}

func TestProfiler_Tick(t *testing.T) {
	logger := common.NewMemoryLogger()
	p, clock := newTestProfiler(logger)

	_, ok := p.Tick(CullSample{Duration: 2 * time.Millisecond, NumLights: 10, VoxelIndices: 100, VoxelCapacity: 1000})
	assert.False(t, ok)
	*clock = clock.Add(500 * time.Millisecond)
	_, ok = p.Tick(CullSample{Duration: 4 * time.Millisecond, NumLights: 30, TileOverflow: 3, VoxelIndices: 250, VoxelCapacity: 1000})
	assert.False(t, ok)
	assert.Empty(t, logger.Infos())

	*clock = clock.Add(1500 * time.Millisecond)
	s, ok := p.Tick(CullSample{Duration: 6 * time.Millisecond, NumLights: 20, VoxelOverflow: 5, VoxelTruncation: 2})
	require.True(t, ok)

	assert.Equal(t, 3, s.Frames)
	assert.InDelta(t, 1.5, s.FPS, 1e-9)
	assert.Equal(t, 4*time.Millisecond, s.AvgCull)
	assert.Equal(t, 6*time.Millisecond, s.MaxCull)
	assert.Equal(t, 30, s.MaxLights)
	assert.Equal(t, int64(3), s.TileOverflow)
	assert.Equal(t, int64(7), s.VoxelOverflow)
	assert.InDelta(t, 0.25, s.PeakVoxelUse, 1e-9)
	require.Len(t, logger.Infos(), 1)
	assert.Contains(t, logger.Infos()[0], "[Profiler] FPS: 1.50")
}

func TestProfiler_ResetsAfterReport(t *testing.T) {
	p, clock := newTestProfiler(common.NewNopLogger())

	*clock = clock.Add(time.Second)
	_, ok := p.Tick(CullSample{Duration: time.Millisecond, NumLights: 50})
	require.True(t, ok)

	*clock = clock.Add(2 * time.Second)
	s, ok := p.Tick(CullSample{Duration: 3 * time.Millisecond, NumLights: 5})
	require.True(t, ok)
	assert.Equal(t, 1, s.Frames)
	assert.Equal(t, 5, s.MaxLights)
	assert.Equal(t, 3*time.Millisecond, s.AvgCull)
	assert.InDelta(t, 0.5, s.FPS, 1e-9)
}

func TestNewProfiler_DefaultInterval(t *testing.T) {
	p := NewProfiler(common.NewNopLogger(), 0)
	assert.Equal(t, time.Second, p.updateInterval)
}
