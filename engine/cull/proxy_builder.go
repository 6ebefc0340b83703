package cull

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrCategoryCountMismatch is returned when the fill pass of the proxy build
// places a different number of volumes into a category than the counting
// pass counted. The frame's output is inconsistent and must be discarded.
var ErrCategoryCountMismatch = errors.New("cull: category count mismatch between counting and fill passes")

// ProxySet is the packed, category-ordered output of LightProxyBuilder.Build.
// Data[i] and Bounds[i] describe the same volume; i is the index written into
// tile and voxel lists.
type ProxySet struct {
	Data    []light.GPULightData
	Bounds  []light.GPULightBound
	Offsets CategoryOffsetTable
}

// Len returns the number of packed volumes.
func (p *ProxySet) Len() int {
	return len(p.Data)
}

// proxySource is one categorized input: a light or a probe, never both.
type proxySource struct {
	light light.Light
	probe light.ReflectionProbe
	// visibleIndex is the light's index in the visible list, used for the
	// shadow slot lookup.
	visibleIndex int
	category     Category
}

// LightProxyBuilder turns visible lights and probes into dense,
// category-partitioned records and bounding proxies with a two-pass
// counting sort.
type LightProxyBuilder struct {
	monitor    *common.CapacityMonitor
	logger     common.Logger
	candidates []proxySource

	// classify assigns the counting-pass category; ok is false for inputs
	// that are not categorized.
	classify func(src *proxySource) (Category, bool)
}

// NewLightProxyBuilder creates a LightProxyBuilder.
//
// Parameters:
//   - logger: destination for capacity warnings
//
// Returns:
//   - *LightProxyBuilder: the builder
func NewLightProxyBuilder(logger common.Logger) *LightProxyBuilder {
	return &LightProxyBuilder{
		monitor:    common.NewCapacityMonitor("visible lights and probes", light.MaxNumLights, logger),
		logger:     logger,
		candidates: make([]proxySource, 0, light.MaxNumLights),
		classify:   classifySource,
	}
}

// classifySource returns the category of a light or probe. Directional lights
// are handled by the directional array; probes without a cubemap contribute
// nothing to shading.
func classifySource(src *proxySource) (Category, bool) {
	if src.probe != nil {
		if !src.probe.HasCubemap() {
			return Category{}, false
		}
		return Category{Model: light.LightModelReflection, Volume: light.VolumeBox}, true
	}
	switch src.light.Type() {
	case light.LightTypePoint:
		return Category{Model: light.LightModelDirect, Volume: light.VolumeSphere}, true
	case light.LightTypeSpot:
		return Category{Model: light.LightModelDirect, Volume: light.VolumeSpot}, true
	default:
		return Category{}, false
	}
}

// Build runs the counting sort and writes records and bounds into the
// resource context.
//
// Parameters:
//   - view: world-to-view matrix
//   - lights: enabled visible lights, all types, in visibility order
//   - probes: visible reflection probes
//   - shadows: this frame's shadow constants, indexed like lights
//   - res: the frame resources receiving the packed arrays
//
// Returns:
//   - *ProxySet: the packed records, aliasing res
//   - error: ErrCategoryCountMismatch if the two passes disagree
func (b *LightProxyBuilder) Build(view mgl32.Mat4, lights []light.Light, probes []light.ReflectionProbe, shadows *light.ShadowConstants, res *FrameResourceContext) (*ProxySet, error) {
	// Pass 1: classify and count.
	b.candidates = b.candidates[:0]
	for i, l := range lights {
		src := proxySource{light: l, visibleIndex: i}
		if cat, ok := b.classify(&src); ok {
			src.category = cat
			b.candidates = append(b.candidates, src)
		}
	}
	for _, p := range probes {
		src := proxySource{probe: p, visibleIndex: -1}
		if cat, ok := b.classify(&src); ok {
			src.category = cat
			b.candidates = append(b.candidates, src)
		}
	}
	admitted := b.monitor.Observe(len(b.candidates))
	candidates := b.candidates[:admitted]

	var counts [light.NumLightModels][light.NumVolumeTypes]int
	for i := range candidates {
		c := candidates[i].category
		if !c.valid() {
			return nil, fmt.Errorf("%w: invalid category %v/%v", ErrCategoryCountMismatch, c.Model, c.Volume)
		}
		counts[c.Model][c.Volume]++
	}

	offsets := newCategoryOffsetTable(&counts)

	// Pass 2: build each record and place it by the category it carries.
	var next [light.NumLightModels][light.NumVolumeTypes]int
	for i := range candidates {
		src := &candidates[i]
		var data light.GPULightData
		var bound light.GPULightBound
		if src.probe != nil {
			data, bound = buildProbeProxy(view, src.probe)
		} else {
			data, bound = buildLightProxy(view, src.light, shadows.Slot(src.visibleIndex))
		}

		m, v := data.Category()
		cat := Category{Model: m, Volume: v}
		if !cat.valid() {
			return nil, fmt.Errorf("%w: record carries invalid category %v/%v", ErrCategoryCountMismatch, m, v)
		}
		if next[m][v] >= counts[m][v] {
			return nil, fmt.Errorf("%w: %v/%v counted %d, filling more", ErrCategoryCountMismatch, m, v, counts[m][v])
		}
		slot := offsets.Slot(cat, next[m][v])
		next[m][v]++
		res.lightData[slot] = data
		res.bounds[slot] = bound
	}

	if next != counts {
		for m := range light.NumLightModels {
			for v := range light.NumVolumeTypes {
				if next[m][v] != counts[m][v] {
					return nil, fmt.Errorf("%w: %v/%v counted %d, filled %d",
						ErrCategoryCountMismatch, light.LightModel(m), light.VolumeType(v), counts[m][v], next[m][v])
				}
			}
		}
	}

	total := offsets.Total()
	return &ProxySet{
		Data:    res.lightData[:total],
		Bounds:  res.bounds[:total],
		Offsets: offsets,
	}, nil
}
