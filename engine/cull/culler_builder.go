package cull

import (
	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
)

// LightCullerBuilderOption is a functional option for configuring a LightCuller.
// Use the With* functions to create options that are applied directly to the culler instance.
type LightCullerBuilderOption func(*lightCuller)

// WithClustered enables or disables the clustered per-voxel lists.
//
// Parameters:
//   - enabled: if true, voxel lists are built every frame (default false)
//
// Returns:
//   - LightCullerBuilderOption: option function to apply
func WithClustered(enabled bool) LightCullerBuilderOption {
	return func(c *lightCuller) {
		c.clustered = enabled
	}
}

// WithFptl enables or disables the fine-pruned per-tile lists.
//
// Parameters:
//   - enabled: if true, tile lists are built every frame (default true)
//
// Returns:
//   - LightCullerBuilderOption: option function to apply
func WithFptl(enabled bool) LightCullerBuilderOption {
	return func(c *lightCuller) {
		c.fptl = enabled
	}
}

// WithDepthGuidedSlicing enables per-tile log bases derived from each tile's
// occupied depth. Only meaningful with clustered lists and a depth source.
//
// Parameters:
//   - enabled: if true, each tile gets its own slice distribution
//
// Returns:
//   - LightCullerBuilderOption: option function to apply
func WithDepthGuidedSlicing(enabled bool) LightCullerBuilderOption {
	return func(c *lightCuller) {
		c.depthGuided = enabled
	}
}

// WithClusterLogBase overrides the default slice thickness ratio.
// Values < 1 are treated as the default (ClusterLogBase).
//
// Parameters:
//   - base: ratio between consecutive slice thicknesses
//
// Returns:
//   - LightCullerBuilderOption: option function to apply
func WithClusterLogBase(base float32) LightCullerBuilderOption {
	return func(c *lightCuller) {
		if base < 1 {
			base = light.ClusterLogBase
		}
		c.logBase = base
	}
}

// WithWorkers sets the size of the worker pool that runs the per-light and
// per-tile stages. Values < 1 use one worker per spare CPU.
//
// Parameters:
//   - workers: number of pool goroutines
//
// Returns:
//   - LightCullerBuilderOption: option function to apply
func WithWorkers(workers int) LightCullerBuilderOption {
	return func(c *lightCuller) {
		c.workers = workers
	}
}

// WithLogger sets the destination of capacity warnings and errors.
//
// Parameters:
//   - logger: the logger; nil keeps the default
//
// Returns:
//   - LightCullerBuilderOption: option function to apply
func WithLogger(logger common.Logger) LightCullerBuilderOption {
	return func(c *lightCuller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithShadowAtlasSize sets the shadow atlas size the PCF terms are computed for.
//
// Parameters:
//   - width, height: atlas size in texels; 0 keeps DefaultShadowAtlasSize
//
// Returns:
//   - LightCullerBuilderOption: option function to apply
func WithShadowAtlasSize(width, height int) LightCullerBuilderOption {
	return func(c *lightCuller) {
		c.atlasWidth = width
		c.atlasHeight = height
	}
}
