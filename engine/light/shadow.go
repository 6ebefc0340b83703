package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxShadowLights is the number of visible lights per frame that receive
// shadow constants. Lights beyond it are lit without shadows for the frame.
const MaxShadowLights = 10

// MaxDirectionalSplit is the number of directional shadow cascades.
const MaxDirectionalSplit = 4

// DefaultShadowAtlasSize is the default width and height in texels of the
// shadow atlas the PCF terms are derived from.
const DefaultShadowAtlasSize = 4096

// ShadowConstants holds the per-frame shadow parameters pushed to shading.
// Slot i of every array belongs to the i-th admitted visible light.
type ShadowConstants struct {
	// WorldToShadow holds MaxShadowSlicesPerLight matrices per slot.
	WorldToShadow [MaxShadowLights * MaxShadowSlicesPerLight]mgl32.Mat4
	// ShadowParams.x is 1 when the slot's light has shadow slices.
	ShadowParams [MaxShadowLights]mgl32.Vec4
	// FalloffParams is (attenuation enabled, 0, range², light type).
	FalloffParams [MaxShadowLights]mgl32.Vec4
	// DirShadowSplitSpheres are the directional cascade spheres (xyz center, w radius²).
	DirShadowSplitSpheres [MaxDirectionalSplit]mgl32.Vec4
	// PCFTerms are the 3x3 PCF weights and texel offsets.
	PCFTerms [4]mgl32.Vec4
	// NumLights is the number of admitted slots.
	NumLights int

	slots []uint32
}

// Slot returns the shadow slot assigned to the visible light at index i, or
// NoShadow if the light was beyond the budget or casts no shadow. A nil
// receiver reports NoShadow for every light.
//
// Parameters:
//   - i: index into the visible light list passed to Update
//
// Returns:
//   - uint32: the slot or NoShadow
func (c *ShadowConstants) Slot(i int) uint32 {
	if c == nil || i < 0 || i >= len(c.slots) {
		return NoShadow
	}
	return c.slots[i]
}

// ShadowBudget builds ShadowConstants each frame and enforces MaxShadowLights.
type ShadowBudget struct {
	monitor     *common.CapacityMonitor
	atlasWidth  int
	atlasHeight int
	constants   ShadowConstants
}

// NewShadowBudget creates a ShadowBudget.
//
// Parameters:
//   - logger: destination for over-budget warnings
//   - atlasWidth, atlasHeight: shadow atlas size in texels
//
// Returns:
//   - *ShadowBudget: the budget
func NewShadowBudget(logger common.Logger, atlasWidth, atlasHeight int) *ShadowBudget {
	return &ShadowBudget{
		monitor:     common.NewCapacityMonitor("runtime lights", MaxShadowLights, logger),
		atlasWidth:  common.Coalesce(atlasWidth, DefaultShadowAtlasSize),
		atlasHeight: common.Coalesce(atlasHeight, DefaultShadowAtlasSize),
	}
}

// Update rebuilds the shadow constants for this frame's visible lights. The
// first MaxShadowLights lights in input order are admitted; the rest are
// dropped from the shadow-eligible set.
//
// Parameters:
//   - lights: the frame's visible lights, all types, in visibility order
//   - splitSpheres: directional cascade spheres supplied by the shadow pass
//
// Returns:
//   - *ShadowConstants: the constants, valid until the next Update
func (b *ShadowBudget) Update(lights []Light, splitSpheres [MaxDirectionalSplit]mgl32.Vec4) *ShadowConstants {
	c := &b.constants
	slots := c.slots[:0]
	*c = ShadowConstants{}

	admitted := b.monitor.Observe(len(lights))
	for i, l := range lights {
		if i >= admitted {
			slots = append(slots, NoShadow)
			continue
		}
		slot := uint32(i)
		slices := l.ShadowSlices()
		hasShadows := len(slices) != 0

		c.ShadowParams[slot] = mgl32.Vec4{0, 0, 1, 1}
		switch l.Type() {
		case LightTypeDirectional:
			c.FalloffParams[slot] = mgl32.Vec4{0, 0, math.MaxFloat32, float32(l.Type())}
			if hasShadows {
				c.DirShadowSplitSpheres = splitSpheres
			}
		default:
			r := l.Range()
			c.FalloffParams[slot] = mgl32.Vec4{1, 0, r * r, float32(l.Type())}
		}

		if hasShadows {
			c.ShadowParams[slot][0] = 1
			for s, m := range slices {
				c.WorldToShadow[int(slot)*MaxShadowSlicesPerLight+s] = m
			}
		}
		if l.CastsShadows() && hasShadows {
			slots = append(slots, slot)
		} else {
			slots = append(slots, NoShadow)
		}
		c.NumLights++
	}
	c.slots = slots

	texelX := 1 / float32(b.atlasWidth)
	texelY := 1 / float32(b.atlasHeight)
	c.PCFTerms[0] = mgl32.Vec4{20.0 / 267.0, 33.0 / 267.0, 55.0 / 267.0, 0}
	c.PCFTerms[1] = mgl32.Vec4{texelX, texelY, -texelX, -texelY}
	c.PCFTerms[2] = mgl32.Vec4{texelX, texelY, 0, 0}
	c.PCFTerms[3] = mgl32.Vec4{-texelX, -texelY, 0, 0}

	return c
}

// OverBudget reports whether the last Update dropped lights.
func (b *ShadowBudget) OverBudget() bool {
	return b.monitor.Over()
}
