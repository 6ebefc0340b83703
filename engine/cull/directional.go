package cull

import (
	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// buildDirectionalLights writes the view-space directional light array. Only
// the first MaxNumDirLights directionals in visibility order are kept.
//
// Parameters:
//   - view: world-to-view matrix
//   - lights: enabled visible lights, all types
//   - shadows: this frame's shadow constants, indexed like lights
//   - monitor: capacity monitor for the directional cap
//   - out: destination of capacity MaxNumDirLights
//
// Returns:
//   - []light.GPUDirectionalLight: the written prefix of out
func buildDirectionalLights(view mgl32.Mat4, lights []light.Light, shadows *light.ShadowConstants, monitor *common.CapacityMonitor, out []light.GPUDirectionalLight) []light.GPUDirectionalLight {
	found := 0
	for _, l := range lights {
		if l.Type() == light.LightTypeDirectional {
			found++
		}
	}
	admitted := monitor.Observe(found)

	n := 0
	for i, l := range lights {
		if n == admitted {
			break
		}
		if l.Type() != light.LightTypeDirectional {
			continue
		}
		lightToView := view.Mul4(l.LocalToWorld())
		out[n] = light.GPUDirectionalLight{
			Color:            l.Color(),
			Intensity:        l.Intensity(),
			LightAxisX:       lightToView.Col(0).Vec3(),
			ShadowLightIndex: shadows.Slot(i),
			LightAxisY:       lightToView.Col(1).Vec3(),
			LightAxisZ:       lightToView.Col(2).Vec3(),
		}
		n++
	}
	return out[:n]
}
