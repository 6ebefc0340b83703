package cull

import (
	"math"

	"github.com/Carmen-Shannon/oxy-cull/common"
	"github.com/Carmen-Shannon/oxy-cull/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// spotSqueezeThreshold is the full cone angle in degrees below which a spot
// proxy is built as a pyramid with its apex at the light instead of a box.
const spotSqueezeThreshold = 0.7 * 90

// squeezedApexScale is the relative size of the near cap of a squeezed spot
// proxy.
const squeezedApexScale = 0.01

// buildLightProxy builds the record and bound of a point or spot light.
func buildLightProxy(view mgl32.Mat4, l light.Light, shadowSlot uint32) (light.GPULightData, light.GPULightBound) {
	lightToView := view.Mul4(l.LocalToWorld())
	vx := lightToView.Col(0).Vec3()
	vy := lightToView.Col(1).Vec3()
	vz := lightToView.Col(2).Vec3()
	r := l.Range()

	data := light.GPULightData{
		LightAxisX:       vx,
		LightAxisY:       vy,
		LightAxisZ:       vz,
		LightModel:       uint32(light.LightModelDirect),
		Color:            l.FinalColor(),
		RadiusSq:         r * r,
		ShadowLightIndex: shadowSlot,
	}
	if r > 0 {
		data.RecipRange = 1 / r
	}
	if shadowSlot != light.NoShadow {
		data.Flags |= light.FlagHasShadow
	}
	if l.HasCookie() {
		data.Flags |= light.FlagHasCookie
		data.SliceIndex = l.CookieSlice()
	}

	var bound light.GPULightBound
	if l.Type() == light.LightTypeSpot {
		buildSpotProxy(&data, &bound, l, view, vx, vy, vz, r)
		return data, bound
	}

	center := common.TransformPoint(view, l.Position())
	data.LightType = uint32(light.VolumeSphere)
	data.LightPos = center
	bound.Center = center
	bound.BoxAxisX = mgl32.Vec3{r, 0, 0}
	bound.BoxAxisY = mgl32.Vec3{0, r, 0}
	bound.BoxAxisZ = mgl32.Vec3{0, 0, -r}
	bound.ScaleXY = mgl32.Vec2{1, 1}
	bound.Radius = r
	return data, bound
}

// buildSpotProxy fills the spot-specific parts of a record and its bound.
// The proxy spans from the light to range along the light axis; narrow cones
// use a pyramid (tangent half-extent at the far cap, near cap shrunk), wide
// cones a box (sine half-extent).
func buildSpotProxy(data *light.GPULightData, bound *light.GPULightBound, l light.Light, view mgl32.Mat4, vx, vy, vz mgl32.Vec3, r float32) {
	halfAngle := math.Acos(float64(1 / l.InvCosHalfSpotAngle()))
	fullAngleDeg := mgl32.RadToDeg(float32(2 * halfAngle))
	cs := float32(math.Cos(halfAngle))
	si := float32(math.Sin(halfAngle))

	ta := common.FltMax
	if cs > 0 {
		ta = si / cs
	}
	cota := common.FltMax
	if si > 0 {
		cota = cs / si
	}

	circular := !l.HasCookie()
	squeeze := fullAngleDeg < spotSqueezeThreshold
	fS := si
	scaleXY := float32(1)
	if squeeze {
		fS = ta
		scaleXY = squeezedApexScale
	}

	center := common.TransformPoint(view, l.Position().Add(l.Direction().Mul(0.5*r)))

	bound.Center = center
	bound.BoxAxisX = vx.Mul(fS * r)
	bound.BoxAxisY = vy.Mul(fS * r)
	bound.BoxAxisZ = vz.Mul(0.5 * r)
	bound.ScaleXY = mgl32.Vec2{scaleXY, scaleXY}

	k := float32(2)
	if circular {
		k = 1
		data.Flags |= light.FlagIsCircularSpot
	}
	dx := si * r
	dy := (cs - 0.5) * r
	bound.Radius = max(float32(math.Sqrt(float64(dy*dy+k*dx*dx))), 0.5*r)

	data.LightType = uint32(light.VolumeSpot)
	data.LightPos = common.TransformPoint(view, l.Position())
	data.Penumbra = cs
	data.Cotan = cota
}

// buildProbeProxy builds the record and bound of a box reflection probe. The
// bound covers the box grown by the blend distance on every side.
func buildProbeProxy(view mgl32.Mat4, p light.ReflectionProbe) (light.GPULightData, light.GPULightBound) {
	probeToView := view.Mul4(p.LocalToWorld())
	vx := probeToView.Col(0).Vec3()
	vy := probeToView.Col(1).Vec3()
	vz := probeToView.Col(2).Vec3()

	offset := p.BoxOffset()
	extents := p.BoxExtents()
	blend := p.BlendDistance()
	combined := extents.Add(mgl32.Vec3{blend, blend, blend})
	center := common.TransformPoint(probeToView, offset)
	decode := p.HDRDecode()

	invRange := common.FltMax
	if blend > 0 {
		invRange = 1 / blend
	}

	data := light.GPULightData{
		LightPos:              center,
		LightType:             uint32(light.VolumeBox),
		LightAxisX:            vx,
		LightModel:            uint32(light.LightModelReflection),
		LightAxisY:            vy,
		LightAxisZ:            vz,
		BoxInnerDist:          extents,
		BoxInvRange:           mgl32.Vec3{invRange, invRange, invRange},
		LocalCubeCapturePoint: offset.Mul(-1),
		ProbeBlendDistance:    blend,
		SliceIndex:            p.CubemapSlice(),
		ShadowLightIndex:      light.NoShadow,
		LightIntensity:        decode[0],
		DecodeExp:             decode[1],
	}
	if p.BoxProjection() {
		data.Flags |= light.FlagIsBoxProjected
	}

	bound := light.GPULightBound{
		BoxAxisX: vx.Mul(combined[0]),
		BoxAxisY: vy.Mul(combined[1]),
		BoxAxisZ: vz.Mul(combined[2]),
		Center:   center,
		Radius:   combined.Len(),
		ScaleXY:  mgl32.Vec2{1, 1},
	}
	return data, bound
}
