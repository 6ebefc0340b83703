package light

// LightModel is the coarse illumination category of a culled volume. Per-tile
// and per-voxel lists store each model in a disjoint region so a shading pass
// can walk only the sub-range it needs.
type LightModel uint32

const (
	// LightModelDirect covers punctual lights that add direct illumination.
	LightModelDirect LightModel = iota

	// LightModelReflection covers reflection probe volumes.
	LightModelReflection

	// NumLightModels is the number of light models.
	NumLightModels = 2
)

// VolumeType is the shape of the bounding proxy used for culling.
type VolumeType uint32

const (
	// VolumeSphere is the proxy of a point light.
	VolumeSphere VolumeType = iota

	// VolumeSpot is the oriented box or pyramid around a spot cone.
	VolumeSpot

	// VolumeBox is the oriented box of a reflection probe.
	VolumeBox

	// NumVolumeTypes is the number of volume types.
	NumVolumeTypes = 3
)

// NumCategories is the number of (model, volume type) pairs.
const NumCategories = NumLightModels * NumVolumeTypes

// Flag bits stored in GPULightData.Flags.
const (
	FlagHasCookie      uint32 = 1 << 0
	FlagHasShadow      uint32 = 1 << 1
	FlagIsCircularSpot uint32 = 1 << 2
	FlagIsBoxProjected uint32 = 1 << 3
)

// NoShadow is the shadow index stored for lights without a shadow slot.
const NoShadow uint32 = 0xFFFFFFFF

// MaxNumLights is the hard cap on categorized volumes (lights plus probes)
// per frame. Record, bound and AABB buffers are sized to it.
const MaxNumLights = 1024

// MaxNumDirLights is the size of the separate directional light array.
const MaxNumDirLights = 2

func (m LightModel) String() string {
	switch m {
	case LightModelDirect:
		return "direct"
	case LightModelReflection:
		return "reflection"
	}
	return "unknown"
}

func (v VolumeType) String() string {
	switch v {
	case VolumeSphere:
		return "sphere"
	case VolumeSpot:
		return "spot"
	case VolumeBox:
		return "box"
	}
	return "unknown"
}
