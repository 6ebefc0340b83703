package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPULightDataSource is the canonical WGSL definition of the LightData struct.
// Matches GPULightData layout exactly (144 bytes, std430 aligned).
//
//go:embed assets/light_data.wgsl
var GPULightDataSource string

// GPULightData is the packed shading record of one culled light or probe.
// Records are stored category by category, so the index of a record in the
// packed array is the index written into tile and voxel lists.
// Size: 144 bytes (std430 / WGSL aligned).
type GPULightData struct {
	LightPos              mgl32.Vec3 // offset   0: view-space position (probe: box center)
	LightType             uint32     // offset  12: VolumeType
	LightAxisX            mgl32.Vec3 // offset  16
	LightModel            uint32     // offset  28: LightModel
	LightAxisY            mgl32.Vec3 // offset  32
	Flags                 uint32     // offset  44: Flag* bits
	LightAxisZ            mgl32.Vec3 // offset  48
	RecipRange            float32    // offset  60
	Color                 mgl32.Vec3 // offset  64: color * intensity
	RadiusSq              float32    // offset  76
	BoxInnerDist          mgl32.Vec3 // offset  80: probe box half extents
	Penumbra              float32    // offset  92: cos(half spot angle)
	BoxInvRange           mgl32.Vec3 // offset  96: 1 / blend distance per axis
	Cotan                 float32    // offset 108: cot(half spot angle)
	LocalCubeCapturePoint mgl32.Vec3 // offset 112: capture point relative to box center
	ProbeBlendDistance    float32    // offset 124
	SliceIndex            uint32     // offset 128: cookie or cubemap slice
	ShadowLightIndex      uint32     // offset 132: NoShadow when unshadowed
	LightIntensity        float32    // offset 136: probe HDR multiplier
	DecodeExp             float32    // offset 140: probe HDR exponent
}

// Size returns the size of the GPULightData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPULightData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Category returns the (model, volume type) pair this record belongs to.
func (g *GPULightData) Category() (LightModel, VolumeType) {
	return LightModel(g.LightModel), VolumeType(g.LightType)
}

// Marshal serializes the record into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload
func (g *GPULightData) Marshal() []byte {
	buf := make([]byte, 144)
	putVec3(buf[0:], g.LightPos)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	putVec3(buf[16:], g.LightAxisX)
	binary.LittleEndian.PutUint32(buf[28:32], g.LightModel)
	putVec3(buf[32:], g.LightAxisY)
	binary.LittleEndian.PutUint32(buf[44:48], g.Flags)
	putVec3(buf[48:], g.LightAxisZ)
	putF32(buf[60:], g.RecipRange)
	putVec3(buf[64:], g.Color)
	putF32(buf[76:], g.RadiusSq)
	putVec3(buf[80:], g.BoxInnerDist)
	putF32(buf[92:], g.Penumbra)
	putVec3(buf[96:], g.BoxInvRange)
	putF32(buf[108:], g.Cotan)
	putVec3(buf[112:], g.LocalCubeCapturePoint)
	putF32(buf[124:], g.ProbeBlendDistance)
	binary.LittleEndian.PutUint32(buf[128:132], g.SliceIndex)
	binary.LittleEndian.PutUint32(buf[132:136], g.ShadowLightIndex)
	putF32(buf[136:], g.LightIntensity)
	putF32(buf[140:], g.DecodeExp)
	return buf
}

// GPULightBoundSource is the canonical WGSL definition of the LightBound struct.
// Matches GPULightBound layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/light_bound.wgsl
var GPULightBoundSource string

// GPULightBound is the bounding proxy of one culled volume in view space: an
// oriented hexahedron spanned by the three half-axes around Center whose -Z
// cap is shrunk by ScaleXY (a pyramid for squeezed spot cones), plus a
// conservative bounding sphere.
// Size: 80 bytes (std430 / WGSL aligned).
type GPULightBound struct {
	BoxAxisX mgl32.Vec3 // offset  0
	_pad0    uint32     // offset 12
	BoxAxisY mgl32.Vec3 // offset 16
	_pad1    uint32     // offset 28
	BoxAxisZ mgl32.Vec3 // offset 32
	_pad2    uint32     // offset 44
	Center   mgl32.Vec3 // offset 48
	Radius   float32    // offset 60
	ScaleXY  mgl32.Vec2 // offset 64
	_pad3    [2]uint32  // offset 72
}

// Size returns the size of the GPULightBound struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (b *GPULightBound) Size() int {
	return int(unsafe.Sizeof(*b))
}

// Marshal serializes the bound into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (b *GPULightBound) Marshal() []byte {
	buf := make([]byte, 80)
	putVec3(buf[0:], b.BoxAxisX)
	putVec3(buf[16:], b.BoxAxisY)
	putVec3(buf[32:], b.BoxAxisZ)
	putVec3(buf[48:], b.Center)
	putF32(buf[60:], b.Radius)
	putF32(buf[64:], b.ScaleXY[0])
	putF32(buf[68:], b.ScaleXY[1])
	return buf
}

// GPUDirectionalLightSource is the canonical WGSL definition of the
// DirectionalLight struct. Matches GPUDirectionalLight layout exactly (64 bytes).
//
//go:embed assets/directional_light.wgsl
var GPUDirectionalLightSource string

// GPUDirectionalLight is the GPU-aligned representation of a directional
// light. Axes are in view space; AxisZ is the direction the light travels.
// Size: 64 bytes (std430 / WGSL aligned).
type GPUDirectionalLight struct {
	Color            mgl32.Vec3 // offset  0
	Intensity        float32    // offset 12
	LightAxisX       mgl32.Vec3 // offset 16
	ShadowLightIndex uint32     // offset 28
	LightAxisY       mgl32.Vec3 // offset 32
	_pad0            uint32     // offset 44
	LightAxisZ       mgl32.Vec3 // offset 48
	_pad1            uint32     // offset 60
}

// Size returns the size of the GPUDirectionalLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (d *GPUDirectionalLight) Size() int {
	return int(unsafe.Sizeof(*d))
}

// Marshal serializes the directional light into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (d *GPUDirectionalLight) Marshal() []byte {
	buf := make([]byte, 64)
	putVec3(buf[0:], d.Color)
	putF32(buf[12:], d.Intensity)
	putVec3(buf[16:], d.LightAxisX)
	binary.LittleEndian.PutUint32(buf[28:32], d.ShadowLightIndex)
	putVec3(buf[32:], d.LightAxisY)
	putVec3(buf[48:], d.LightAxisZ)
	return buf
}

// GPULightCullUniformsSource is the canonical WGSL definition of the LightCullUniforms struct.
// Matches GPULightCullUniforms layout exactly (176 bytes, std430 aligned).
//
//go:embed assets/light_cull_uniforms.wgsl
var GPULightCullUniformsSource string

// GPULightCullUniforms is the global parameter block shading passes need to
// locate a pixel's tile or voxel list.
// Size: 176 bytes (std430 / WGSL aligned).
//
// Layout:
//
//	mat4x4<f32> scr_projection          (64 bytes, offset   0)
//	mat4x4<f32> inv_scr_projection      (64 bytes, offset  64)
//	u32         width_rt                ( 4 bytes, offset 128)
//	u32         height_rt               ( 4 bytes, offset 132)
//	u32         tile_count_x            ( 4 bytes, offset 136)
//	u32         tile_count_y            ( 4 bytes, offset 140)
//	u32         num_visible_lights      ( 4 bytes, offset 144)
//	u32         num_dir_lights          ( 4 bytes, offset 148)
//	u32         log2_num_clusters       ( 4 bytes, offset 152)
//	u32         log_base_buffer_enabled ( 4 bytes, offset 156)
//	f32         near_plane              ( 4 bytes, offset 160)
//	f32         far_plane               ( 4 bytes, offset 164)
//	f32         clust_scale             ( 4 bytes, offset 168)
//	f32         clust_base              ( 4 bytes, offset 172)
type GPULightCullUniforms struct {
	ScrProjection        mgl32.Mat4
	InvScrProjection     mgl32.Mat4
	WidthRT              uint32
	HeightRT             uint32
	TileCountX           uint32
	TileCountY           uint32
	NumVisibleLights     uint32
	NumDirLights         uint32
	Log2NumClusters      uint32
	LogBaseBufferEnabled uint32
	NearPlane            float32
	FarPlane             float32
	ClustScale           float32
	ClustBase            float32
}

// Size returns the size of the GPULightCullUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (176)
func (u *GPULightCullUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes GPULightCullUniforms into a 176-byte little-endian buffer
// suitable for GPU upload.
//
// Returns:
//   - []byte: 176-byte buffer ready for GPU upload
func (u *GPULightCullUniforms) Marshal() []byte {
	buf := make([]byte, 176)
	off := 0

	for i := range 16 {
		putF32(buf[off:], u.ScrProjection[i])
		off += 4
	}
	for i := range 16 {
		putF32(buf[off:], u.InvScrProjection[i])
		off += 4
	}
	for _, v := range [...]uint32{
		u.WidthRT, u.HeightRT, u.TileCountX, u.TileCountY,
		u.NumVisibleLights, u.NumDirLights, u.Log2NumClusters, u.LogBaseBufferEnabled,
	} {
		binary.LittleEndian.PutUint32(buf[off:off+4], v)
		off += 4
	}
	for _, v := range [...]float32{u.NearPlane, u.FarPlane, u.ClustScale, u.ClustBase} {
		putF32(buf[off:], v)
		off += 4
	}

	return buf
}

// MarshalLightData marshals packed light records back to back.
//
// Parameters:
//   - records: the packed records
//
// Returns:
//   - []byte: the marshaled buffer
func MarshalLightData(records []GPULightData) []byte {
	size := (&GPULightData{}).Size()
	buf := make([]byte, 0, len(records)*size)
	for i := range records {
		buf = append(buf, records[i].Marshal()...)
	}
	return buf
}

// MarshalLightBounds marshals bounding proxies back to back.
//
// Parameters:
//   - bounds: the packed proxies
//
// Returns:
//   - []byte: the marshaled buffer
func MarshalLightBounds(bounds []GPULightBound) []byte {
	size := (&GPULightBound{}).Size()
	buf := make([]byte, 0, len(bounds)*size)
	for i := range bounds {
		buf = append(buf, bounds[i].Marshal()...)
	}
	return buf
}

// MarshalDirectionalLights marshals a directional light array.
//
// Parameters:
//   - lights: the directional lights
//
// Returns:
//   - []byte: the marshaled buffer
func MarshalDirectionalLights(lights []GPUDirectionalLight) []byte {
	size := (&GPUDirectionalLight{}).Size()
	buf := make([]byte, 0, len(lights)*size)
	for i := range lights {
		buf = append(buf, lights[i].Marshal()...)
	}
	return buf
}

// MarshalUint32s marshals a word buffer (tile lists, voxel offsets, voxel
// lists) as little-endian bytes.
//
// Parameters:
//   - words: the buffer
//
// Returns:
//   - []byte: the marshaled buffer
func MarshalUint32s(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], w)
	}
	return buf
}

// MarshalFloat32s marshals a float buffer (per-tile log base) as little-endian bytes.
//
// Parameters:
//   - values: the buffer
//
// Returns:
//   - []byte: the marshaled buffer
func MarshalFloat32s(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		putF32(buf[i*4:], v)
	}
	return buf
}

func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v))
}

func putVec3(buf []byte, v mgl32.Vec3) {
	putF32(buf[0:], v[0])
	putF32(buf[4:], v[1])
	putF32(buf[8:], v[2])
}
